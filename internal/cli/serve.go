package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/grocerylistapp/grocerylist/internal/di"
)

func (a *app) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the local API on the loopback interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(func(injector *do.RootScope) error {
				log := logger(injector)

				srv, err := di.Bootstrap(injector)
				if err != nil {
					return err
				}

				quit := make(chan os.Signal, 1)
				signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
				defer signal.Stop(quit)

				select {
				case <-quit:
					log.Info("Shutting down server...")
				case <-cmd.Context().Done():
					log.Info("Shutting down server...")
				case err := <-srv.Errors():
					if err != nil {
						return err
					}
				}

				log.Info("Server stopped gracefully")
				return nil
			})
		},
	}
}
