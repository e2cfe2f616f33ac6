package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/grocerylistapp/grocerylist/internal/config"
	"github.com/grocerylistapp/grocerylist/internal/logger"
	"github.com/grocerylistapp/grocerylist/internal/validation"
)

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*slog.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Debug("configuration loaded",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Store.DataPath,
		"remote_url", cfg.Remote.BaseURL,
		"duplicate_policy", cfg.List.DuplicatePolicy,
		"cascade_deletes", cfg.List.CascadeDeletes,
	)

	return log, nil
}

// ProvideValidator provides the shared struct validator.
func ProvideValidator(_ do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}
