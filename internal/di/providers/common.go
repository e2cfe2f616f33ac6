// Package providers contains dependency injection providers for the grocery list.
package providers

import "time"

const (
	// shutdownTimeout is the maximum time to wait for in-flight requests on shutdown.
	shutdownTimeout = 10 * time.Second
)
