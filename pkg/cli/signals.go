package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// ShutdownContext derives a context that is canceled on SIGINT or SIGTERM.
// A second signal while the registration is active terminates the process
// the default way. The stop function releases the registration.
func ShutdownContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
