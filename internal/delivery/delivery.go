// Package delivery defines the contract shared by all transport servers.
package delivery

import "context"

// Delivery is a transport-facing server that can be started with Serve.
// Shutdown is handled through the application lifecycle, not through ctx.
type Delivery interface {
	Serve(ctx context.Context) error
}
