package sockopt

import (
	"context"
	"net"
)

// Listen binds network/address with the platform-tuned listen config.
func Listen(ctx context.Context, network, address string) (net.Listener, error) {
	lc := net.ListenConfig{Control: TuneListener}
	return lc.Listen(ctx, network, address)
}
