package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/chanroute/pkg/channel"
	"github.com/matzehuels/chanroute/pkg/graph"
	"github.com/matzehuels/chanroute/pkg/observability"
)

// Routed is the output of the route stage. It is also the cached form of a
// routing, so a cache hit restores the statistics along with the wiring.
type Routed struct {
	Graph graph.Graph   `json:"graph"`
	Stats channel.Stats `json:"stats"`
}

// Route runs the router on opts.Pins, widening the channel on failure. The
// options must have passed ValidateForRoute.
func Route(ctx context.Context, opts Options) (Routed, error) {
	hooks := observability.Pipeline()
	hooks.OnRouteStart(ctx, len(opts.Pins.Nets()), opts.Pins.Len())
	start := time.Now()

	ropts := []channel.Option{channel.WithRetryHook(hooks.OnRetry)}
	if opts.Logger != nil {
		ropts = append(ropts, channel.WithLogger(opts.Logger))
	}
	if opts.Observer != nil {
		ropts = append(ropts, channel.WithObserver(opts.Observer))
	}

	res, err := channel.RouteAndRetry(ctx, opts.Pins, opts.RouterConfig(), ropts...)
	if err != nil {
		tries := 1
		var rerr *channel.RouteError
		if errors.As(err, &rerr) {
			tries = rerr.Tries
		}
		hooks.OnRouteComplete(ctx, 0, tries, time.Since(start), err)
		return Routed{}, err
	}
	hooks.OnRouteComplete(ctx, res.Width, res.Tries, time.Since(start), nil)

	return Routed{Graph: graph.FromResult(res), Stats: res.Stats()}, nil
}
