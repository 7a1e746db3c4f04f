package middleware

import (
	"go.uber.org/ratelimit"

	"github.com/dmitrymomot/bindkit"
)

// RateLimit admits at most rps requests per second through a leaky
// bucket shared by every request on the endpoint. Excess requests queue
// for the next slot instead of failing, smoothing bursts into a steady
// rate. Pass ratelimit.WithoutSlack to forbid catch-up bursts.
func RateLimit(rps int, opts ...ratelimit.Option) bindkit.Link {
	rl := ratelimit.New(rps, opts...)
	return bindkit.NewMiddleware(func(ctx bindkit.Context, _ noParams, next bindkit.Next) (any, error) {
		rl.Take()
		return next()
	})
}
