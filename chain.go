package bindkit

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/dmitrymomot/bindkit/binder"
	"github.com/dmitrymomot/bindkit/pkg/logger"
)

// chainPhase is the request's position in the chain lifecycle. Every
// request walks Pending, then Extracting/Executing per link, and ends in
// Completed or Failed.
type chainPhase int

const (
	phasePending chainPhase = iota
	phaseExtracting
	phaseExecuting
	phaseCompleted
	phaseFailed
)

func (p chainPhase) String() string {
	switch p {
	case phasePending:
		return "pending"
	case phaseExtracting:
		return "extracting"
	case phaseExecuting:
		return "executing"
	case phaseCompleted:
		return "completed"
	case phaseFailed:
		return "failed"
	default:
		return "invalid"
	}
}

// compiledLink pairs a registered link with its extraction table.
type compiledLink struct {
	Link
	table *Table
}

// chain drives one request through the middleware links and the terminal
// handler. Links share a single extraction cache; each gets its own
// Context with fresh response metadata.
type chain struct {
	links    []compiledLink // middleware in order, terminal last
	enc      Encoder
	log      *slog.Logger
	verifier CookieVerifier
	signer   CookieSigner
}

// runState is the per-request state machine, mutated only by the request's
// own goroutine.
type runState struct {
	phase chainPhase
	link  int
}

func (c *chain) run(cache *binder.Cache) (Response, error) {
	st := &runState{phase: phasePending, link: -1}
	resp, err := c.call(0, cache, st)
	if err != nil {
		c.transition(st, st.link, phaseFailed)
	} else {
		c.transition(st, st.link, phaseCompleted)
	}
	return resp, err
}

// call runs link i. Calling next recurses into i+1, so errors from inner
// links surface here first and may be intercepted by this link's function.
func (c *chain) call(i int, cache *binder.Cache, st *runState) (Response, error) {
	if err := cache.Request().Context().Err(); err != nil {
		return nil, err
	}
	link := c.links[i]

	c.transition(st, i, phaseExtracting)
	params, fails, err := bindParams(link.table, bindEnv{cache: cache, verifier: c.verifier})
	if err != nil {
		return nil, err
	}
	if len(fails) > 0 {
		return nil, newValidationError(fails)
	}

	var next Next
	if !link.terminal {
		next = func() (Response, error) {
			return c.call(i+1, cache, st)
		}
	}

	ctx := newLinkContext(cache.Request(), c.signer)
	c.transition(st, i, phaseExecuting)
	v, err := link.invoke(ctx, params, next)
	if err != nil {
		return nil, err
	}
	return c.respond(link, ctx, v)
}

// respond negotiates a link's return value into a Response. Finished
// responses pass through untouched; plain values must be of a declared
// type and are encoded with the link's own staged metadata.
func (c *chain) respond(link compiledLink, ctx *linkContext, v any) (Response, error) {
	if v == nil {
		return nil, nil
	}
	if resp, ok := v.(Response); ok {
		return resp, nil
	}
	if !link.declares(reflect.TypeOf(v)) {
		return nil, fmt.Errorf("%w: %s returned %T", ErrUndeclaredResponse, link.name, v)
	}
	return c.enc.Encode(v, ctx.meta), nil
}

func (c *chain) transition(st *runState, link int, phase chainPhase) {
	st.link, st.phase = link, phase
	attrs := []any{slog.String("state", phase.String())}
	if link >= 0 && link < len(c.links) {
		attrs = append(attrs, slog.Int("step", link), logger.Link(c.links[link].name))
	}
	c.log.Debug("request state", attrs...)
}
