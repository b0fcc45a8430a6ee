package telegram

import (
	"fmt"
	"sync"

	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	tele "gopkg.in/telebot.v3"
)

// CallbackFunc handles one decoded inline button press
type CallbackFunc func(c tele.Context, p callback.Payload) error

type route struct {
	run   CallbackFunc
	guard tele.MiddlewareFunc
}

// CallbackRouter dispatches inline button presses by action
type CallbackRouter struct {
	mu       sync.RWMutex
	routes   map[string]route
	fallback CallbackFunc
}

// NewCallbackRouter creates an empty router
func NewCallbackRouter() *CallbackRouter {
	return &CallbackRouter{routes: make(map[string]route)}
}

// On registers fn for action
func (r *CallbackRouter) On(action string, fn CallbackFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[action] = route{run: fn}
}

// OnGuarded registers fn behind guard, e.g. an admin check
func (r *CallbackRouter) OnGuarded(action string, guard tele.MiddlewareFunc, fn CallbackFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[action] = route{run: fn, guard: guard}
}

// Fallback handles presses no route claims, e.g. choices of an active wizard
func (r *CallbackRouter) Fallback(fn CallbackFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = fn
}

// Has reports whether action is routed
func (r *CallbackRouter) Has(action string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.routes[action]
	return ok
}

// Dispatch is the tele.OnCallback endpoint. Every press is answered so the
// client stops its spinner, even when the handler already responded.
func (r *CallbackRouter) Dispatch(c tele.Context) error {
	cb := c.Callback()
	if cb == nil {
		return nil
	}
	defer func() { _ = c.Respond() }()

	p, err := callback.Parse(cb.Data)
	if err != nil {
		logger.Warn(fmt.Sprintf("Callback inválido %q: %v", cb.Data, err), "Callbacks")
		return nil
	}

	r.mu.RLock()
	rt, ok := r.routes[p.Action]
	fallback := r.fallback
	r.mu.RUnlock()

	if !ok {
		if fallback != nil {
			return fallback(c, p)
		}
		logger.Debug("Callback sin ruta: "+p.Action, "Callbacks")
		return nil
	}

	h := func(c tele.Context) error { return rt.run(c, p) }
	if rt.guard != nil {
		return rt.guard(h)(c)
	}
	return h(c)
}
