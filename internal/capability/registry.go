// Package capability registers the platform services exposed to the
// frontend. Registration happens once at startup; the set never changes
// afterwards.
//
// Every capability is bound into the frontend as-is, so the lifecycle hooks
// are unexported and only the service methods are callable from JavaScript.
package capability

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Capability is a named platform service.
type Capability interface {
	Name() string
	// setup validates configuration and acquires resources. An error aborts
	// startup.
	setup() error
}

type starter interface {
	startup(ctx context.Context)
}

type closer interface {
	close() error
}

type Registry struct {
	log   *zap.Logger
	caps  []Capability
	names map[string]bool
	ready int
}

func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{log: log, names: make(map[string]bool)}
}

// Register appends capabilities in order. Names must be unique.
func (r *Registry) Register(caps ...Capability) error {
	for _, c := range caps {
		name := c.Name()
		if name == "" {
			return errors.New("capability has no name")
		}
		if r.names[name] {
			return fmt.Errorf("capability %q registered twice", name)
		}
		r.names[name] = true
		r.caps = append(r.caps, c)
	}
	return nil
}

// SetupAll runs setup in registration order and stops at the first failure,
// closing whatever was already set up.
func (r *Registry) SetupAll() error {
	for i, c := range r.caps {
		if err := c.setup(); err != nil {
			r.ready = i
			_ = r.Close()
			return fmt.Errorf("register capability %q: %w", c.Name(), err)
		}
		r.log.Debug("capability registered", zap.String("name", c.Name()))
	}
	r.ready = len(r.caps)
	return nil
}

func (r *Registry) Names() []string {
	out := make([]string, len(r.caps))
	for i, c := range r.caps {
		out[i] = c.Name()
	}
	return out
}

// Bindings returns the capabilities that finished setup, for the frontend.
func (r *Registry) Bindings() []any {
	out := make([]any, 0, r.ready)
	for _, c := range r.caps[:r.ready] {
		out = append(out, c)
	}
	return out
}

// Startup hands the runtime context to capabilities that need it.
func (r *Registry) Startup(ctx context.Context) {
	for _, c := range r.caps[:r.ready] {
		if s, ok := c.(starter); ok {
			s.startup(ctx)
		}
	}
}

// Close releases capabilities in reverse order.
func (r *Registry) Close() error {
	var errs []error
	for i := r.ready - 1; i >= 0; i-- {
		c, ok := r.caps[i].(closer)
		if !ok {
			continue
		}
		if err := c.close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", r.caps[i].Name(), err))
		}
	}
	r.ready = 0
	return errors.Join(errs...)
}
