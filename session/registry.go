// Package session keeps one form controller per session key for the lifetime
// of the process.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tbxark/interviewform/controller"
)

type Factory func(ctx context.Context) (*controller.Controller, error)

type Registry struct {
	mu        sync.Mutex
	cache     Cache[*controller.Controller]
	factory   Factory
	namespace string
	logger    *slog.Logger
}

type RegistryOption func(*Registry)

func WithCache(cache Cache[*controller.Controller]) RegistryOption {
	return func(r *Registry) {
		if cache != nil {
			r.cache = cache
		}
	}
}

func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewRegistry(factory Factory, opts ...RegistryOption) *Registry {
	r := &Registry{
		cache:     NewMemoryCache[*controller.Controller](),
		factory:   factory,
		namespace: "interviewform:session",
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) key(ctx context.Context) string {
	return r.namespace + ":" + keyOrDefault(ctx)
}

// Acquire returns the controller of the session in ctx, creating and starting
// one on first use.
func (r *Registry) Acquire(ctx context.Context) (*controller.Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := r.key(ctx)
	ctrl, ok, err := r.cache.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if ok {
		return ctrl, nil
	}

	ctrl, err = r.factory(ctx)
	if err != nil {
		return nil, fmt.Errorf("create controller: %w", err)
	}
	if err := r.cache.Set(ctx, key, ctrl); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	ctrl.Start(context.WithoutCancel(ctx))
	r.logger.Debug("Session created", "key", key)
	return ctrl, nil
}

func (r *Registry) Get(ctx context.Context) (*controller.Controller, bool, error) {
	return r.cache.Get(ctx, r.key(ctx))
}

// Remove forgets the session in ctx. Its form values are discarded.
func (r *Registry) Remove(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache.Del(ctx, r.key(ctx))
}
