package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/MrWong99/orthograph/pkg/provider/llm"
	"github.com/MrWong99/orthograph/pkg/provider/llm/anyllm"
	anyllmlib "github.com/mozilla-ai/any-llm-go"
)

// ErrProviderNotRegistered is returned by [Registry.CreateResolver] when no
// factory has been registered under the requested provider name.
var ErrProviderNotRegistered = errors.New("config: provider not registered")

// ResolverFactory constructs an LLM provider from its config entry.
type ResolverFactory func(ResolverConfig) (llm.Provider, error)

// Registry maps resolver provider names to their constructor functions.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	resolvers map[string]ResolverFactory
}

// NewRegistry returns an empty, ready-to-use [Registry].
func NewRegistry() *Registry {
	return &Registry{resolvers: make(map[string]ResolverFactory)}
}

// DefaultRegistry returns a [Registry] with every provider any-llm-go
// supports pre-registered. Third-party providers can be added on top with
// [Registry.RegisterResolver].
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, name := range KnownResolverProviders {
		r.RegisterResolver(name, anyLLMFactory(name))
	}
	return r
}

// RegisterResolver registers a resolver provider factory under name.
// Subsequent calls with the same name overwrite the previous registration.
func (r *Registry) RegisterResolver(name string, factory ResolverFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolvers[name] = factory
}

// CreateResolver instantiates an LLM provider using the factory registered
// under entry.Provider. Returns [ErrProviderNotRegistered] if no factory has
// been registered for that name.
func (r *Registry) CreateResolver(entry ResolverConfig) (llm.Provider, error) {
	r.mu.RLock()
	factory, ok := r.resolvers[entry.Provider]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: resolver/%q", ErrProviderNotRegistered, entry.Provider)
	}
	return factory(entry)
}

// anyLLMFactory builds a [ResolverFactory] backed by any-llm-go for the
// given provider name.
func anyLLMFactory(name string) ResolverFactory {
	return func(entry ResolverConfig) (llm.Provider, error) {
		var opts []anyllmlib.Option
		if entry.APIKey != "" {
			opts = append(opts, anyllmlib.WithAPIKey(entry.APIKey))
		}
		if entry.BaseURL != "" {
			opts = append(opts, anyllmlib.WithBaseURL(entry.BaseURL))
		}
		return anyllm.New(name, entry.Model, opts...)
	}
}
