package provider

import (
	"context"
	"sync"

	"github.com/AlexZinkM/sip-wallet/internal/model"
	"github.com/AlexZinkM/sip-wallet/proof"

	"go.uber.org/zap"
)

// Options carries the collaborators shared by every adapter the registry
// builds.
type Options struct {
	Network string
	Ledger  Ledger
	Prover  proof.Prover
	// Backend is the optional MPC service; nil disables it, the MPC
	// adapter then serves through its fallback path.
	Backend Backend
	Log     *zap.Logger
}

type cacheKey struct {
	id      string
	network string
}

// Registry builds adapters and memoizes initialized instances per
// (provider, network). The cache can be cleared at any point between
// operations; in-flight operations hold their own adapter reference, so a
// clear never pulls state out from under them.
type Registry struct {
	opts Options

	mu    sync.Mutex
	cache map[cacheKey]Adapter
}

// NewRegistry creates a registry over the given collaborators.
func NewRegistry(opts Options) *Registry {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	return &Registry{
		opts:  opts,
		cache: make(map[cacheKey]Adapter),
	}
}

// Known lists the provider ids this registry can build.
func Known() []string {
	return []string{NativeID, PoolID, MPCID}
}

// CreateAdapter builds a fresh, uninitialized adapter for the given
// provider id and network.
func (r *Registry) CreateAdapter(id, network string) (Adapter, error) {
	log := r.opts.Log.With(zap.String("provider", id), zap.String("network", network))
	switch id {
	case NativeID:
		return NewNativeAdapter(network, r.opts.Ledger, r.opts.Prover, log), nil
	case PoolID:
		return NewPoolAdapter(network, r.opts.Ledger, r.opts.Prover, log), nil
	case MPCID:
		return NewMPCAdapter(network, r.opts.Ledger, r.opts.Prover, r.opts.Backend, log), nil
	}
	return nil, model.Ef(model.KindValidation, "unknown provider id %q", id)
}

// InitializeAdapter wraps construction, Initialize and the readiness
// check into one call.
func (r *Registry) InitializeAdapter(ctx context.Context, id, network string) (Adapter, error) {
	adapter, err := r.CreateAdapter(id, network)
	if err != nil {
		return nil, err
	}
	if err := adapter.Initialize(ctx); err != nil {
		return nil, err
	}
	if !adapter.IsReady() {
		return nil, model.Ef(model.KindBackend, "provider %q failed to become ready", id)
	}
	return adapter, nil
}

// GetAdapter returns the memoized adapter for (id, network), initializing
// it on first use. Repeated lookups never re-initialize.
func (r *Registry) GetAdapter(ctx context.Context, id, network string) (Adapter, error) {
	if network == "" {
		network = r.opts.Network
	}
	key := cacheKey{id: id, network: network}

	r.mu.Lock()
	if adapter, ok := r.cache[key]; ok {
		r.mu.Unlock()
		return adapter, nil
	}
	r.mu.Unlock()

	adapter, err := r.InitializeAdapter(ctx, id, network)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another caller may have won the race; keep the first instance so
	// every caller shares one adapter per key.
	if existing, ok := r.cache[key]; ok {
		return existing, nil
	}
	r.cache[key] = adapter
	return adapter, nil
}

// ClearCache drops every memoized adapter, e.g. on a network switch. The
// next GetAdapter rebuilds from scratch.
func (r *Registry) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[cacheKey]Adapter)
}
