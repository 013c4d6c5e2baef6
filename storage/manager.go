// Copyright 2026 Dumpsift Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// StoreName identifies one of the managed backends.
type StoreName string

const (
	// StoreStructured is the relational record store.
	StoreStructured StoreName = "structured"
	// StoreVector is the similarity-search store.
	StoreVector StoreName = "vector"
	// StoreGraph is the relationship store.
	StoreGraph StoreName = "graph"
	// StoreCache is the query-result cache.
	StoreCache StoreName = "cache"
)

// storeNames is the deterministic connect/close order.
var storeNames = []StoreName{StoreStructured, StoreVector, StoreGraph, StoreCache}

// State is the connection state of one store handle.
type State int

const (
	// StateDisconnected is the initial state, and the state after Close.
	StateDisconnected State = iota
	// StateConnecting means a connect attempt is in flight.
	StateConnecting
	// StateConnected means the store is live and available.
	StateConnected
	// StateFailed means retries were exhausted; the store stays
	// unavailable for the rest of the process lifetime.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	default:
		return "disconnected"
	}
}

const (
	defaultMaxAttempts = 5
	defaultRetryDelay  = 2 * time.Second
)

// handle owns one store's connection lifecycle. The live store object
// never leaves the manager except as a capability interface.
type handle struct {
	mu    sync.Mutex
	name  StoreName
	state State
	dial  func(ctx context.Context) (Store, error)
	store Store
}

// Manager owns lazy, retrying connections to every backend store. It
// is an explicitly constructed component with a defined lifecycle:
// construct, ConnectAll, use, CloseAll. There is no package-level
// instance and no background reconnection.
type Manager struct {
	handles     map[StoreName]*handle
	maxAttempts int
	retryDelay  time.Duration
	logger      *slog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithStructured registers the structured store dialer.
func WithStructured(dial func(ctx context.Context) (StructuredStore, error)) ManagerOption {
	return func(m *Manager) {
		m.register(StoreStructured, func(ctx context.Context) (Store, error) { return dial(ctx) })
	}
}

// WithVector registers the vector store dialer.
func WithVector(dial func(ctx context.Context) (VectorStore, error)) ManagerOption {
	return func(m *Manager) {
		m.register(StoreVector, func(ctx context.Context) (Store, error) { return dial(ctx) })
	}
}

// WithGraph registers the graph store dialer.
func WithGraph(dial func(ctx context.Context) (GraphStore, error)) ManagerOption {
	return func(m *Manager) {
		m.register(StoreGraph, func(ctx context.Context) (Store, error) { return dial(ctx) })
	}
}

// WithCache registers the cache dialer.
func WithCache(dial func(ctx context.Context) (Cache, error)) ManagerOption {
	return func(m *Manager) {
		m.register(StoreCache, func(ctx context.Context) (Store, error) { return dial(ctx) })
	}
}

// WithMaxAttempts sets the connect retry budget. Default is 5.
func WithMaxAttempts(attempts int) ManagerOption {
	return func(m *Manager) {
		if attempts > 0 {
			m.maxAttempts = attempts
		}
	}
}

// WithRetryDelay sets the fixed inter-attempt delay. Default is 2s.
func WithRetryDelay(delay time.Duration) ManagerOption {
	return func(m *Manager) {
		if delay >= 0 {
			m.retryDelay = delay
		}
	}
}

// WithManagerLogger sets a custom logger. Default is slog.Default().
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a connection manager for the registered stores.
// Stores without a registered dialer are simply unknown to the manager.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		handles:     make(map[StoreName]*handle),
		maxAttempts: defaultMaxAttempts,
		retryDelay:  defaultRetryDelay,
		logger:      slog.Default().With("component", "store-manager"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) register(name StoreName, dial func(ctx context.Context) (Store, error)) {
	m.handles[name] = &handle{name: name, dial: dial}
}

// Connect dials one store with up to the configured number of
// attempts, each followed by a live probe. On exhaustion the store
// transitions to failed and a ConnectError is returned.
func (m *Manager) Connect(ctx context.Context, name StoreName) error {
	h, ok := m.handles[name]
	if !ok {
		return ErrUnknownStore
	}

	h.mu.Lock()
	switch h.state {
	case StateConnected:
		h.mu.Unlock()
		return nil
	case StateConnecting:
		h.mu.Unlock()
		return ErrAlreadyConnecting
	}
	h.state = StateConnecting
	h.mu.Unlock()

	var store Store
	err := retryFixed(ctx, func() error {
		s, dialErr := h.dial(ctx)
		if dialErr != nil {
			return dialErr
		}
		// A dialed socket is not a usable store; probe it.
		if pingErr := s.Ping(ctx); pingErr != nil {
			s.Close()
			return pingErr
		}
		store = s
		return nil
	}, m.maxAttempts, m.retryDelay)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		h.state = StateFailed
		m.logger.Error("store connection failed", "store", name, "attempts", m.maxAttempts, "err", err)
		return &ConnectError{Store: name, Attempts: m.maxAttempts, Err: err}
	}

	h.store = store
	h.state = StateConnected
	m.logger.Info("store connected", "store", name)
	return nil
}

// ConnectAll attempts every registered store independently. A store's
// retry exhaustion is downgraded to a warning; the store stays failed
// and unavailable while the rest connect. ConnectAll itself never
// fails.
func (m *Manager) ConnectAll(ctx context.Context) {
	for _, name := range storeNames {
		if _, ok := m.handles[name]; !ok {
			continue
		}
		if err := m.Connect(ctx, name); err != nil {
			m.logger.Warn("continuing without store", "store", name, "err", err)
		}
	}
}

// Close disconnects one store. Idempotent and best-effort: closing a
// disconnected store is a no-op and close errors are only logged.
func (m *Manager) Close(name StoreName) {
	h, ok := m.handles[name]
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.store != nil {
		if err := h.store.Close(); err != nil {
			m.logger.Warn("error closing store", "store", name, "err", err)
		}
		h.store = nil
	}
	h.state = StateDisconnected
}

// CloseAll disconnects every store. Never fails.
func (m *Manager) CloseAll() {
	for _, name := range storeNames {
		m.Close(name)
	}
	m.logger.Info("store connections closed")
}

// State returns the connection state of one store.
func (m *Manager) State(name StoreName) State {
	h, ok := m.handles[name]
	if !ok {
		return StateDisconnected
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Available reports whether a store is connected and usable.
func (m *Manager) Available(name StoreName) bool {
	return m.State(name) == StateConnected
}

func (m *Manager) connected(name StoreName) (Store, error) {
	h, ok := m.handles[name]
	if !ok {
		return nil, ErrUnknownStore
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != StateConnected || h.store == nil {
		return nil, ErrStoreUnavailable
	}
	return h.store, nil
}

// Structured returns the structured store capability, or
// ErrStoreUnavailable when it never connected.
func (m *Manager) Structured() (StructuredStore, error) {
	s, err := m.connected(StoreStructured)
	if err != nil {
		return nil, err
	}
	return s.(StructuredStore), nil
}

// Vector returns the vector store capability, or ErrStoreUnavailable.
func (m *Manager) Vector() (VectorStore, error) {
	s, err := m.connected(StoreVector)
	if err != nil {
		return nil, err
	}
	return s.(VectorStore), nil
}

// Graph returns the graph store capability, or ErrStoreUnavailable.
func (m *Manager) Graph() (GraphStore, error) {
	s, err := m.connected(StoreGraph)
	if err != nil {
		return nil, err
	}
	return s.(GraphStore), nil
}

// Cache returns the cache capability, or ErrStoreUnavailable.
func (m *Manager) Cache() (Cache, error) {
	s, err := m.connected(StoreCache)
	if err != nil {
		return nil, err
	}
	return s.(Cache), nil
}
