package auth

import (
	"context"
	"sync"

	"golang.org/x/oauth2"
)

// Handle is the signed-in identity of a client process. It becomes ready
// exactly once, when credentials are first set; dependents wait on Ready
// instead of polling.
type Handle struct {
	once  sync.Once
	ready chan struct{}

	mu    sync.RWMutex
	user  User
	token oauth2.TokenSource
}

func NewHandle() *Handle {
	return &Handle{ready: make(chan struct{})}
}

// Set records the identity and marks the handle ready. Later calls update
// the credentials without signalling again.
func (h *Handle) Set(u User, ts oauth2.TokenSource) {
	h.mu.Lock()
	h.user = u
	h.token = ts
	h.mu.Unlock()
	h.once.Do(func() { close(h.ready) })
}

// Ready is closed once the handle has credentials.
func (h *Handle) Ready() <-chan struct{} { return h.ready }

// Wait blocks until the handle is ready or ctx is done.
func (h *Handle) Wait(ctx context.Context) (User, oauth2.TokenSource, error) {
	select {
	case <-h.ready:
	case <-ctx.Done():
		return User{}, nil, ctx.Err()
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.user, h.token, nil
}
