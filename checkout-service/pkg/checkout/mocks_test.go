package checkout

import (
	"context"
	"sync"

	"github.com/blunfr84/Webly/cart-service/pkg/cart"
	d "github.com/blunfr84/Webly/checkout-service/domain"
	"github.com/blunfr84/Webly/checkout-service/pkg/sink"
)

// MockCart implements Cart for testing
type MockCart struct {
	mu      sync.RWMutex
	items    []cart.CartItem
	cleared  int
	clearErr error
}

func (m *MockCart) Items() []cart.CartItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]cart.CartItem, len(m.items))
	copy(out, m.items)
	return out
}

func (m *MockCart) IsEmpty() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items) == 0
}

func (m *MockCart) Clear(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
	m.cleared++
	m.clearErr = ctx.Err()
}

// ClearErr is the context error seen by the last Clear.
func (m *MockCart) ClearErr() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.clearErr
}

func (m *MockCart) Cleared() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cleared
}

// MockSink implements Sink for testing
type MockSink struct {
	mu sync.RWMutex

	Messages    []sink.MessageRequest
	MessageErr  error
	Sessions    []sink.CheckoutSessionRequest
	Keys        []string
	SessionResp *sink.CheckoutSessionResponse
	SessionErr  error

	// Block, when set, holds every call until it is closed.
	Block chan struct{}
	// Accepted runs after a message is recorded.
	Accepted func()
}

func (m *MockSink) PostMessage(ctx context.Context, req sink.MessageRequest) (*sink.MessageRecord, error) {
	m.wait()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, req)
	if m.MessageErr != nil {
		return nil, m.MessageErr
	}
	if m.Accepted != nil {
		m.Accepted()
	}
	return &sink.MessageRecord{ID: int64(len(m.Messages)), Status: "pending"}, nil
}

func (m *MockSink) CreateCheckoutSession(ctx context.Context, req sink.CheckoutSessionRequest, key string) (*sink.CheckoutSessionResponse, error) {
	m.wait()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sessions = append(m.Sessions, req)
	m.Keys = append(m.Keys, key)
	if m.SessionErr != nil {
		return nil, m.SessionErr
	}
	return m.SessionResp, nil
}

func (m *MockSink) Calls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Messages) + len(m.Sessions)
}

func (m *MockSink) wait() {
	if m.Block != nil {
		<-m.Block
	}
}

// MockRedirector implements Redirector for testing
type MockRedirector struct {
	mu       sync.Mutex
	Sessions []d.HostedSession
	Err      error
}

func (m *MockRedirector) Redirect(_ context.Context, session d.HostedSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sessions = append(m.Sessions, session)
	return m.Err
}
