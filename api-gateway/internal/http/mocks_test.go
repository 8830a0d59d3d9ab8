package http

import (
	"context"
	"sync"

	"github.com/blunfr84/Webly/api-gateway/internal/domain"
	"github.com/blunfr84/Webly/api-gateway/internal/mail"
	"github.com/blunfr84/Webly/api-gateway/internal/payment"
)

type MockNotifier struct {
	mu   sync.RWMutex
	Sent []domain.Message
}

func (m *MockNotifier) NotifyAsync(msg domain.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, msg)
}

func (m *MockNotifier) Messages() []domain.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.Message(nil), m.Sent...)
}

type MockInvoices struct {
	mu   sync.RWMutex
	Sent []mail.Invoice
	Err  error
}

func (m *MockInvoices) SendInvoice(_ context.Context, inv mail.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, inv)
	return nil
}

func (m *MockInvoices) Invoices() []mail.Invoice {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]mail.Invoice(nil), m.Sent...)
}

type MockGateway struct {
	mu       sync.RWMutex
	Requests []payment.CheckoutRequest
	Session  *payment.Session
	Err      error
}

func (m *MockGateway) CreateCheckoutSession(_ context.Context, req payment.CheckoutRequest) (*payment.Session, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Session, nil
}

func (m *MockGateway) GetSession(_ context.Context, id string) (*payment.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	s := *m.Session
	s.ID = id
	return &s, nil
}

func (m *MockGateway) Calls() []payment.CheckoutRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]payment.CheckoutRequest(nil), m.Requests...)
}
