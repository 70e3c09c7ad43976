package mocks

import (
	"sync"

	"github.com/ozgurarslan/seminar-booking-system/internal/domain"
)

// MockNotifier records dispatched notifications for assertions.
type MockNotifier struct {
	mu         sync.Mutex
	dispatched []domain.Notification
}

func (m *MockNotifier) Dispatch(n domain.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dispatched = append(m.dispatched, n)
}

func (m *MockNotifier) Dispatched() []domain.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Notification, len(m.dispatched))
	copy(out, m.dispatched)
	return out
}
