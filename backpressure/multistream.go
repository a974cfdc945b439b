package backpressure

import (
	"sync"

	"github.com/google/uuid"
)

// MultiStreamCreditManager keys a CreditController per stream ID,
// letting a single host (e.g. a multiplexed WebSocket connection)
// admission-control many independent streams with one registry.
type MultiStreamCreditManager struct {
	mu      sync.Mutex
	streams map[string]*CreditController
	initial int64
	max     int64
}

// NewMultiStreamCreditManager returns a manager whose streams are all
// registered with the same initial/max credit bounds.
func NewMultiStreamCreditManager(initial, max int64) *MultiStreamCreditManager {
	return &MultiStreamCreditManager{
		streams: make(map[string]*CreditController),
		initial: initial,
		max:     max,
	}
}

// Register creates a controller for streamID, generating one via uuid
// when streamID is empty, and returns the assigned ID.
func (m *MultiStreamCreditManager) Register(streamID string) string {
	if streamID == "" {
		streamID = uuid.NewString()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streams[streamID] = NewCreditController(m.initial, m.max)
	return streamID
}

// Unregister drops streamID's controller entirely.
func (m *MultiStreamCreditManager) Unregister(streamID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.streams, streamID)
}

func (m *MultiStreamCreditManager) controller(streamID string) *CreditController {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.streams[streamID]
}

// Consume delegates to streamID's controller; an unregistered stream
// always fails to consume.
func (m *MultiStreamCreditManager) Consume(streamID string, n int64) bool {
	c := m.controller(streamID)
	if c == nil {
		return false
	}
	return c.TryConsume(n)
}

// Grant delegates to streamID's controller; a no-op for an unregistered
// stream.
func (m *MultiStreamCreditManager) Grant(streamID string, n int64) {
	if c := m.controller(streamID); c != nil {
		c.Grant(n)
	}
}

// TotalAvailable sums available credits across every registered stream.
func (m *MultiStreamCreditManager) TotalAvailable() int64 {
	m.mu.Lock()
	controllers := make([]*CreditController, 0, len(m.streams))
	for _, c := range m.streams {
		controllers = append(controllers, c)
	}
	m.mu.Unlock()

	var total int64
	for _, c := range controllers {
		total += c.Available()
	}
	return total
}

// ActiveStreams returns the set of currently registered stream IDs.
func (m *MultiStreamCreditManager) ActiveStreams() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.streams))
	for id := range m.streams {
		ids = append(ids, id)
	}
	return ids
}
