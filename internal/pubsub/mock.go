package pubsub

import (
	"sync"
)

// MockPubSubClient records published match and flag events instead of
// talking to GCP. It is safe for concurrent use.
type MockPubSubClient struct {
	mu sync.Mutex

	SendMessageFunc    func(topic EventType, data any) error
	ProcessMessageFunc func(data []byte, returnValue any) error

	SendMessageCalls []SendMessageCall
}

// SendMessageCall holds one published event. Data is the payload as passed
// in, typically a MatchEvent or FlagEvent.
type SendMessageCall struct {
	Topic EventType
	Data  any
}

// NewMock creates a mock PubSubClient. The projectID is ignored.
func NewMock(projectID string) *MockPubSubClient {
	return &MockPubSubClient{}
}

// Reset clears all recorded events.
func (m *MockPubSubClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMessageCalls = nil
}

// Published returns the payloads recorded for one topic, in publish order.
func (m *MockPubSubClient) Published(topic EventType) []any {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []any
	for _, call := range m.SendMessageCalls {
		if call.Topic == topic {
			out = append(out, call.Data)
		}
	}
	return out
}

func (m *MockPubSubClient) SendMessage(topic EventType, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMessageCalls = append(m.SendMessageCalls, SendMessageCall{Topic: topic, Data: data})
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(topic, data)
	}
	return nil
}

func (m *MockPubSubClient) ProcessMessage(data []byte, returnValue any) error {
	if m.ProcessMessageFunc != nil {
		return m.ProcessMessageFunc(data, returnValue)
	}
	return nil
}
