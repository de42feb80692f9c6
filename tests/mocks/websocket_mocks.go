package mocks

import (
	"sync"

	"github.com/welldanyogia/mailstore/internal/models"
	"github.com/welldanyogia/mailstore/internal/websocket"
)

// NotificationRecord records a change event sent through the mock hub
type NotificationRecord struct {
	Type websocket.EventType
	Mail *models.Mail
	ID   int64
}

// MockNotifier records mail change events instead of broadcasting them
type MockNotifier struct {
	mu            sync.Mutex
	Notifications []NotificationRecord
}

// NewMockNotifier creates a new MockNotifier instance
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{
		Notifications: make([]NotificationRecord, 0),
	}
}

// MailCreated records a create event
func (m *MockNotifier) MailCreated(mail *models.Mail) {
	m.record(NotificationRecord{Type: websocket.EventMailCreated, Mail: mail, ID: mail.ID})
}

// MailUpdated records an update event
func (m *MockNotifier) MailUpdated(mail *models.Mail) {
	m.record(NotificationRecord{Type: websocket.EventMailUpdated, Mail: mail, ID: mail.ID})
}

// MailDeleted records a delete event
func (m *MockNotifier) MailDeleted(id int64) {
	m.record(NotificationRecord{Type: websocket.EventMailDeleted, ID: id})
}

func (m *MockNotifier) record(n NotificationRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notifications = append(m.Notifications, n)
}

// GetNotifications returns all recorded notifications
func (m *MockNotifier) GetNotifications() []NotificationRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]NotificationRecord, len(m.Notifications))
	copy(out, m.Notifications)
	return out
}

// ClearNotifications clears all recorded notifications
func (m *MockNotifier) ClearNotifications() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notifications = make([]NotificationRecord, 0)
}
