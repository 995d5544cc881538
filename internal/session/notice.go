package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Notice levels.
const (
	LevelSuccess = "success"
	LevelError   = "error"
)

// Notice is a user-visible message, rendered by the page as a toast.
type Notice struct {
	Level   string    `json:"level"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier receives every user-visible success or failure.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// defaultMailboxSize bounds a mailbox nobody drains.
const defaultMailboxSize = 50

// Mailbox queues notices until the page drains them.
// When full, the oldest notice is dropped.
type Mailbox struct {
	mu      sync.Mutex
	notices []Notice
	limit   int
}

// NewMailbox creates a mailbox holding at most limit notices (default 50).
func NewMailbox(limit int) *Mailbox {
	if limit <= 0 {
		limit = defaultMailboxSize
	}
	return &Mailbox{limit: limit}
}

// Notify implements Notifier.
func (m *Mailbox) Notify(_ context.Context, n Notice) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.notices) >= m.limit {
		m.notices = m.notices[1:]
	}
	m.notices = append(m.notices, n)
}

// Drain returns the queued notices oldest first and empties the mailbox.
func (m *Mailbox) Drain() []Notice {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.notices
	m.notices = nil
	if out == nil {
		out = []Notice{}
	}
	return out
}

// Len returns the number of queued notices.
func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.notices)
}

// LogNotifier writes notices to a logger.
type LogNotifier struct {
	Logger *slog.Logger
}

// Notify implements Notifier.
func (l LogNotifier) Notify(ctx context.Context, n Notice) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	level := slog.LevelInfo
	if n.Level == LevelError {
		level = slog.LevelWarn
	}
	logger.Log(ctx, level, "notice", "level", n.Level, "title", n.Title, "message", n.Message)
}

// Notifiers fans a notice out to several notifiers.
type Notifiers []Notifier

// Notify implements Notifier.
func (ns Notifiers) Notify(ctx context.Context, n Notice) {
	for _, notifier := range ns {
		notifier.Notify(ctx, n)
	}
}
