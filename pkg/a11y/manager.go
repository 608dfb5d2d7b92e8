// Package a11y collects screen-reader announcements for one running
// application. A single Manager is built at the application root and
// injected wherever layout or panel changes should be announced.
package a11y

import (
	"sync"
	"time"

	"github.com/vantagedata/dashlayout/pkg/events"
)

// Politeness maps to the ARIA live region the announcement targets.
type Politeness string

const (
	Polite    Politeness = "polite"
	Assertive Politeness = "assertive"
)

// DefaultHistory is the number of announcements kept when none is given.
const DefaultHistory = 50

// Announcement is one message for assistive technology.
type Announcement struct {
	Message    string     `json:"message"`
	Politeness Politeness `json:"politeness"`
	At         time.Time  `json:"at"`
}

// Announcer is what layout code needs from a Manager.
type Announcer interface {
	Announce(msg string, p Politeness)
}

// Manager keeps a bounded history of announcements and republishes each
// one on the bus under [events.TopicAnnouncement].
type Manager struct {
	mu      sync.Mutex
	bus     *events.Bus
	limit   int
	history []Announcement
	now     func() time.Time
}

// NewManager creates a manager. bus may be nil; limit <= 0 uses
// DefaultHistory.
func NewManager(bus *events.Bus, limit int) *Manager {
	if limit <= 0 {
		limit = DefaultHistory
	}
	return &Manager{bus: bus, limit: limit, now: time.Now}
}

// Announce records msg and publishes it. Empty messages are dropped.
func (m *Manager) Announce(msg string, p Politeness) {
	if msg == "" {
		return
	}
	if p != Assertive {
		p = Polite
	}
	a := Announcement{Message: msg, Politeness: p, At: m.now()}

	m.mu.Lock()
	m.history = append(m.history, a)
	if over := len(m.history) - m.limit; over > 0 {
		m.history = append(m.history[:0:0], m.history[over:]...)
	}
	m.mu.Unlock()

	m.bus.Publish(events.TopicAnnouncement, a)
}

// History returns the retained announcements, oldest first.
func (m *Manager) History() []Announcement {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Announcement, len(m.history))
	copy(out, m.history)
	return out
}

// Last returns the most recent announcement.
func (m *Manager) Last() (Announcement, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.history) == 0 {
		return Announcement{}, false
	}
	return m.history[len(m.history)-1], true
}

// Nop discards announcements.
type Nop struct{}

func (Nop) Announce(string, Politeness) {}

var (
	_ Announcer = (*Manager)(nil)
	_ Announcer = Nop{}
)
