package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/cv-uploader/internal/form"
)

const (
	sessionField       = "session"
	sessionHeader      = "X-Form-Session"
	defaultSessionTTL  = 30 * time.Minute
	defaultMaxSessions = 10000
)

type session struct {
	ctrl     *form.Controller
	lastSeen time.Time
}

// sessions maps a form session id to the controller serving it, so that a
// double-posted submit from one form meets the in-flight guard. Every rendered
// form carries an id, but an entry only exists once a submit arrives under it.
type sessions struct {
	mu      sync.Mutex
	entries map[string]*session
	ttl     time.Duration
	max     int
	now     func() time.Time
	create  func() *form.Controller
}

func newSessions(ttl time.Duration, max int, create func() *form.Controller) *sessions {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	if max <= 0 {
		max = defaultMaxSessions
	}
	return &sessions{
		entries: make(map[string]*session),
		ttl:     ttl,
		max:     max,
		now:     time.Now,
		create:  create,
	}
}

func newSessionID() string {
	return uuid.NewString()
}

// sessionID returns id in canonical form, or a fresh id when id is not a UUID.
func sessionID(id string) string {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return newSessionID()
	}
	return parsed.String()
}

// acquire returns the controller for id, creating the session when it is
// unknown or expired. The least recently used session is evicted when the
// registry is full.
func (s *sessions) acquire(id string) *form.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	if entry, ok := s.entries[id]; ok {
		entry.lastSeen = now
		return entry.ctrl
	}

	if len(s.entries) >= s.max {
		s.evictOldestLocked()
	}
	entry := &session{ctrl: s.create(), lastSeen: now}
	s.entries[id] = entry
	return entry.ctrl
}

func (s *sessions) sweepLocked(now time.Time) {
	cutoff := now.Add(-s.ttl)
	for id, entry := range s.entries {
		if entry.lastSeen.Before(cutoff) {
			delete(s.entries, id)
		}
	}
}

func (s *sessions) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, entry := range s.entries {
		if oldestID == "" || entry.lastSeen.Before(oldest) {
			oldestID, oldest = id, entry.lastSeen
		}
	}
	delete(s.entries, oldestID)
}

func (s *sessions) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
