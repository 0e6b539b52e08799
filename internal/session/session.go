// Package session holds per-visitor state between requests: the current logo,
// the last request and the last generated image.
package session

import (
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cristianadrielbraun/qrstudio/internal/render"
)

// CookieName carries the session id.
const CookieName = "qrstudio_session"

// Session is one visitor's working state. It is safe for concurrent use.
type Session struct {
	ID string

	mu          sync.Mutex
	logo        image.Image
	logoPreview string
	lastText    string
	lastOpts    render.Options
	hasLast     bool
	current     []byte
	lastSeen    time.Time
}

// New returns a detached session with the given id. The id doubles as the
// history scope, so a fixed id (as the CLI uses) shares history across runs.
func New(id string) *Session {
	return &Session{ID: id, lastSeen: time.Now()}
}

// Logo returns the logo to overlay, or nil.
func (s *Session) Logo() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logo
}

// LogoPreview returns the data URL shown next to the logo picker.
func (s *Session) LogoPreview() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logoPreview
}

// SetLogo replaces the logo and its preview.
func (s *Session) SetLogo(img image.Image, preview string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logo = img
	s.logoPreview = preview
}

// ClearLogo drops the logo.
func (s *Session) ClearLogo() {
	s.SetLogo(nil, "")
}

// Remember stores a successful generation as the one to download and the one
// to redo when the logo changes.
func (s *Session) Remember(text string, opts render.Options, png []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastText = text
	s.lastOpts = opts
	s.hasLast = true
	s.current = png
}

// Last returns the most recent successful request.
func (s *Session) Last() (string, render.Options, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastText, s.lastOpts, s.hasLast
}

// Current returns the PNG offered for download.
func (s *Session) Current() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.current != nil
}

// ClearCurrent withdraws the downloadable image, as after a failed validation.
func (s *Session) ClearCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// Manager tracks live sessions and drops those idle for longer than the TTL.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	log      *slog.Logger
	now      func() time.Time
}

// NewManager returns a Manager. A non-positive ttl keeps sessions forever.
func NewManager(ttl time.Duration, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		log:      log,
		now:      time.Now,
	}
}

// Get returns the live session with id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.evictLocked(now)
	s, ok := m.sessions[id]
	if ok {
		s.touch(now)
	}
	return s, ok
}

// GetOrCreate returns the session with id. An expired or unknown id that is
// still a well-formed session id is revived under the same id, so history in
// a persistent store stays reachable across restarts; anything else gets a
// fresh id. created reports that a new Session was made.
func (m *Manager) GetOrCreate(id string) (s *Session, created bool) {
	if id != "" {
		if s, ok := m.Get(id); ok {
			return s, false
		}
	}
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s, false
	}
	s = New(id)
	s.lastSeen = m.now()
	m.sessions[s.ID] = s
	m.log.Debug("session created", "session", s.ID)
	return s, true
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictLocked(m.now())
	return len(m.sessions)
}

func (m *Manager) evictLocked(now time.Time) {
	if m.ttl <= 0 {
		return
	}
	for id, s := range m.sessions {
		if s.idleSince(now) > m.ttl {
			delete(m.sessions, id)
			m.log.Debug("session expired", "session", id)
		}
	}
}
