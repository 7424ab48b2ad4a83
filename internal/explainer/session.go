package explainer

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"scholarcheck/internal/report"
)

const (
	DefaultSessionTTL  = 30 * time.Minute
	DefaultMaxSessions = 1000
	DefaultMaxHistory  = 50
)

// Limits bounds the memory held by Sessions. Zero fields take the defaults.
type Limits struct {
	TTL         time.Duration // idle time before a session is evicted
	MaxSessions int           // least recently used session goes first
	MaxHistory  int           // oldest turns are trimmed past this
}

func (l Limits) withDefaults() Limits {
	if l.TTL <= 0 {
		l.TTL = DefaultSessionTTL
	}
	if l.MaxSessions <= 0 {
		l.MaxSessions = DefaultMaxSessions
	}
	if l.MaxHistory <= 0 {
		l.MaxHistory = DefaultMaxHistory
	}
	return l
}

type session struct {
	mu  sync.Mutex
	ctx Context

	lastUsed time.Time // guarded by Sessions.mu
}

// Sessions keeps one isolated Context per session id.
type Sessions struct {
	engine *Engine
	limits Limits
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func NewSessions(engine *Engine) *Sessions {
	return NewSessionsWithLimits(engine, Limits{})
}

func NewSessionsWithLimits(engine *Engine, limits Limits) *Sessions {
	if engine == nil {
		engine = NewEngine()
	}
	return &Sessions{
		engine:   engine,
		limits:   limits.withDefaults(),
		now:      time.Now,
		sessions: map[string]*session{},
	}
}

func (s *Sessions) get(id string) (string, *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if id == "" {
		id = uuid.NewString()
	}
	sess, ok := s.sessions[id]
	if ok && now.Sub(sess.lastUsed) > s.limits.TTL {
		delete(s.sessions, id)
		ok = false
	}
	if !ok {
		s.evictLocked(now)
		sess = &session{}
		s.sessions[id] = sess
	}
	sess.lastUsed = now
	return id, sess
}

// evictLocked drops idle sessions, then the least recently used ones until
// there is room for one more.
func (s *Sessions) evictLocked(now time.Time) {
	for id, sess := range s.sessions {
		if now.Sub(sess.lastUsed) > s.limits.TTL {
			delete(s.sessions, id)
		}
	}
	for len(s.sessions) >= s.limits.MaxSessions {
		var oldestID string
		var oldest time.Time
		for id, sess := range s.sessions {
			if oldestID == "" || sess.lastUsed.Before(oldest) {
				oldestID, oldest = id, sess.lastUsed
			}
		}
		delete(s.sessions, oldestID)
	}
}

// Evict removes sessions idle longer than the TTL and reports how many went.
func (s *Sessions) Evict() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.sessions)
	now := s.now()
	for id, sess := range s.sessions {
		if now.Sub(sess.lastUsed) > s.limits.TTL {
			delete(s.sessions, id)
		}
	}
	return before - len(s.sessions)
}

// Chat answers message in session id, creating the session (and an id when
// id is empty). A non-nil analysis replaces the session's last analysis first.
func (s *Sessions) Chat(id, message string, analysis *report.AnalysisReport) (string, Response) {
	id, sess := s.get(id)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if analysis != nil {
		sess.ctx.LastAnalysis = analysis
	}
	resp := s.engine.Respond(&sess.ctx, message)
	if n := len(sess.ctx.History) - s.limits.MaxHistory; n > 0 {
		sess.ctx.History = append([]Turn(nil), sess.ctx.History[n:]...)
	}
	return id, resp
}

// Attach sets the analysis a session's questions refer to.
func (s *Sessions) Attach(id string, analysis *report.AnalysisReport) string {
	id, sess := s.get(id)
	sess.mu.Lock()
	sess.ctx.LastAnalysis = analysis
	sess.mu.Unlock()
	return id
}

// History returns a copy of the session's turns.
func (s *Sessions) History(id string) []Turn {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	out := make([]Turn, len(sess.ctx.History))
	copy(out, sess.ctx.History)
	return out
}

func (s *Sessions) Drop(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
