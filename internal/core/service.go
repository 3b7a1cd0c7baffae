package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/JonMunkholm/xlselect/internal/logging"
	"github.com/google/uuid"
)

// Service defaults.
const (
	DefaultSessionTTL  = 30 * time.Minute
	DefaultMaxSessions = 1000
	DefaultMaxFileSize = 100 << 20
)

// ServiceConfig configures a Service. Zero fields take defaults.
type ServiceConfig struct {
	Options              Options
	SessionTTL           time.Duration
	MaxSessions          int
	MaxFileSize          int64
	MaxConcurrentIngests int
	MaxIngestWait        time.Duration
}

func (c ServiceConfig) withDefaults() ServiceConfig {
	c.Options = c.Options.withDefaults()
	if c.SessionTTL <= 0 {
		c.SessionTTL = DefaultSessionTTL
	}
	if c.MaxSessions <= 0 {
		c.MaxSessions = DefaultMaxSessions
	}
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = DefaultMaxFileSize
	}
	return c
}

// Service holds one Engine per session for callers that cannot keep an
// Engine themselves, such as HTTP clients. Calls on one session are
// serialized; different sessions run in parallel.
type Service struct {
	cfg     ServiceConfig
	limiter *IngestLimiter
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
}

type session struct {
	id      string
	created time.Time
	seen    atomic.Int64 // unix nanos

	mu     sync.Mutex
	engine *Engine
}

func (s *session) touch(t time.Time) {
	s.seen.Store(t.UnixNano())
}

func (s *session) lastSeen() time.Time {
	return time.Unix(0, s.seen.Load())
}

// SessionInfo describes a session without exposing its engine.
type SessionInfo struct {
	ID        string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
	LastSeen  time.Time `json:"last_seen"`
}

// NewService creates a Service with no sessions.
func NewService(cfg ServiceConfig) *Service {
	cfg = cfg.withDefaults()
	return &Service{
		cfg:      cfg,
		limiter:  NewIngestLimiter(cfg.MaxConcurrentIngests, cfg.MaxIngestWait),
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Config returns the effective configuration.
func (s *Service) Config() ServiceConfig {
	return s.cfg
}

// CreateSession starts a session with an empty engine and returns its id.
func (s *Service) CreateSession(ctx context.Context) (string, error) {
	now := s.now()
	sess := &session{
		id:      uuid.New().String(),
		created: now,
		engine:  NewEngine(s.cfg.Options),
	}
	sess.touch(now)

	s.mu.Lock()
	if len(s.sessions) >= s.cfg.MaxSessions {
		s.mu.Unlock()
		return "", newError("create session", ErrTooManySessions, fmt.Errorf("limit %d", s.cfg.MaxSessions))
	}
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	logging.WithFields(ctx, append([]any{"session_id", sess.id}, clientAttrs(ctx)...)...).Info("session created")
	return sess.id, nil
}

// Session returns information about session id.
func (s *Service) Session(id string) (SessionInfo, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return SessionInfo{}, err
	}
	return SessionInfo{ID: sess.id, CreatedAt: sess.created, LastSeen: sess.lastSeen()}, nil
}

// DeleteSession removes session id and its document.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return newError("delete session", ErrSessionNotFound, fmt.Errorf("%q", id))
	}
	logging.WithFields(ctx, "session_id", id).Info("session deleted")
	return nil
}

// SessionCount returns the number of live sessions.
func (s *Service) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Service) lookup(id string) (*session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, newError("session", ErrSessionNotFound, fmt.Errorf("%q", id))
	}
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, newError("session", ErrSessionNotFound, fmt.Errorf("%q", id))
	}
	return sess, nil
}

// Do runs fn with the engine of session id while holding the session lock
// and marks the session as used.
func (s *Service) Do(ctx context.Context, id string, fn func(*Engine) error) error {
	sess, err := s.lookup(id)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.touch(s.now())
	return fn(sess.engine)
}

// Ingest reads r into session id's engine. It waits for an ingest slot
// first and fails with ErrTooManyIngests if none frees up in time.
func (s *Service) Ingest(ctx context.Context, id, fileName string, r io.Reader) (*Document, error) {
	if _, err := s.lookup(id); err != nil {
		return nil, err
	}
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	logger := logging.WithFields(ctx, "session_id", id, "file_name", fileName)
	start := s.now()

	var doc *Document
	err := s.Do(ctx, id, func(e *Engine) error {
		var err error
		doc, err = e.IngestReader(r, fileName, s.cfg.MaxFileSize)
		return err
	})
	if err != nil {
		logger.Warn("ingest failed", "error", err)
		return nil, err
	}

	logger.Info("document ingested",
		"sheet", doc.SheetName,
		"rows", doc.Len(),
		"headers", len(doc.Headers),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return doc, nil
}

// Export serializes the selected rows of session id.
func (s *Service) Export(ctx context.Context, id string) (*Artifact, error) {
	var art *Artifact
	err := s.Do(ctx, id, func(e *Engine) error {
		var err error
		art, err = e.Export()
		return err
	})
	if err != nil {
		return nil, err
	}
	logging.WithFields(ctx, "session_id", id).Info("export produced",
		"rows", art.Rows,
		"bytes", len(art.Data),
	)
	return art, nil
}

// Reset drops the document of session id but keeps the session.
func (s *Service) Reset(ctx context.Context, id string) error {
	err := s.Do(ctx, id, func(e *Engine) error {
		e.Reset()
		return nil
	})
	if err != nil {
		return err
	}
	logging.WithFields(ctx, "session_id", id).Info("document reset")
	return nil
}

// LimiterStatus reports ingest slot usage.
func (s *Service) LimiterStatus() LimiterStatus {
	return s.limiter.Status()
}

// WaitForIngests blocks until in-flight ingests finish or ctx is done.
func (s *Service) WaitForIngests(ctx context.Context) error {
	if err := s.limiter.WaitForDrain(ctx); err != nil {
		slog.Warn("ingests still running at shutdown", "active", s.limiter.Active())
		return err
	}
	return nil
}
