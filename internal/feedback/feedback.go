// Package feedback records user verdicts on analyses without blocking the caller.
package feedback

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"scholarcheck/internal/db"
	"scholarcheck/internal/validate"
)

var (
	ErrInvalid = errors.New("invalid feedback")
	ErrClosed  = errors.New("feedback sink closed")
)

// Received is the acknowledgement returned to the user.
const Received = "Thank you for your feedback! This helps us improve."

type Feedback struct {
	Filename   string `json:"filename" validate:"required,max=512"`
	IsAccurate bool   `json:"is_accurate"`
	Comments   string `json:"comments,omitempty" validate:"max=4000"`
}

func (f Feedback) Validate() error {
	f.Filename = strings.TrimSpace(f.Filename)
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

type Sink interface {
	Submit(f Feedback) error
}

const queueSize = 64

// AsyncSink validates feedback and writes it to the database on a background worker.
type AsyncSink struct {
	dbPath string
	log    zerolog.Logger
	now    func() time.Time

	mu      sync.Mutex
	closed  bool
	queue   chan db.FeedbackRecord
	done    chan struct{}
	dropped atomic.Int64
}

func NewAsyncSink(dbPath string, log zerolog.Logger) *AsyncSink {
	s := newAsyncSink(dbPath, log, queueSize)
	go s.run()
	return s
}

func newAsyncSink(dbPath string, log zerolog.Logger, size int) *AsyncSink {
	return &AsyncSink{
		dbPath: dbPath,
		log:    log.With().Str("component", "feedback").Logger(),
		now:    time.Now,
		queue:  make(chan db.FeedbackRecord, size),
		done:   make(chan struct{}),
	}
}

// Dropped is the number of records discarded because the queue was full.
func (s *AsyncSink) Dropped() int64 { return s.dropped.Load() }

// Submit queues f without blocking; when the queue is full the record is
// dropped and logged. It returns ErrInvalid for bad input and ErrClosed after Close.
func (s *AsyncSink) Submit(f Feedback) error {
	if err := f.Validate(); err != nil {
		return err
	}
	rec := db.FeedbackRecord{
		Filename:   strings.TrimSpace(f.Filename),
		IsAccurate: f.IsAccurate,
		Comments:   f.Comments,
		CreatedAt:  s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	select {
	case s.queue <- rec:
	default:
		s.dropped.Add(1)
		s.log.Warn().Str("filename", rec.Filename).Int("queue", cap(s.queue)).Msg("feedback queue full, dropping record")
	}
	return nil
}

// Close stops accepting feedback and waits until the queue is written.
func (s *AsyncSink) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()
	<-s.done
}

func (s *AsyncSink) run() {
	defer close(s.done)
	for rec := range s.queue {
		batch := []db.FeedbackRecord{rec}
	drain:
		for {
			select {
			case more, ok := <-s.queue:
				if !ok {
					break drain
				}
				batch = append(batch, more)
			default:
				break drain
			}
		}
		if err := db.PersistFeedback(s.dbPath, batch); err != nil {
			s.log.Error().Err(err).Int("records", len(batch)).Msg("persist feedback")
			continue
		}
		s.log.Debug().Int("records", len(batch)).Msg("feedback stored")
	}
}
