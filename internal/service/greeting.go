package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"hellosrv/internal/model"
	"hellosrv/internal/repository"
	"hellosrv/internal/storage"
)

// MaxBodyBytes bounds the size of a greeting body.
const MaxBodyBytes = 64 << 10

var (
	ErrBusy         = errors.New("too many pending responses")
	ErrCancelled    = errors.New("response cancelled before delay elapsed")
	ErrBodyRequired = errors.New("greeting body is required")
	ErrBodyTooLarge = errors.New("greeting body too large")
)

var tracer = otel.Tracer("hellosrv/internal/service")

// Reply is a fully formed greeting response.
type Reply struct {
	Status      int
	ContentType string
	Body        string
	Delay       time.Duration
}

// RequestMeta identifies the request a reply is produced for. It is only
// used for the journal.
type RequestMeta struct {
	RequestID string
	Method    string
	Path      string
}

// Greeting is the current greeting configuration as exposed over HTTP.
type Greeting struct {
	Body        string `json:"body"`
	ContentType string `json:"content_type"`
	DelayMs     int64  `json:"delay_ms"`
}

// GreetingOptions configures a GreetingService.
type GreetingOptions struct {
	Body        string
	ContentType string
	Delay       time.Duration
	// MaxPending bounds concurrently waiting responses; 0 means unbounded.
	MaxPending int
	// ObjectKey is where the body is persisted when a Storage is configured.
	ObjectKey string
}

// GreetingService produces deferred greeting replies.
type GreetingService interface {
	// Respond waits for the configured delay and returns the greeting.
	// It returns ErrBusy when no pending slot is free and ErrCancelled when
	// ctx ends before the delay elapsed.
	Respond(ctx context.Context, meta RequestMeta) (*Reply, error)

	// Pending returns the number of replies currently waiting.
	Pending() int64

	// Current returns the greeting that would be served now.
	Current() Greeting

	// LoadBody replaces the body with the persisted one, if any.
	LoadBody(ctx context.Context) error

	// UpdateBody persists and then serves a new body.
	UpdateBody(ctx context.Context, body string) error
}

type greetingService struct {
	opts    GreetingOptions
	store   storage.Storage
	journal repository.ResponseRepository
	log     logrus.FieldLogger
	sem     *semaphore.Weighted
	pending atomic.Int64

	mu   sync.RWMutex
	body string
}

// NewGreetingService constructs a GreetingService. store and journal may be
// nil, in which case the body is not persisted and outcomes are not recorded.
func NewGreetingService(opts GreetingOptions, store storage.Storage, journal repository.ResponseRepository, log logrus.FieldLogger) GreetingService {
	s := &greetingService{
		opts:    opts,
		store:   store,
		journal: journal,
		log:     log,
		body:    opts.Body,
	}
	if opts.MaxPending > 0 {
		s.sem = semaphore.NewWeighted(int64(opts.MaxPending))
	}
	return s
}

func (s *greetingService) Respond(ctx context.Context, meta RequestMeta) (*Reply, error) {
	ctx, span := tracer.Start(ctx, "greeting.respond", trace.WithAttributes(
		attribute.Int64("greeting.delay_ms", s.opts.Delay.Milliseconds()),
		attribute.String("greeting.request_id", meta.RequestID),
	))
	defer span.End()

	if s.sem != nil {
		if !s.sem.TryAcquire(1) {
			span.SetStatus(codes.Error, ErrBusy.Error())
			s.record(ctx, meta, http.StatusServiceUnavailable, model.OutcomeRejected)
			return nil, ErrBusy
		}
		defer s.sem.Release(1)
	}

	s.pending.Add(1)
	defer s.pending.Add(-1)

	if err := s.wait(ctx); err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.record(ctx, meta, http.StatusServiceUnavailable, model.OutcomeCancelled)
		return nil, err
	}

	reply := &Reply{
		Status:      http.StatusOK,
		ContentType: s.opts.ContentType,
		Body:        s.currentBody(),
		Delay:       s.opts.Delay,
	}
	s.record(ctx, meta, reply.Status, model.OutcomeServed)
	return reply, nil
}

// wait blocks until the delay elapsed or ctx is done.
func (s *greetingService) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCancelled, err)
	}
	timer := time.NewTimer(s.opts.Delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrCancelled, context.Cause(ctx))
	}
}

// record appends an outcome to the journal. The write outlives ctx so that
// cancelled requests are still recorded.
func (s *greetingService) record(ctx context.Context, meta RequestMeta, status int, outcome model.Outcome) {
	if s.journal == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	rec := &model.ResponseRecord{
		ID:        uuid.NewString(),
		RequestID: meta.RequestID,
		Method:    meta.Method,
		Path:      meta.Path,
		Status:    status,
		Outcome:   outcome,
		DelayMs:   s.opts.Delay.Milliseconds(),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.journal.Create(ctx, rec); err != nil {
		s.log.WithFields(logrus.Fields{
			"component":  "journal",
			"request_id": meta.RequestID,
			"outcome":    string(outcome),
		}).WithError(err).Warn("failed to record response")
	}
}

func (s *greetingService) Pending() int64 {
	return s.pending.Load()
}

func (s *greetingService) currentBody() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.body
}

func (s *greetingService) Current() Greeting {
	return Greeting{
		Body:        s.currentBody(),
		ContentType: s.opts.ContentType,
		DelayMs:     s.opts.Delay.Milliseconds(),
	}
}

func (s *greetingService) LoadBody(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	rc, _, err := s.store.Get(ctx, s.opts.ObjectKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			s.log.WithField("key", s.opts.ObjectKey).Info("no stored greeting, keeping default body")
			return nil
		}
		return fmt.Errorf("load greeting: %w", err)
	}
	defer rc.Close()

	b, err := io.ReadAll(io.LimitReader(rc, MaxBodyBytes+1))
	if err != nil {
		return fmt.Errorf("read greeting: %w", err)
	}
	if len(b) > MaxBodyBytes {
		return fmt.Errorf("load greeting: %w", ErrBodyTooLarge)
	}
	if len(b) == 0 {
		return nil
	}

	s.mu.Lock()
	s.body = string(b)
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"key": s.opts.ObjectKey, "size": len(b)}).Info("greeting loaded from storage")
	return nil
}

func (s *greetingService) UpdateBody(ctx context.Context, body string) error {
	if body == "" {
		return ErrBodyRequired
	}
	if len(body) > MaxBodyBytes {
		return ErrBodyTooLarge
	}

	if s.store != nil {
		_, err := s.store.Put(ctx, s.opts.ObjectKey, strings.NewReader(body), storage.PutObjectOptions{
			Size:        int64(len(body)),
			ContentType: s.opts.ContentType,
		})
		if err != nil {
			return fmt.Errorf("store greeting: %w", err)
		}
	}

	s.mu.Lock()
	s.body = body
	s.mu.Unlock()
	return nil
}
