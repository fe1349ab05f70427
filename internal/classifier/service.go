// Package classifier turns a free-text product description into an HS code
// suggestion from a language model and annotates it with customs regulations.
package classifier

import (
	"context"
	"errors"
	"strings"
	"time"

	"tariffagent/internal/model"
	"tariffagent/internal/observability"
	"tariffagent/internal/regulation"
)

// StatusClassified is the status reported on every successful result.
const StatusClassified = "AI Classified + Mock Verified"

// Recorder persists successful results. Failures are logged, not returned.
type Recorder interface {
	Save(ctx context.Context, result model.ClassificationResult) error
}

type Service struct {
	completer Completer
	table     *regulation.Table
	cache     Cache
	recorder  Recorder
	metrics   *observability.Metrics
}

type Option func(*Service)

func WithCache(c Cache) Option {
	return func(s *Service) { s.cache = c }
}

func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New builds a Service. A nil completer leaves the service unconfigured:
// every Classify call fails with KindUnconfigured without touching the network.
func New(completer Completer, table *regulation.Table, opts ...Option) *Service {
	s := &Service{
		completer: completer,
		table:     table,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ready reports whether a completer is configured.
func (s *Service) Ready() bool {
	return s.completer != nil
}

func (s *Service) Classify(ctx context.Context, description string) (model.ClassificationResult, error) {
	log := observability.Logger(ctx)

	if s.completer == nil {
		s.metrics.ObserveClassification(observability.OutcomeUnconfigured)
		return model.ClassificationResult{}, &Error{Kind: KindUnconfigured}
	}

	raw, err := s.complete(ctx, description)
	if err != nil {
		kind := KindUpstream
		outcome := observability.OutcomeUpstreamError
		if errors.Is(err, ErrNoChoices) {
			kind = KindInvalidResponse
			outcome = observability.OutcomeInvalidResponse
		}
		s.metrics.ObserveClassification(outcome)
		log.Error("classification failed", "kind", kind.String(), "error", err)
		return model.ClassificationResult{}, &Error{Kind: kind, Err: err}
	}

	code := strings.TrimSpace(raw)
	key := LookupKey(code)
	reg, matched := s.table.Find(key)
	s.metrics.ObserveLookup(matched)
	s.metrics.ObserveClassification(observability.OutcomeSuccess)

	log.Info("product classified", "hs_code", code, "lookup_key", key, "regulation_match", matched)

	result := model.ClassificationResult{
		Description: description,
		HSCode:      code,
		Regulations: reg,
		Status:      StatusClassified,
	}

	if s.recorder != nil {
		if err := s.recorder.Save(ctx, result); err != nil {
			log.Warn("failed to record classification", "error", err)
		}
	}

	return result, nil
}

func (s *Service) complete(ctx context.Context, description string) (string, error) {
	log := observability.Logger(ctx)

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, description)
		switch {
		case err != nil:
			log.Warn("cache lookup failed", "error", err)
		case ok:
			s.metrics.ObserveCacheHit()
			return cached, nil
		}
	}

	start := time.Now()
	raw, err := s.completer.Complete(ctx, BuildPrompt(description), MaxOutputTokens)
	s.metrics.ObserveCompletion(time.Since(start))
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, description, raw); err != nil {
			log.Warn("cache store failed", "error", err)
		}
	}
	return raw, nil
}
