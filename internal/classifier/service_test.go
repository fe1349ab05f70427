package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tariffagent/internal/model"
	"tariffagent/internal/observability"
	"tariffagent/internal/regulation"
)

type stubCompleter struct {
	answer  string
	err     error
	calls   int
	prompts []string
	tokens  []int
}

func (s *stubCompleter) Complete(_ context.Context, prompt string, maxTokens int) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	s.tokens = append(s.tokens, maxTokens)
	return s.answer, s.err
}

type memoryCache struct {
	entries map[string]string
	getErr  error
	sets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]string)}
}

func (c *memoryCache) Get(_ context.Context, description string) (string, bool, error) {
	if c.getErr != nil {
		return "", false, c.getErr
	}
	v, ok := c.entries[description]
	return v, ok, nil
}

func (c *memoryCache) Set(_ context.Context, description, code string) error {
	c.sets++
	c.entries[description] = code
	return nil
}

type memoryRecorder struct {
	saved []model.ClassificationResult
	err   error
}

func (r *memoryRecorder) Save(_ context.Context, result model.ClassificationResult) error {
	r.saved = append(r.saved, result)
	return r.err
}

func TestClassifyScenarios(t *testing.T) {
	tests := []struct {
		name        string
		description string
		answer      string
		wantCode    string
		wantReg     model.Regulation
	}{
		{
			name:        "textile code",
			description: "cotton t-shirt",
			answer:      "610910",
			wantCode:    "610910",
			wantReg:     model.Regulation{Duty: "35%", Restriction: "Textile certificate required"},
		},
		{
			name:        "unknown code falls back to default",
			description: "mystery gadget",
			answer:      "999999",
			wantCode:    "999999",
			wantReg:     regulation.Default,
		},
		{
			name:        "dotted code is normalised for lookup only",
			description: "laptop",
			answer:      "8471.30",
			wantCode:    "8471.30",
			wantReg:     model.Regulation{Duty: "0%", Restriction: "Free circulation"},
		},
		{
			name:        "surrounding whitespace is trimmed",
			description: "laptop",
			answer:      "  847130\n",
			wantCode:    "847130",
			wantReg:     model.Regulation{Duty: "0%", Restriction: "Free circulation"},
		},
		{
			name:        "chatty answer is tolerated",
			description: "laptop",
			answer:      "HS Code: 847130",
			wantCode:    "HS Code: 847130",
			wantReg:     regulation.Default,
		},
		{
			name:        "empty answer is tolerated",
			description: "???",
			answer:      "",
			wantCode:    "",
			wantReg:     regulation.Default,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubCompleter{answer: tt.answer}
			svc := New(stub, regulation.Builtin(nil))

			result, err := svc.Classify(context.Background(), tt.description)
			require.NoError(t, err)

			assert.Equal(t, tt.description, result.Description)
			assert.Equal(t, tt.wantCode, result.HSCode)
			assert.Equal(t, tt.wantReg, result.Regulations)
			assert.Equal(t, StatusClassified, result.Status)

			require.Equal(t, 1, stub.calls)
			assert.Equal(t, BuildPrompt(tt.description), stub.prompts[0])
			assert.Equal(t, MaxOutputTokens, stub.tokens[0])
		})
	}
}

func TestClassifyUnconfigured(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	cache := newMemoryCache()
	svc := New(nil, regulation.Builtin(nil), WithCache(cache), WithMetrics(metrics))

	assert.False(t, svc.Ready())

	for _, description := range []string{"", "cotton t-shirt", "laptop"} {
		_, err := svc.Classify(context.Background(), description)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnconfigured)
		assert.Equal(t, KindUnconfigured, KindOf(err))
		assert.Contains(t, err.Error(), "not configured")
	}
	assert.Equal(t, 0, cache.sets)
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.Classifications.WithLabelValues(observability.OutcomeUnconfigured)))
}

func TestClassifyUpstreamError(t *testing.T) {
	stub := &stubCompleter{err: errors.New("dial tcp 10.0.0.1:443: connection refused")}
	recorder := &memoryRecorder{}
	svc := New(stub, regulation.Builtin(nil), WithRecorder(recorder))

	_, err := svc.Classify(context.Background(), "cotton t-shirt")

	require.Error(t, err)
	assert.Equal(t, "dial tcp 10.0.0.1:443: connection refused", err.Error())
	assert.ErrorIs(t, err, ErrUpstream)
	assert.ErrorIs(t, err, stub.err)
	assert.Equal(t, KindUpstream, KindOf(err))
	assert.Empty(t, recorder.saved)
}

func TestClassifyNoChoices(t *testing.T) {
	svc := New(&stubCompleter{err: ErrNoChoices}, regulation.Builtin(nil))

	_, err := svc.Classify(context.Background(), "laptop")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidResponse)
	assert.ErrorIs(t, err, ErrNoChoices)
	assert.Equal(t, KindInvalidResponse, KindOf(err))
}

func TestClassifyUsesCache(t *testing.T) {
	stub := &stubCompleter{answer: "610910"}
	cache := newMemoryCache()
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	svc := New(stub, regulation.Builtin(nil), WithCache(cache), WithMetrics(metrics))

	first, err := svc.Classify(context.Background(), "cotton t-shirt")
	require.NoError(t, err)
	second, err := svc.Classify(context.Background(), "cotton t-shirt")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheHits))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.RegulationLookups.WithLabelValues("match")))
}

func TestClassifyCacheFailureFallsThrough(t *testing.T) {
	stub := &stubCompleter{answer: "847130"}
	cache := newMemoryCache()
	cache.getErr = errors.New("redis: connection pool timeout")
	svc := New(stub, regulation.Builtin(nil), WithCache(cache))

	result, err := svc.Classify(context.Background(), "laptop")

	require.NoError(t, err)
	assert.Equal(t, "847130", result.HSCode)
	assert.Equal(t, 1, stub.calls)
}

func TestClassifyRecordsResult(t *testing.T) {
	recorder := &memoryRecorder{err: errors.New("relation \"classification_history\" does not exist")}
	svc := New(&stubCompleter{answer: "610910"}, regulation.Builtin(nil), WithRecorder(recorder))

	result, err := svc.Classify(context.Background(), "cotton t-shirt")

	require.NoError(t, err, "recorder failures are not surfaced")
	require.Len(t, recorder.saved, 1)
	assert.Equal(t, result, recorder.saved[0])
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "unconfigured", KindUnconfigured.String())
	assert.Equal(t, "upstream_failure", KindUpstream.String())
	assert.Equal(t, "invalid_response", KindInvalidResponse.String())
	assert.Equal(t, "unknown", Kind(0).String())
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
}
