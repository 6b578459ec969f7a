package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/jieqi-converter/internal/models"
	appErrors "github.com/noah-isme/jieqi-converter/pkg/errors"
)

type countingSource struct {
	calls int
}

func (s *countingSource) Name() string { return "stub" }

func (s *countingSource) FetchTerms(ctx context.Context, year int) ([]models.SolarTerm, error) {
	s.calls++
	return []models.SolarTerm{{Name: models.TermLichun, Year: year}}, nil
}

func TestRateLimitedTermSourceFailsFastWhenExhausted(t *testing.T) {
	inner := &countingSource{}
	limited := NewRateLimitedTermSource(inner, 0.001, 2)

	for i := 0; i < 2; i++ {
		terms, err := limited.FetchTerms(context.Background(), 2008)
		require.NoError(t, err)
		require.Len(t, terms, 1)
	}

	_, err := limited.FetchTerms(context.Background(), 2008)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrRemoteUnavailable)
	assert.Equal(t, 2, inner.calls)
}

func TestRateLimitedTermSourceName(t *testing.T) {
	limited := NewRateLimitedTermSource(&countingSource{}, 1, 1)
	assert.Equal(t, "stub [Rate Limited]", limited.Name())
}

func TestWaitingTermSourceBlocksInsteadOfFailing(t *testing.T) {
	inner := &countingSource{}
	waiting := NewWaitingTermSource(inner, 200, 1)

	for i := 0; i < 3; i++ {
		_, err := waiting.FetchTerms(context.Background(), 2008)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, inner.calls)
}

func TestWaitingTermSourceHonoursContext(t *testing.T) {
	inner := &countingSource{}
	waiting := NewWaitingTermSource(inner, 0.001, 1)
	_, err := waiting.FetchTerms(context.Background(), 2008)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = waiting.FetchTerms(ctx, 2008)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrRemoteUnavailable)
	assert.Equal(t, 1, inner.calls)
}
