package repository

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/noah-isme/jieqi-converter/internal/models"
)

// TermSource is any provider of remote solar-term tables.
type TermSource interface {
	Name() string
	FetchTerms(ctx context.Context, year int) ([]models.SolarTerm, error)
}

// RateLimitedTermSource wraps a TermSource with a token bucket. By default it never waits for a
// token: an exhausted bucket fails immediately so the caller can fall back to local data.
type RateLimitedTermSource struct {
	source  TermSource
	limiter *rate.Limiter
	name    string
	wait    bool
}

// NewRateLimitedTermSource creates a rate limited source.
// rps is the sustained requests per second (fractional values allowed), burst the bucket size.
func NewRateLimitedTermSource(source TermSource, rps float64, burst int) *RateLimitedTermSource {
	return &RateLimitedTermSource{
		source:  source,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    fmt.Sprintf("%s [Rate Limited]", source.Name()),
	}
}

// NewWaitingTermSource is like NewRateLimitedTermSource but blocks until a token is free.
// It suits background work that owns its bucket and must not starve live requests.
func NewWaitingTermSource(source TermSource, rps float64, burst int) *RateLimitedTermSource {
	r := NewRateLimitedTermSource(source, rps, burst)
	r.wait = true
	return r
}

// FetchTerms forwards to the wrapped source once a token is available.
func (r *RateLimitedTermSource) FetchTerms(ctx context.Context, year int) ([]models.SolarTerm, error) {
	if r.wait {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, remoteError(err, "remote source rate limited")
		}
		return r.source.FetchTerms(ctx, year)
	}
	if !r.limiter.Allow() {
		return nil, remoteError(errors.New("rate limit exceeded"), "remote source rate limited")
	}
	return r.source.FetchTerms(ctx, year)
}

// Name returns the source name.
func (r *RateLimitedTermSource) Name() string {
	return r.name
}

var (
	_ TermSource = (*RemoteTermRepository)(nil)
	_ TermSource = (*RateLimitedTermSource)(nil)
)
