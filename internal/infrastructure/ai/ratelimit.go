package ai

import (
	"context"
	"errors"
	"time"

	"github.com/meadcraft/meadery/internal/ports/outbound"
	apperrors "github.com/meadcraft/meadery/pkg/errors"
	"golang.org/x/time/rate"
)

// ErrBudgetExhausted is the cause attached to rate-limited requests
var ErrBudgetExhausted = errors.New("generator request budget exhausted")

// RateLimitedGenerator applies a token bucket in front of a generator.
// Requests beyond the budget fail fast instead of queueing.
type RateLimitedGenerator struct {
	next    outbound.RecipeGenerator
	limiter *rate.Limiter
}

// NewRateLimitedGenerator allows requestsPerMinute with the given burst.
// A non-positive rate disables limiting.
func NewRateLimitedGenerator(next outbound.RecipeGenerator, requestsPerMinute, burst int) *RateLimitedGenerator {
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(requestsPerMinute))
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimitedGenerator{
		next:    next,
		limiter: rate.NewLimiter(limit, burst),
	}
}

var _ outbound.RecipeGenerator = (*RateLimitedGenerator)(nil)

// Name returns the wrapped generator's name
func (g *RateLimitedGenerator) Name() string {
	return g.next.Name()
}

// Generate forwards the request when a token is available
func (g *RateLimitedGenerator) Generate(ctx context.Context, req outbound.GenerationRequest) (string, error) {
	if !g.limiter.Allow() {
		return "", apperrors.NewRateLimitedError(g.next.Name(), ErrBudgetExhausted)
	}
	return g.next.Generate(ctx, req)
}
