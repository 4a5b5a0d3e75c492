package ai

import (
	"context"
	"time"

	"github.com/meadcraft/meadery/internal/ports/outbound"
	apperrors "github.com/meadcraft/meadery/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("github.com/meadcraft/meadery/internal/infrastructure/ai")

// RequestRecorder receives one observation per generator call
type RequestRecorder interface {
	GeneratorRequest(provider, status string, duration time.Duration)
}

// InstrumentedGenerator records metrics and logs for every generation
type InstrumentedGenerator struct {
	next    outbound.RecipeGenerator
	metrics RequestRecorder
	logger  *zap.Logger
}

// NewInstrumentedGenerator wraps next
func NewInstrumentedGenerator(next outbound.RecipeGenerator, metrics RequestRecorder, logger *zap.Logger) *InstrumentedGenerator {
	return &InstrumentedGenerator{
		next:    next,
		metrics: metrics,
		logger:  logger.Named("generator"),
	}
}

var _ outbound.RecipeGenerator = (*InstrumentedGenerator)(nil)

// Name returns the wrapped generator's name
func (g *InstrumentedGenerator) Name() string {
	return g.next.Name()
}

// Generate forwards the request and records its outcome
func (g *InstrumentedGenerator) Generate(ctx context.Context, req outbound.GenerationRequest) (string, error) {
	ctx, span := tracer.Start(ctx, "recipe.generate")
	defer span.End()

	start := time.Now()
	markdown, err := g.next.Generate(ctx, req)
	duration := time.Since(start)

	status := "success"
	switch {
	case apperrors.Is(err, apperrors.CodeTooManyRequests):
		status = "rate_limited"
	case err != nil:
		status = "error"
	}
	g.metrics.GeneratorRequest(g.next.Name(), status, duration)
	span.SetAttributes(
		attribute.String("generator.provider", g.next.Name()),
		attribute.String("generator.status", status),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, status)
		g.logger.Warn("Recipe generation failed",
			zap.String("provider", g.next.Name()),
			zap.String("status", status),
			zap.Duration("duration", duration),
			zap.Error(err))
		return "", err
	}

	g.logger.Debug("Recipe generated",
		zap.String("provider", g.next.Name()),
		zap.Duration("duration", duration),
		zap.Int("length", len(markdown)))
	return markdown, nil
}
