package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	// estimateConnectionFallback is returned whenever the upstream call fails.
	estimateConnectionFallback = "Error calculating estimate. Please check your connection."
	// estimateEmptyFallback is returned when the upstream succeeds but
	// produces no usable text.
	estimateEmptyFallback = "I couldn't calculate that right now. Please try asking about specific quantities like 'how much cement for a 10x10 wall?'"

	estimatePromptFormat = "You are a professional construction estimator in India. " +
		"Answer this user query briefly and suggest specific quantities: %s. " +
		"Keep the answer helpful for someone buying from BuildQuick app."
)

var errEstimatorGeneratorRequired = errors.New("estimator service: generator is required")

// TextGenerator is the slice of the upstream generative client the estimator uses.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// EstimatorServiceDeps bundles constructor inputs for the estimator service.
type EstimatorServiceDeps struct {
	Generator TextGenerator
	Logger    func(context.Context, string, map[string]any)
}

type estimatorService struct {
	generator TextGenerator
	logger    func(context.Context, string, map[string]any)
}

// NewEstimatorService constructs an EstimatorService enforcing dependency validation.
func NewEstimatorService(deps EstimatorServiceDeps) (EstimatorService, error) {
	if deps.Generator == nil {
		return nil, errEstimatorGeneratorRequired
	}

	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &estimatorService{
		generator: deps.Generator,
		logger:    logger,
	}, nil
}

// Estimate wraps the query in the construction-estimator prompt and returns
// the generated answer. It always resolves with displayable text: upstream
// failures degrade to the connection fallback and empty completions to the
// rephrase hint, so callers are never left pending on a transport error.
func (s *estimatorService) Estimate(ctx context.Context, query string) string {
	prompt := fmt.Sprintf(estimatePromptFormat, strings.TrimSpace(query))

	text, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		s.logger(ctx, "estimator.generation_failed", map[string]any{
			"error": err.Error(),
		})
		return estimateConnectionFallback
	}

	if strings.TrimSpace(text) == "" {
		return estimateEmptyFallback
	}
	return text
}
