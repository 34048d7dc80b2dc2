package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/boddenberg/upi-wallet-bfa-go/internal/domain"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/infra/observability"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/port"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	// InsightPlaceholder is shown while the summary is being generated.
	InsightPlaceholder = "Analyzing your recent spends with AI..."
	// InsightFallback is shown when no summary could be generated.
	InsightFallback = "Spending looks normal this week."

	insightWindow = 5
)

// InsightService summarizes recent spending in one sentence.
type InsightService struct {
	generator port.ContentGenerator
	metrics   *observability.Metrics
	logger    *zap.Logger
}

var _ port.InsightGenerator = (*InsightService)(nil)

// NewInsightService creates the service. A nil generator always yields
// InsightFallback.
func NewInsightService(generator port.ContentGenerator, metrics *observability.Metrics, logger *zap.Logger) *InsightService {
	return &InsightService{generator: generator, metrics: metrics, logger: logger}
}

// Summarize looks at the five most recent transactions.
func (s *InsightService) Summarize(ctx context.Context, transactions []domain.Transaction) string {
	ctx, span := tracer.Start(ctx, "InsightService.Summarize")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("insight", time.Since(start))
	}()

	recent := transactions
	if len(recent) > insightWindow {
		recent = recent[:insightWindow]
	}
	span.SetAttributes(attribute.Int("insight.transactions", len(recent)))

	text, err := s.generate(ctx, recent)
	if err != nil && ctx.Err() != nil {
		s.logger.Debug("insight generation abandoned", zap.Error(err))
		return InsightFallback
	}
	if err != nil {
		s.logger.Warn("insight generation failed, using fallback", zap.Error(err))
		s.metrics.IncrFallback("insight")
		return InsightFallback
	}
	return text
}

func (s *InsightService) generate(ctx context.Context, recent []domain.Transaction) (string, error) {
	if s.generator == nil {
		return "", &domain.ErrExternalService{Service: "genai", Err: fmt.Errorf("not configured")}
	}

	payload, err := json.Marshal(recent)
	if err != nil {
		return "", fmt.Errorf("marshal transactions: %w", err)
	}

	resp, err := s.generator.GenerateContent(ctx, &domain.GenerateRequest{
		Prompt: "Summarize these transactions in 1 short sentence: " + string(payload),
	})
	if err != nil {
		return "", fmt.Errorf("generate insight: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("empty insight")
	}
	return text, nil
}
