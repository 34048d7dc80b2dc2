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

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("service")

const payeePromptTemplate = `Analyze this scanned payment data: %q.
It is either a bare UPI ID (name@bank) or a UPI URI (upi://pay?pa=...&pn=...).
For a URI, use the 'pa' parameter as the address and the 'pn' parameter as the name.

Generate a realistic Indian payee profile for this ID.
IDs that look like a business (shop, store, ent, pvt, ltd or merchant codes) belong to a business; anything else belongs to a person.
Pick a popular Indian bank for the account.
Return JSON only.`

// payeeSchema constrains the model's answer to a PayeeProfile.
var payeeSchema = &domain.Schema{
	Type: domain.SchemaObject,
	Properties: map[string]*domain.Schema{
		"normalizedId": {Type: domain.SchemaString, Description: "The clean UPI ID (e.g. user@bank) extracted from the scan"},
		"name":         {Type: domain.SchemaString, Description: "Full name of the person or business name"},
		"bankName":     {Type: domain.SchemaString, Description: "Bank name (e.g. HDFC, SBI, ICICI)"},
		"isVerified":   {Type: domain.SchemaBoolean, Description: "True if it looks like a verified merchant"},
		"category":     {Type: domain.SchemaString, Description: "Category like 'Grocery', 'Electronics', 'Personal'"},
	},
	Required: []string{"name", "bankName", "isVerified", "category"},
}

// FallbackPayee is the payee used whenever resolution fails.
func FallbackPayee(scannedID string) domain.Payee {
	return domain.Payee{
		Name:       "Verified Merchant",
		UPIID:      scannedID,
		BankName:   "State Bank of India",
		IsVerified: true,
		Category:   "Shop",
	}
}

// PayeeResolver fabricates a payee profile for a scanned identifier with a
// single generative-AI call.
type PayeeResolver struct {
	generator port.ContentGenerator
	metrics   *observability.Metrics
	logger    *zap.Logger
}

var _ port.PayeeResolver = (*PayeeResolver)(nil)

// NewPayeeResolver creates a resolver. A nil generator means the AI service
// is not configured and every scan resolves to FallbackPayee.
func NewPayeeResolver(generator port.ContentGenerator, metrics *observability.Metrics, logger *zap.Logger) *PayeeResolver {
	return &PayeeResolver{generator: generator, metrics: metrics, logger: logger}
}

// Resolve never fails and never retries.
func (r *PayeeResolver) Resolve(ctx context.Context, scannedID string) domain.Payee {
	ctx, span := tracer.Start(ctx, "PayeeResolver.Resolve")
	defer span.End()

	start := time.Now()
	defer func() {
		r.metrics.RecordRequestDuration("payee_resolution", time.Since(start))
	}()

	profile, err := r.lookup(ctx, scannedID)
	if err != nil && ctx.Err() != nil {
		// The screen that asked has moved on; the answer is dropped.
		r.logger.Debug("payee resolution abandoned", zap.String("scanned_id", scannedID), zap.Error(err))
		return FallbackPayee(scannedID)
	}
	if err != nil {
		r.logger.Warn("payee resolution failed, using fallback",
			zap.String("scanned_id", scannedID),
			zap.Error(err),
		)
		r.metrics.IncrFallback("payee")
		span.SetAttributes(attribute.Bool("payee.fallback", true))
		return FallbackPayee(scannedID)
	}

	payee := toPayee(profile, scannedID)
	span.SetAttributes(
		attribute.Bool("payee.fallback", false),
		attribute.String("payee.upi_id", payee.UPIID),
	)
	return payee
}

func (r *PayeeResolver) lookup(ctx context.Context, scannedID string) (*domain.PayeeProfile, error) {
	if r.generator == nil {
		return nil, &domain.ErrExternalService{Service: "genai", Err: fmt.Errorf("not configured")}
	}

	resp, err := r.generator.GenerateContent(ctx, &domain.GenerateRequest{
		Prompt:           fmt.Sprintf(payeePromptTemplate, scannedID),
		ResponseMIMEType: "application/json",
		ResponseSchema:   payeeSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("generate payee profile: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		text = "{}"
	}
	var answer domain.PayeeProfile
	if err := json.Unmarshal([]byte(text), &answer); err != nil {
		return nil, fmt.Errorf("decode payee profile: %w", err)
	}
	return &answer, nil
}

// toPayee fills omitted fields individually.
func toPayee(a *domain.PayeeProfile, scannedID string) domain.Payee {
	p := domain.Payee{
		UPIID:    orDefault(a.NormalizedID, scannedID),
		Name:     orDefault(a.Name, "Unknown Payee"),
		BankName: orDefault(a.BankName, "Unknown Bank"),
		Category: orDefault(a.Category, "General"),
	}
	if a.IsVerified != nil {
		p.IsVerified = *a.IsVerified
	}
	return p
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
