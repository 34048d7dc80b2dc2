// Package port defines the interfaces (ports) for external dependencies
// and optional platform capabilities. Following hexagonal architecture,
// these ports decouple the screen state machines and services from the
// concrete adapters.
package port

import (
	"context"

	"github.com/boddenberg/upi-wallet-bfa-go/internal/domain"
)

// ContentGenerator invokes the generative-AI model.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, req *domain.GenerateRequest) (*domain.GenerateResponse, error)
}

// PayeeResolver turns a scanned identifier into a Payee. It never fails:
// implementations recover every error into a usable fallback.
type PayeeResolver interface {
	Resolve(ctx context.Context, scannedID string) domain.Payee
}

// InsightGenerator summarizes recent spending in one sentence.
// Like PayeeResolver it always returns a usable value.
type InsightGenerator interface {
	Summarize(ctx context.Context, transactions []domain.Transaction) string
}
