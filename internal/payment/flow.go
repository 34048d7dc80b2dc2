// Package payment implements the send-money screen: amount entry, UPI PIN
// entry and the simulated settlement that yields a Transaction.
package payment

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/boddenberg/upi-wallet-bfa-go/internal/domain"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("payment")

// Step is the flow's position.
type Step string

const (
	StepAmount     Step = "amount-entry"
	StepPIN        Step = "pin-entry"
	StepProcessing Step = "processing"
	StepDone       Step = "done"
)

// DateLayout is the display format of a settled transaction's date.
const DateLayout = "1/2/2006, 3:04:05 PM"

// Config holds the settlement parameters.
type Config struct {
	ProcessingDelay time.Duration
	Now             func() time.Time
	IDs             *IDGenerator
}

// DefaultConfig returns the production settings.
func DefaultConfig() Config {
	return Config{
		ProcessingDelay: 2 * time.Second,
		Now:             time.Now,
		IDs:             NewIDGenerator(time.Now),
	}
}

// SuccessFunc receives the settled transaction. It is called without any
// flow lock held.
type SuccessFunc func(tx domain.Transaction)

// Snapshot is a read-only view of the flow for rendering. The PIN is
// reduced to its length.
type Snapshot struct {
	Step       Step         `json:"step"`
	Payee      domain.Payee `json:"payee"`
	Amount     string       `json:"amount"`
	PINLength  int          `json:"pinLength"`
	CanProceed bool         `json:"canProceed"`
	CanSubmit  bool         `json:"canSubmit"`
}

// Flow is one payment to one payee.
type Flow struct {
	cfg       Config
	payee     domain.Payee
	onSuccess SuccessFunc
	logger    *zap.Logger

	mu     sync.Mutex
	step   Step
	amount AmountBuffer
	pin    PINBuffer
	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

// NewFlow starts a flow in amount entry. initialAmount resumes a
// previously typed amount. Cancelling parent abandons any settlement in
// progress.
func NewFlow(parent context.Context, cfg Config, payee domain.Payee, initialAmount string, onSuccess SuccessFunc, logger *zap.Logger) *Flow {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.IDs == nil {
		cfg.IDs = NewIDGenerator(cfg.Now)
	}
	ctx, cancel := context.WithCancel(parent)
	return &Flow{
		cfg:       cfg,
		payee:     payee,
		onSuccess: onSuccess,
		logger:    logger,
		step:      StepAmount,
		amount:    NewAmountBuffer(initialAmount),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Press handles a keypad key ("0"-"9" or "."). Keys the current buffer
// cannot take are ignored.
func (f *Flow) Press(key string) error {
	r, size := utf8.DecodeRuneInString(key)
	if size == 0 || size != len(key) || !(r == '.' || (r >= '0' && r <= '9')) {
		return &domain.ErrValidation{Field: "key", Message: "expected a digit or '.'"}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.step {
	case StepAmount:
		f.amount.Press(r)
	case StepPIN:
		f.pin.Press(r)
	default:
		return f.invalid("key")
	}
	return nil
}

// Backspace deletes the last character of the active buffer.
func (f *Flow) Backspace() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.step {
	case StepAmount:
		f.amount.Backspace()
	case StepPIN:
		f.pin.Backspace()
	default:
		return f.invalid("backspace")
	}
	return nil
}

// Proceed moves to PIN entry when the amount is positive.
func (f *Flow) Proceed() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepAmount {
		return f.invalid("proceed")
	}
	if _, ok := f.amount.Value(); ok {
		f.step = StepPIN
	}
	return nil
}

// Back steps from PIN entry to amount entry, keeping the amount. From
// amount entry it reports exit so the caller can leave the screen.
func (f *Flow) Back() (exit bool, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.step {
	case StepPIN:
		f.pin.Reset()
		f.step = StepAmount
		return false, nil
	case StepAmount:
		return true, nil
	}
	return false, f.invalid("back")
}

// Submit starts settlement once the PIN is complete.
func (f *Flow) Submit() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepPIN {
		return f.invalid("submit")
	}
	if !f.pin.Complete() {
		return nil
	}

	amount, _ := f.amount.Value()
	f.pin.Reset()
	f.step = StepProcessing
	go f.settle(f.ctx, amount)
	return nil
}

// Amount returns the typed amount, used to resume the flow later.
func (f *Flow) Amount() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.amount.String()
}

// Snapshot returns the current render state.
func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, positive := f.amount.Value()
	return Snapshot{
		Step:       f.step,
		Payee:      f.payee,
		Amount:     f.amount.String(),
		PINLength:  f.pin.Len(),
		CanProceed: f.step == StepAmount && positive,
		CanSubmit:  f.step == StepPIN && f.pin.Complete(),
	}
}

// Close abandons the flow. A settlement in progress is dropped and no
// transaction is produced. Close does not wait.
func (f *Flow) Close() {
	f.mu.Lock()
	f.closed = true
	f.pin.Reset()
	f.mu.Unlock()
	f.cancel()
}

func (f *Flow) settle(ctx context.Context, amount decimal.Decimal) {
	ctx, span := tracer.Start(ctx, "PaymentFlow.settle")
	defer span.End()
	span.SetAttributes(attribute.String("payment.payee", f.payee.UPIID))

	t := time.NewTimer(f.cfg.ProcessingDelay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		f.logger.Info("payment abandoned during processing", zap.String("payee", f.payee.UPIID))
		return
	case <-t.C:
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	tx := domain.Transaction{
		ID:        f.cfg.IDs.Next(),
		Amount:    amount,
		PayeeName: f.payee.Name,
		PayeeUPI:  f.payee.UPIID,
		Date:      f.cfg.Now().Format(DateLayout),
		Status:    domain.TxStatusSuccess,
		Type:      domain.TxDebit,
	}
	f.step = StepDone
	f.mu.Unlock()

	span.SetAttributes(attribute.String("payment.tx_id", tx.ID))
	f.logger.Info("payment settled",
		zap.String("tx_id", tx.ID),
		zap.String("amount", tx.Amount.String()),
		zap.String("payee", tx.PayeeUPI),
	)
	f.onSuccess(tx)
}

func (f *Flow) invalid(action string) error {
	return &domain.ErrInvalidAction{View: domain.ViewPayment, Action: action}
}
