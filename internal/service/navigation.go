package service

import (
	"context"
	"sync"

	"github.com/boddenberg/upi-wallet-bfa-go/internal/domain"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/infra/observability"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/payment"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/port"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/scanner"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ControllerConfig holds the per-screen settings.
type ControllerConfig struct {
	Scanner scanner.Config
	Payment payment.Config
}

// Devices are the platform capabilities of one device. Detector and
// Haptics are nil when the platform lacks them.
type Devices struct {
	Camera   port.Camera
	Detector port.BarcodeDetector
	Haptics  port.Haptics
}

// State is a read-only copy of the controller for rendering.
type State struct {
	View         domain.View
	Activation   uint64
	User         domain.User
	Contacts     []domain.QuickContact
	History      []domain.Transaction
	Payee        *domain.Payee
	LastTx       *domain.Transaction
	Resolving    bool
	Scanner      *scanner.Snapshot
	Payment      *payment.Snapshot
	Insight      string
	InsightReady bool
}

// Controller owns the navigation state of one device session. Every
// transition is serialized by its mutex. Each view entry starts a new
// activation whose context is cancelled when the view is left; async
// results tagged with an older activation are dropped.
type Controller struct {
	cfg      ControllerConfig
	devices  Devices
	resolver port.PayeeResolver
	insight  port.InsightGenerator
	metrics  *observability.Metrics
	logger   *zap.Logger

	mu            sync.Mutex
	base          context.Context
	baseCancel    context.CancelFunc
	view          domain.View
	activation    uint64
	actCtx        context.Context
	actCancel     context.CancelFunc
	user          domain.User
	contacts      []domain.QuickContact
	history       []domain.Transaction
	payee         *domain.Payee
	pendingAmount string
	lastTx        *domain.Transaction
	resolving     bool
	scan          *scanner.Session
	flow          *payment.Flow
	insightText   string
	insightReady  bool
	closed        bool
}

// NewController creates a controller on the HOME view with seed data.
func NewController(
	cfg ControllerConfig,
	devices Devices,
	resolver port.PayeeResolver,
	insight port.InsightGenerator,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Controller {
	base, cancel := context.WithCancel(context.Background())
	c := &Controller{
		cfg:        cfg,
		devices:    devices,
		resolver:   resolver,
		insight:    insight,
		metrics:    metrics,
		logger:     logger,
		base:       base,
		baseCancel: cancel,
		user:       domain.CurrentUser(),
		contacts:   domain.QuickContacts(),
		history:    domain.RecentTransactions(),
	}

	c.mu.Lock()
	c.enterLocked(domain.ViewHome)
	c.mu.Unlock()
	return c
}

// ============================================================
// Transitions
// ============================================================

// Navigate sets the view directly. Entering PAYMENT without a payee or
// SUCCESS without a transaction is allowed; the screen renders an inline
// error.
func (c *Controller) Navigate(view domain.View) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return errSessionClosed
	}
	c.leaveLocked()
	if c.view == domain.ViewSuccess && view != domain.ViewSuccess {
		c.endPaymentLocked()
	}
	c.enterLocked(view)
	return nil
}

// ScanSucceeded resolves rawID into the active payee and moves to PAYMENT.
// It blocks for the duration of the resolution call.
func (c *Controller) ScanSucceeded(rawID string) {
	c.mu.Lock()
	token := c.activation
	c.mu.Unlock()

	c.scanSucceeded(token, rawID)
}

func (c *Controller) scanSucceeded(token uint64, rawID string) {
	ctx, ok := c.current(token)
	if !ok {
		c.logger.Info("scan from a previous activation dropped")
		return
	}
	c.setResolving(token, true)

	ctx, span := tracer.Start(ctx, "Controller.ScanSucceeded")
	defer span.End()

	payee := c.resolver.Resolve(ctx, rawID)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || token != c.activation {
		span.SetAttributes(attribute.Bool("navigation.stale", true))
		c.logger.Info("stale payee resolution dropped", zap.String("upi_id", payee.UPIID))
		return
	}
	c.leaveLocked()
	c.payee = &payee
	c.pendingAmount = ""
	c.enterLocked(domain.ViewPayment)
}

func (c *Controller) paymentSucceeded(token uint64, tx domain.Transaction) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || token != c.activation {
		c.logger.Info("stale payment result dropped", zap.String("tx_id", tx.ID))
		return
	}
	// The new transaction becomes the head of history.
	c.leaveLocked()
	c.history = append([]domain.Transaction{tx}, c.history...)
	c.lastTx = &tx
	c.pendingAmount = ""
	c.metrics.IncrPayment()
	c.enterLocked(domain.ViewSuccess)
}

// ============================================================
// Scanner actions
// ============================================================

// Simulate triggers a demo scan on the active scanner.
func (c *Controller) Simulate(kind scanner.DemoKind) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.scan == nil {
		return &domain.ErrInvalidAction{View: c.view, Action: "simulate"}
	}
	return c.scan.Simulate(kind)
}

// ============================================================
// Payment actions
// ============================================================

// PressKey forwards a keypad key to the payment flow.
func (c *Controller) PressKey(key string) error {
	return c.withFlow("key", func(f *payment.Flow) error { return f.Press(key) })
}

// Backspace deletes the last typed character.
func (c *Controller) Backspace() error {
	return c.withFlow("backspace", func(f *payment.Flow) error { return f.Backspace() })
}

// Proceed advances from amount to PIN entry.
func (c *Controller) Proceed() error {
	return c.withFlow("proceed", func(f *payment.Flow) error { return f.Proceed() })
}

// Submit starts settlement.
func (c *Controller) Submit() error {
	return c.withFlow("submit", func(f *payment.Flow) error { return f.Submit() })
}

// PaymentBack steps back inside the flow, or exits to HOME from amount
// entry. Exiting discards the payee.
func (c *Controller) PaymentBack() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.flow == nil {
		return &domain.ErrInvalidAction{View: c.view, Action: "back"}
	}
	exit, err := c.flow.Back()
	if err != nil || !exit {
		return err
	}
	c.leaveLocked()
	c.endPaymentLocked()
	c.enterLocked(domain.ViewHome)
	return nil
}

func (c *Controller) withFlow(action string, fn func(*payment.Flow) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.flow == nil {
		return &domain.ErrInvalidAction{View: c.view, Action: action}
	}
	return fn(c.flow)
}

// ============================================================
// Reads & teardown
// ============================================================

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := State{
		View:         c.view,
		Activation:   c.activation,
		User:         c.user,
		Contacts:     append([]domain.QuickContact(nil), c.contacts...),
		History:      append([]domain.Transaction(nil), c.history...),
		Resolving:    c.resolving,
		Insight:      c.insightText,
		InsightReady: c.insightReady,
	}
	if c.payee != nil {
		p := *c.payee
		s.Payee = &p
	}
	if c.lastTx != nil {
		tx := *c.lastTx
		s.LastTx = &tx
	}
	if c.scan != nil {
		snap := c.scan.Snapshot()
		s.Scanner = &snap
	}
	if c.flow != nil {
		snap := c.flow.Snapshot()
		s.Payment = &snap
	}
	return s
}

// View returns the current view.
func (c *Controller) View() domain.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Close stops every activity of the session and releases the camera.
// It is idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.leaveLocked()
	c.baseCancel()
}

// ============================================================
// Activation handling
// ============================================================

// enterLocked leaves the current view and activates view. Callers that
// reset payment state must call leaveLocked first, since leaving PAYMENT
// saves the typed amount.
func (c *Controller) enterLocked(view domain.View) {
	c.leaveLocked()

	c.activation++
	c.actCtx, c.actCancel = context.WithCancel(c.base)
	c.view = view
	c.metrics.IncrScreenView(view)

	token := c.activation
	c.logger.Debug("view activated", zap.String("view", string(view)), zap.Uint64("activation", token))

	switch view {
	case domain.ViewScanner:
		c.scan = scanner.New(c.cfg.Scanner, c.devices.Camera, c.devices.Detector, c.devices.Haptics,
			func(raw string, source scanner.Source) {
				c.metrics.IncrScan(string(source))
				c.scanSucceeded(token, raw)
			}, c.logger)
		if err := c.scan.Start(c.actCtx); err != nil {
			c.metrics.IncrCameraFailure()
		}

	case domain.ViewPayment:
		if c.payee != nil {
			c.flow = payment.NewFlow(c.actCtx, c.cfg.Payment, *c.payee, c.pendingAmount,
				func(tx domain.Transaction) { c.paymentSucceeded(token, tx) }, c.logger)
		}

	case domain.ViewHistory:
		c.insightText, c.insightReady = "", false
		recent := append([]domain.Transaction(nil), c.history...)
		go c.loadInsight(c.actCtx, token, recent)
	}
}

// leaveLocked tears down the current activation. It is idempotent.
func (c *Controller) leaveLocked() {
	if c.actCancel != nil {
		c.actCancel()
		c.actCancel = nil
	}
	if c.scan != nil {
		c.scan.Stop()
		c.scan = nil
	}
	if c.flow != nil {
		c.pendingAmount = c.flow.Amount()
		c.flow.Close()
		c.flow = nil
	}
	c.resolving = false
}

// endPaymentLocked discards the payee once its flow is over.
func (c *Controller) endPaymentLocked() {
	c.payee = nil
	c.pendingAmount = ""
}

func (c *Controller) loadInsight(ctx context.Context, token uint64, recent []domain.Transaction) {
	text := c.insight.Summarize(ctx, recent)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || token != c.activation {
		c.logger.Debug("stale insight dropped")
		return
	}
	c.insightText = text
	c.insightReady = true
}

func (c *Controller) current(token uint64) (context.Context, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || token != c.activation {
		return nil, false
	}
	return c.actCtx, true
}

func (c *Controller) setResolving(token uint64, v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if token == c.activation {
		c.resolving = v
	}
}
