package service_test

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/boddenberg/upi-wallet-bfa-go/internal/domain"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/infra/camera"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/infra/haptics"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/infra/observability"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/payment"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/port"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/scanner"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/service"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type fixedDetector struct{ payload string }

func (d fixedDetector) Detect(context.Context, image.Image) ([]string, error) {
	return []string{d.payload}, nil
}

func newController(t *testing.T, feed *camera.Feed, det port.BarcodeDetector, resolver port.PayeeResolver, insight port.InsightGenerator) (*service.Controller, *observability.Metrics) {
	t.Helper()
	metrics := observability.NewMetrics()
	if resolver == nil {
		resolver = service.NewPayeeResolver(nil, metrics, zap.NewNop())
	}
	if insight == nil {
		insight = &staticInsight{text: "ok"}
	}
	if feed == nil {
		feed = camera.NewFeed()
	}
	devices := service.Devices{Camera: feed}
	if det != nil {
		devices.Detector = det
	}
	c := service.NewController(testControllerConfig(), devices, resolver, insight, metrics, zap.NewNop())
	t.Cleanup(c.Close)
	return c, metrics
}

func pressAll(t *testing.T, c *service.Controller, keys string) {
	t.Helper()
	for _, r := range keys {
		if err := c.PressKey(string(r)); err != nil {
			t.Fatalf("press %q: %v", r, err)
		}
	}
}

func TestController_StartsOnHomeWithSeedData(t *testing.T) {
	c, _ := newController(t, nil, nil, nil, nil)

	s := c.Snapshot()
	if s.View != domain.ViewHome {
		t.Errorf("expected HOME, got %s", s.View)
	}
	if len(s.History) != 4 || s.History[0].ID != "t1" {
		t.Errorf("expected seed history, got %d entries", len(s.History))
	}
	if s.User.Name != "Arjun Kumar" || len(s.Contacts) != 4 {
		t.Errorf("unexpected seed user/contacts %+v", s.User)
	}
}

func TestController_ScanPayScenario(t *testing.T) {
	c, metrics := newController(t, nil, nil, nil, nil)

	c.ScanSucceeded("rahul.verma@okybl")

	s := c.Snapshot()
	if s.View != domain.ViewPayment {
		t.Fatalf("expected PAYMENT, got %s", s.View)
	}
	if s.Payee == nil || s.Payee.UPIID != "rahul.verma@okybl" {
		t.Fatalf("expected payee rahul.verma@okybl, got %+v", s.Payee)
	}

	pressAll(t, c, "250")
	c.Proceed()
	pressAll(t, c, "1234")
	if err := c.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}

	eventually(t, "SUCCESS view", func() bool { return c.View() == domain.ViewSuccess })

	s = c.Snapshot()
	if len(s.History) != 5 {
		t.Fatalf("expected 5 transactions, got %d", len(s.History))
	}
	head := s.History[0]
	if !head.Amount.Equal(decimal.NewFromInt(250)) || head.Type != domain.TxDebit || head.Status != domain.TxStatusSuccess {
		t.Errorf("unexpected head transaction %+v", head)
	}
	if head.PayeeUPI != "rahul.verma@okybl" {
		t.Errorf("expected payee address on tx, got %s", head.PayeeUPI)
	}
	if s.LastTx == nil || s.LastTx.ID != head.ID {
		t.Error("expected success screen to show the new transaction")
	}
	if metrics.GetGenAISnapshot().PaymentsCompleted != 1 {
		t.Error("expected payment counted")
	}
}

func TestController_RepeatedPaymentsPrependHistory(t *testing.T) {
	c, metrics := newController(t, nil, nil, nil, nil)

	seen := map[string]bool{}
	for i := 1; i <= 3; i++ {
		if err := c.Navigate(domain.ViewHome); err != nil {
			t.Fatalf("cycle %d: navigate home: %v", i, err)
		}
		c.ScanSucceeded("rahul.verma@okybl")
		pressAll(t, c, "10")
		if err := c.Proceed(); err != nil {
			t.Fatalf("cycle %d: proceed: %v", i, err)
		}
		pressAll(t, c, "1234")
		if err := c.Submit(); err != nil {
			t.Fatalf("cycle %d: submit: %v", i, err)
		}
		eventually(t, "SUCCESS view", func() bool { return c.View() == domain.ViewSuccess })

		s := c.Snapshot()
		if len(s.History) != 4+i {
			t.Fatalf("cycle %d: expected %d transactions, got %d", i, 4+i, len(s.History))
		}
		if s.LastTx == nil || s.History[0].ID != s.LastTx.ID {
			t.Fatalf("cycle %d: expected the newest transaction at the head", i)
		}
		if seen[s.LastTx.ID] {
			t.Fatalf("cycle %d: duplicate transaction id %s", i, s.LastTx.ID)
		}
		seen[s.LastTx.ID] = true
	}

	if metrics.GetGenAISnapshot().PaymentsCompleted != 3 {
		t.Error("expected 3 payments counted")
	}
}

func TestController_MissingPreconditions(t *testing.T) {
	c, _ := newController(t, nil, nil, nil, nil)

	c.Navigate(domain.ViewPayment)
	s := c.Snapshot()
	if s.View != domain.ViewPayment || s.Payee != nil || s.Payment != nil {
		t.Fatalf("expected payment view without flow, got %+v", s)
	}

	var invalid *domain.ErrInvalidAction
	if err := c.PressKey("1"); !errors.As(err, &invalid) {
		t.Errorf("expected ErrInvalidAction, got %v", err)
	}

	c.Navigate(domain.ViewSuccess)
	if s := c.Snapshot(); s.LastTx != nil {
		t.Error("expected no transaction")
	}
}

func TestController_LeavingDuringProcessingRecordsNothing(t *testing.T) {
	c, _ := newController(t, nil, nil, nil, nil)
	c.ScanSucceeded("a@b")
	pressAll(t, c, "5")
	c.Proceed()
	pressAll(t, c, "1234")
	c.Submit()

	c.Navigate(domain.ViewHome)
	time.Sleep(40 * time.Millisecond)

	s := c.Snapshot()
	if s.View != domain.ViewHome {
		t.Errorf("expected HOME, got %s", s.View)
	}
	if len(s.History) != 4 {
		t.Errorf("expected history unchanged, got %d", len(s.History))
	}
}

func TestController_StaleResolutionDropped(t *testing.T) {
	resolver := newBlockingResolver()
	c, _ := newController(t, nil, nil, resolver, nil)

	done := make(chan struct{})
	go func() {
		c.ScanSucceeded("late@ybl")
		close(done)
	}()
	<-resolver.started

	c.Navigate(domain.ViewProfile)
	close(resolver.release)
	<-done

	s := c.Snapshot()
	if s.View != domain.ViewProfile || s.Payee != nil {
		t.Errorf("expected stale resolution dropped, got view=%s payee=%+v", s.View, s.Payee)
	}
}

func TestController_SimulatedScanThroughScanner(t *testing.T) {
	feed := camera.NewFeed()
	feed.SetPermission(true)
	c, metrics := newController(t, feed, nil, nil, nil)

	c.Navigate(domain.ViewScanner)
	if !feed.Held() {
		t.Fatal("expected camera held while scanning")
	}
	if err := c.Simulate(scanner.DemoMerchant); err != nil {
		t.Fatalf("simulate: %v", err)
	}

	eventually(t, "PAYMENT view", func() bool { return c.View() == domain.ViewPayment })

	s := c.Snapshot()
	if s.Payee == nil || s.Payee.UPIID != scanner.MerchantDemoID {
		t.Errorf("unexpected payee %+v", s.Payee)
	}
	if feed.Held() {
		t.Error("expected camera released after scan")
	}
	if metrics.GetGenAISnapshot().ScansCompleted != 1 {
		t.Error("expected scan counted")
	}
}

func TestController_NativeScanFiresHaptics(t *testing.T) {
	feed := camera.NewFeed()
	feed.SetPermission(true)
	sig := haptics.NewSignal()
	metrics := observability.NewMetrics()
	c := service.NewController(testControllerConfig(),
		service.Devices{Camera: feed, Detector: fixedDetector{payload: "shop@okaxis"}, Haptics: sig},
		service.NewPayeeResolver(nil, metrics, zap.NewNop()), &staticInsight{text: "ok"}, metrics, zap.NewNop())
	defer c.Close()

	c.Navigate(domain.ViewScanner)
	feed.Push(image.NewGray(image.Rect(0, 0, 2, 2)))

	eventually(t, "PAYMENT view", func() bool { return c.View() == domain.ViewPayment })
	if p := sig.Drain(); len(p) != 1 || p[0] != 200 {
		t.Errorf("expected one 200ms pulse, got %v", p)
	}
}

func TestController_ScannerPermissionDenied(t *testing.T) {
	feed := camera.NewFeed()
	c, _ := newController(t, feed, nil, nil, nil)

	c.Navigate(domain.ViewScanner)
	s := c.Snapshot()
	if s.Scanner == nil || s.Scanner.State != scanner.StateError {
		t.Fatalf("expected scanner error state, got %+v", s.Scanner)
	}
	if s.Scanner.Error != scanner.CameraDeniedMessage {
		t.Errorf("unexpected error %q", s.Scanner.Error)
	}
	if err := c.Simulate(scanner.DemoPersonal); err == nil {
		t.Error("expected simulate rejected in error state")
	}

	c.Navigate(domain.ViewHome)
	if c.Snapshot().Scanner != nil {
		t.Error("expected scanner torn down")
	}
}

func TestController_CloseReleasesCamera(t *testing.T) {
	feed := camera.NewFeed()
	feed.SetPermission(true)
	c, _ := newController(t, feed, nil, nil, nil)

	c.Navigate(domain.ViewScanner)
	c.Close()

	if feed.Held() {
		t.Fatal("expected camera released on close")
	}
	if err := c.Navigate(domain.ViewHome); err == nil {
		t.Error("expected navigation on a closed controller to fail")
	}
}

func TestController_HistoryInsight(t *testing.T) {
	insight := &staticInsight{text: "Most spending went to groceries."}
	c, _ := newController(t, nil, nil, nil, insight)

	c.Navigate(domain.ViewHistory)
	eventually(t, "insight", func() bool { return c.Snapshot().InsightReady })

	if got := c.Snapshot().Insight; got != "Most spending went to groceries." {
		t.Errorf("unexpected insight %q", got)
	}

	c.Navigate(domain.ViewHome)
	c.Navigate(domain.ViewHistory)
	eventually(t, "second insight", func() bool { return insight.calls.Load() == 2 })
}

func TestController_PaymentBackExitsAndDiscardsPayee(t *testing.T) {
	c, _ := newController(t, nil, nil, nil, nil)
	c.ScanSucceeded("a@b")
	pressAll(t, c, "12")
	c.Proceed()

	c.PaymentBack()
	if s := c.Snapshot(); s.Payment.Step != payment.StepAmount || s.Payment.Amount != "12" {
		t.Fatalf("expected amount entry with amount kept, got %+v", s.Payment)
	}

	c.PaymentBack()
	s := c.Snapshot()
	if s.View != domain.ViewHome || s.Payee != nil {
		t.Errorf("expected HOME without payee, got view=%s payee=%+v", s.View, s.Payee)
	}
}

func TestController_AmountResumesAcrossNavigation(t *testing.T) {
	c, _ := newController(t, nil, nil, nil, nil)
	c.ScanSucceeded("a@b")
	pressAll(t, c, "75")

	c.Navigate(domain.ViewHistory)
	c.Navigate(domain.ViewPayment)

	if s := c.Snapshot(); s.Payment == nil || s.Payment.Amount != "75" {
		t.Fatalf("expected amount resumed, got %+v", s.Payment)
	}

	c.ScanSucceeded("b@c")
	if s := c.Snapshot(); s.Payment.Amount != "" {
		t.Errorf("expected new scan to clear the amount, got %q", s.Payment.Amount)
	}
}
