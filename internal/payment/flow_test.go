package payment_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/boddenberg/upi-wallet-bfa-go/internal/domain"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/payment"

	"go.uber.org/zap"
)

var testPayee = domain.Payee{Name: "Rahul Verma", UPIID: "rahul.verma@okybl", BankName: "HDFC Bank", IsVerified: true, Category: "Personal"}

func fixedClock() time.Time {
	return time.Date(2024, 10, 26, 14, 5, 9, 0, time.UTC)
}

func testConfig() payment.Config {
	return payment.Config{
		ProcessingDelay: 10 * time.Millisecond,
		Now:             fixedClock,
		IDs:             payment.NewIDGenerator(fixedClock),
	}
}

func press(t *testing.T, f *payment.Flow, keys string) {
	t.Helper()
	for _, r := range keys {
		if err := f.Press(string(r)); err != nil {
			t.Fatalf("press %q: %v", r, err)
		}
	}
}

func TestFlow_HappyPath(t *testing.T) {
	done := make(chan domain.Transaction, 1)
	f := payment.NewFlow(context.Background(), testConfig(), testPayee, "", func(tx domain.Transaction) { done <- tx }, zap.NewNop())

	press(t, f, "250")
	if !f.Snapshot().CanProceed {
		t.Fatal("expected proceed enabled")
	}
	f.Proceed()
	if f.Snapshot().Step != payment.StepPIN {
		t.Fatalf("expected pin step, got %s", f.Snapshot().Step)
	}

	press(t, f, "123")
	if f.Snapshot().CanSubmit {
		t.Fatal("expected submit disabled with 3 digits")
	}
	f.Submit()
	if f.Snapshot().Step != payment.StepPIN {
		t.Fatal("expected incomplete PIN submit to be ignored")
	}

	press(t, f, "4")
	if err := f.Submit(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if f.Snapshot().Step != payment.StepProcessing {
		t.Fatalf("expected processing, got %s", f.Snapshot().Step)
	}

	select {
	case tx := <-done:
		if !tx.Amount.Equal(testDecimal(t, "250")) {
			t.Errorf("expected amount 250, got %s", tx.Amount)
		}
		if tx.Status != domain.TxStatusSuccess || tx.Type != domain.TxDebit {
			t.Errorf("unexpected status/type %s/%s", tx.Status, tx.Type)
		}
		if tx.PayeeName != "Rahul Verma" || tx.PayeeUPI != "rahul.verma@okybl" {
			t.Errorf("unexpected payee fields %+v", tx)
		}
		if tx.ID != "tx1729951509000" {
			t.Errorf("unexpected id %s", tx.ID)
		}
		if tx.Date != "10/26/2024, 2:05:09 PM" {
			t.Errorf("unexpected date %s", tx.Date)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for settlement")
	}

	if f.Snapshot().Step != payment.StepDone {
		t.Errorf("expected done, got %s", f.Snapshot().Step)
	}
}

func TestFlow_ProceedRequiresPositiveAmount(t *testing.T) {
	f := payment.NewFlow(context.Background(), testConfig(), testPayee, "", func(domain.Transaction) {}, zap.NewNop())

	f.Proceed()
	if f.Snapshot().Step != payment.StepAmount {
		t.Fatal("expected empty amount to stay on amount entry")
	}

	press(t, f, "0.0")
	f.Proceed()
	if f.Snapshot().Step != payment.StepAmount || f.Snapshot().CanProceed {
		t.Fatal("expected zero amount to stay on amount entry")
	}
}

func TestFlow_BackNavigation(t *testing.T) {
	f := payment.NewFlow(context.Background(), testConfig(), testPayee, "", func(domain.Transaction) {}, zap.NewNop())
	press(t, f, "99.5")
	f.Proceed()
	press(t, f, "12")

	exit, err := f.Back()
	if err != nil || exit {
		t.Fatalf("expected back to amount entry, got exit=%v err=%v", exit, err)
	}
	snap := f.Snapshot()
	if snap.Step != payment.StepAmount || snap.Amount != "99.5" {
		t.Fatalf("expected amount preserved, got %+v", snap)
	}
	if snap.PINLength != 0 {
		t.Errorf("expected PIN cleared, got %d digits", snap.PINLength)
	}

	exit, _ = f.Back()
	if !exit {
		t.Fatal("expected back from amount entry to exit")
	}
}

func TestFlow_ResumesInitialAmount(t *testing.T) {
	f := payment.NewFlow(context.Background(), testConfig(), testPayee, "1.2.34", func(domain.Transaction) {}, zap.NewNop())
	if f.Amount() != "1.23" {
		t.Fatalf("expected resumed amount sanitized to 1.23, got %q", f.Amount())
	}
}

func TestFlow_CloseDuringProcessingDropsTransaction(t *testing.T) {
	called := make(chan struct{}, 1)
	f := payment.NewFlow(context.Background(), testConfig(), testPayee, "5", func(domain.Transaction) { called <- struct{}{} }, zap.NewNop())
	f.Proceed()
	press(t, f, "1234")
	f.Submit()
	f.Close()

	select {
	case <-called:
		t.Fatal("expected no transaction after close")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFlow_ActionsRejectedWhileProcessing(t *testing.T) {
	f := payment.NewFlow(context.Background(), testConfig(), testPayee, "5", func(domain.Transaction) {}, zap.NewNop())
	defer f.Close()
	f.Proceed()
	press(t, f, "1234")
	f.Submit()

	var invalid *domain.ErrInvalidAction
	if err := f.Press("1"); !errors.As(err, &invalid) {
		t.Errorf("expected ErrInvalidAction for key, got %v", err)
	}
	if _, err := f.Back(); !errors.As(err, &invalid) {
		t.Errorf("expected ErrInvalidAction for back, got %v", err)
	}
}

func TestFlow_InvalidKey(t *testing.T) {
	f := payment.NewFlow(context.Background(), testConfig(), testPayee, "", func(domain.Transaction) {}, zap.NewNop())

	var validation *domain.ErrValidation
	for _, key := range []string{"", "12", "x", "⌫"} {
		if err := f.Press(key); !errors.As(err, &validation) {
			t.Errorf("expected ErrValidation for %q, got %v", key, err)
		}
	}
}

func TestIDGenerator_Monotonic(t *testing.T) {
	g := payment.NewIDGenerator(fixedClock)
	a, b := g.Next(), g.Next()
	if a != "tx1729951509000" || b != "tx1729951509001" {
		t.Errorf("expected consecutive ids, got %s %s", a, b)
	}
}
