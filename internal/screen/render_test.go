package screen_test

import (
	"testing"

	"github.com/boddenberg/upi-wallet-bfa-go/internal/domain"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/payment"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/scanner"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/screen"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/service"

	"github.com/shopspring/decimal"
)

func baseState(view domain.View) service.State {
	return service.State{
		View:     view,
		User:     domain.CurrentUser(),
		Contacts: domain.QuickContacts(),
		History:  domain.RecentTransactions(),
	}
}

func TestRender_BottomNavOnlyOnTabs(t *testing.T) {
	for _, v := range domain.AllViews {
		doc := screen.Render(baseState(v), nil)
		want := v == domain.ViewHome || v == domain.ViewHistory || v == domain.ViewProfile
		if (doc.BottomNav != nil) != want {
			t.Errorf("%s: expected bottom nav=%v", v, want)
		}
	}

	doc := screen.Render(baseState(domain.ViewHistory), nil)
	for _, item := range doc.BottomNav.Items {
		if item.Active != (item.View == domain.ViewHistory) {
			t.Errorf("unexpected active flag on %s", item.Label)
		}
	}
}

func TestRender_Home(t *testing.T) {
	doc := screen.Render(baseState(domain.ViewHome), []int{200})

	if doc.Home == nil {
		t.Fatal("expected home section")
	}
	if doc.Home.Location != "Bangalore" || doc.Home.UserName != "Arjun Kumar" {
		t.Errorf("unexpected header %+v", doc.Home)
	}
	if len(doc.Home.Contacts) != 4 {
		t.Errorf("expected 4 contacts, got %d", len(doc.Home.Contacts))
	}
	if len(doc.Haptics) != 1 || doc.Haptics[0] != 200 {
		t.Errorf("expected haptics passed through, got %v", doc.Haptics)
	}
}

func TestRender_ScannerStates(t *testing.T) {
	tests := []struct {
		name       string
		snap       scanner.Snapshot
		hint       string
		demoPrompt string
		demos      int
	}{
		{"native", scanner.Snapshot{State: scanner.StateScanning, NativeSupport: true, CanSimulate: true}, screen.HintNative, screen.DemoPromptNative, 2},
		{"manual", scanner.Snapshot{State: scanner.StateScanning, CanSimulate: true}, screen.HintSimulated, screen.DemoPromptManual, 2},
		{"error", scanner.Snapshot{State: scanner.StateError, Error: scanner.CameraDeniedMessage}, screen.HintSimulated, "", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := baseState(domain.ViewScanner)
			snap := tc.snap
			s.Scanner = &snap

			doc := screen.Render(s, nil)
			if doc.Scanner.Hint != tc.hint {
				t.Errorf("expected hint %q, got %q", tc.hint, doc.Scanner.Hint)
			}
			if doc.Scanner.DemoPrompt != tc.demoPrompt {
				t.Errorf("expected demo prompt %q, got %q", tc.demoPrompt, doc.Scanner.DemoPrompt)
			}
			if len(doc.Scanner.Demos) != tc.demos {
				t.Errorf("expected %d demos, got %d", tc.demos, len(doc.Scanner.Demos))
			}
			if doc.Scanner.Back.Path != "/v1/scanner/close" {
				t.Errorf("expected back to close the scanner, got %s", doc.Scanner.Back.Path)
			}
		})
	}
}

func TestRender_PaymentMissingPayee(t *testing.T) {
	doc := screen.Render(baseState(domain.ViewPayment), nil)
	if doc.Error == nil || doc.Error.Message != screen.MissingPayeeMsg {
		t.Fatalf("expected inline error, got %+v", doc.Error)
	}
	if doc.Payment != nil {
		t.Error("expected no payment section")
	}
}

func TestRender_PaymentSteps(t *testing.T) {
	payee := domain.Payee{Name: "star bakery", UPIID: "star_bakery@okhdfc", BankName: "HDFC Bank", IsVerified: true}
	s := baseState(domain.ViewPayment)
	s.Payee = &payee

	s.Payment = &payment.Snapshot{Step: payment.StepAmount, Payee: payee}
	doc := screen.Render(s, nil)
	p := doc.Payment
	if p.Title != "Send Money" || p.Amount != "0" || p.Primary.Enabled {
		t.Errorf("unexpected amount screen %+v", p)
	}
	if p.Payee.Initial != "S" || p.Payee.BankLine != "Banking with HDFC Bank" {
		t.Errorf("unexpected payee card %+v", p.Payee)
	}

	s.Payment = &payment.Snapshot{Step: payment.StepPIN, Payee: payee, Amount: "250", PINLength: 2}
	p = screen.Render(s, nil).Payment
	if p.Title != "Enter UPI PIN" || p.Primary.Enabled {
		t.Errorf("unexpected pin screen %+v", p)
	}
	if len(p.PINDots) != 4 || !p.PINDots[1] || p.PINDots[2] {
		t.Errorf("unexpected pin dots %v", p.PINDots)
	}
	if p.Amount != "" {
		t.Error("expected amount hidden during PIN entry")
	}

	s.Payment = &payment.Snapshot{Step: payment.StepProcessing, Payee: payee}
	p = screen.Render(s, nil).Payment
	if p.Processing == nil || p.Processing.Detail != "Connecting securely to HDFC Bank..." {
		t.Errorf("unexpected processing section %+v", p.Processing)
	}
	if p.Keypad != nil || p.Back != nil {
		t.Error("expected no input while processing")
	}
}

func TestRender_Success(t *testing.T) {
	s := baseState(domain.ViewSuccess)
	doc := screen.Render(s, nil)
	if doc.Error == nil || doc.Error.Message != screen.MissingTxMsg {
		t.Fatal("expected inline error without a transaction")
	}

	tx := domain.Transaction{ID: "tx1", Amount: decimal.RequireFromString("99.5"), PayeeName: "Star Bakery", PayeeUPI: "star_bakery@okhdfc", Date: "today"}
	s.LastTx = &tx
	doc = screen.Render(s, nil)
	if doc.Success.Amount != "₹ 99.50" || doc.Success.TransactionID != "tx1" {
		t.Errorf("unexpected success screen %+v", doc.Success)
	}
}

func TestRender_History(t *testing.T) {
	s := baseState(domain.ViewHistory)
	doc := screen.Render(s, nil)
	if doc.History.Insight != service.InsightPlaceholder {
		t.Errorf("expected placeholder, got %q", doc.History.Insight)
	}
	if doc.History.Rows[0].Amount != "- ₹450" || doc.History.Rows[2].Amount != "+ ₹5000" {
		t.Errorf("unexpected amounts %s / %s", doc.History.Rows[0].Amount, doc.History.Rows[2].Amount)
	}

	s.Insight, s.InsightReady = "Groceries dominate.", true
	if got := screen.Render(s, nil).History.Insight; got != "Groceries dominate." {
		t.Errorf("unexpected insight %q", got)
	}
}

func TestRender_Profile(t *testing.T) {
	doc := screen.Render(baseState(domain.ViewProfile), nil)
	p := doc.Profile
	if p.UPIID != "arjun.k@ybl" || p.QRCodeURL != "/v1/profile/qr.png" {
		t.Errorf("unexpected profile %+v", p)
	}
	if len(p.Menu) != 3 || p.Menu[0] != "Bank Accounts" || p.Menu[2] != "Help & Support" {
		t.Errorf("unexpected menu %v", p.Menu)
	}
}
