package domain_test

import (
	"errors"
	"testing"

	"github.com/boddenberg/upi-wallet-bfa-go/internal/domain"

	"github.com/shopspring/decimal"
)

func TestParseView(t *testing.T) {
	v, err := domain.ParseView(" history ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if v != domain.ViewHistory {
		t.Errorf("expected HISTORY, got %s", v)
	}

	_, err = domain.ParseView("SETTINGS")
	var validation *domain.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if validation.Field != "view" {
		t.Errorf("expected field 'view', got '%s'", validation.Field)
	}
}

func TestHasBottomNav(t *testing.T) {
	want := map[domain.View]bool{
		domain.ViewHome:    true,
		domain.ViewHistory: true,
		domain.ViewProfile: true,
		domain.ViewScanner: false,
		domain.ViewPayment: false,
		domain.ViewSuccess: false,
	}
	for _, v := range domain.AllViews {
		if got := v.HasBottomNav(); got != want[v] {
			t.Errorf("%s: expected %v, got %v", v, want[v], got)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"250", "250"},
		{"250.00", "250"},
		{"12.5", "12.50"},
		{"0.05", "0.05"},
	}
	for _, tt := range tests {
		if got := domain.FormatAmount(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("FormatAmount(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestSignedDisplay(t *testing.T) {
	debit := domain.Transaction{Amount: decimal.NewFromInt(450), Type: domain.TxDebit}
	credit := domain.Transaction{Amount: decimal.NewFromInt(5000), Type: domain.TxCredit}

	if got := debit.SignedDisplay(); got != "- ₹450" {
		t.Errorf("unexpected debit display %q", got)
	}
	if got := credit.SignedDisplay(); got != "+ ₹5000" {
		t.Errorf("unexpected credit display %q", got)
	}
}

func TestPaymentURI(t *testing.T) {
	got := domain.CurrentUser().PaymentURI()
	if got != "upi://pay?pa=arjun.k%40ybl&pn=Arjun+Kumar" {
		t.Errorf("unexpected uri %q", got)
	}
}

func TestPayeeInitial(t *testing.T) {
	if got := (domain.Payee{Name: "star Bakery"}).Initial(); got != "S" {
		t.Errorf("expected 'S', got '%s'", got)
	}
	if got := (domain.Payee{}).Initial(); got != "?" {
		t.Errorf("expected '?', got '%s'", got)
	}
}

func TestSeedReturnsFreshCopies(t *testing.T) {
	a := domain.RecentTransactions()
	a[0].PayeeName = "changed"

	b := domain.RecentTransactions()
	if b[0].PayeeName != "Fresh Mart" {
		t.Errorf("expected seed to be unaffected, got %s", b[0].PayeeName)
	}
	if len(domain.QuickContacts()) != 4 {
		t.Errorf("expected 4 quick contacts, got %d", len(domain.QuickContacts()))
	}
}
