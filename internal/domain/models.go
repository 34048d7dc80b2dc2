// Package domain defines the core entities of the wallet demo.
// These models are independent of transport and external services and
// represent the canonical data structures used throughout the BFA.
package domain

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// ============================================================
// Screens
// ============================================================

// View identifies the screen currently shown to the device.
// It is the single source of truth for "what is on screen".
type View string

const (
	ViewHome    View = "HOME"
	ViewScanner View = "SCANNER"
	ViewPayment View = "PAYMENT"
	ViewHistory View = "HISTORY"
	ViewProfile View = "PROFILE"
	ViewSuccess View = "SUCCESS"
)

// AllViews lists every screen in declaration order.
var AllViews = []View{ViewHome, ViewScanner, ViewPayment, ViewHistory, ViewProfile, ViewSuccess}

// ParseView converts a client-supplied screen name into a View.
func ParseView(s string) (View, error) {
	v := View(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllViews {
		if v == known {
			return v, nil
		}
	}
	return "", &ErrValidation{Field: "view", Message: fmt.Sprintf("unknown view %q", s)}
}

// HasBottomNav reports whether the tab bar is shown on this view.
func (v View) HasBottomNav() bool {
	return v == ViewHome || v == ViewHistory || v == ViewProfile
}

// ============================================================
// Users & Payees
// ============================================================

// User is the wallet owner. It is a seed value and never mutated at runtime.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Mobile    string `json:"mobile"`
	UPIID     string `json:"upiId"`
	AvatarURL string `json:"avatarUrl"`
	QRCodeURL string `json:"qrCodeUrl"`
}

// PaymentURI is the upi://pay link encoded in the user's receive QR code.
func (u User) PaymentURI() string {
	q := url.Values{}
	q.Set("pa", u.UPIID)
	q.Set("pn", u.Name)
	return "upi://pay?" + q.Encode()
}

// Payee is a resolved payment counterparty. A fresh Payee is created each
// time a scan is resolved and is owned by the active payment flow.
type Payee struct {
	Name       string `json:"name"`
	UPIID      string `json:"upiId"`
	BankName   string `json:"bankName,omitempty"`
	IsVerified bool   `json:"isVerified,omitempty"`
	Category   string `json:"category,omitempty"`
}

// Initial returns the first letter of the payee name, used as an avatar.
func (p Payee) Initial() string {
	for _, r := range p.Name {
		return strings.ToUpper(string(r))
	}
	return "?"
}

// QuickContact is an entry of the home screen's quick-pay row.
type QuickContact struct {
	Name     string `json:"name"`
	ImageURL string `json:"img"`
}

// ============================================================
// Transactions
// ============================================================

// TxStatus is the settlement state of a transaction.
type TxStatus string

const (
	TxStatusSuccess TxStatus = "SUCCESS"
	TxStatusFailed  TxStatus = "FAILED"
	TxStatusPending TxStatus = "PENDING"
)

// TxType is the direction of a transaction from the user's point of view.
type TxType string

const (
	TxDebit  TxType = "DEBIT"
	TxCredit TxType = "CREDIT"
)

// Transaction is an immutable record of a completed transfer.
// Once appended to the history it is never mutated or removed.
type Transaction struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	PayeeName string          `json:"payeeName"`
	PayeeUPI  string          `json:"payeeUpi"`
	Date      string          `json:"date"`
	Status    TxStatus        `json:"status"`
	Type      TxType          `json:"type"`
}

// FormatAmount renders an amount for display: whole rupees without
// decimals, fractional amounts with exactly two.
func FormatAmount(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return d.StringFixed(0)
	}
	return d.StringFixed(2)
}

// SignedDisplay renders the amount as shown in the history list, e.g. "- ₹450".
func (t Transaction) SignedDisplay() string {
	sign := "-"
	if t.Type == TxCredit {
		sign = "+"
	}
	return fmt.Sprintf("%s ₹%s", sign, FormatAmount(t.Amount))
}
