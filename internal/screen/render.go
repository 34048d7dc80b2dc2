package screen

import (
	"fmt"
	"net/http"

	"github.com/boddenberg/upi-wallet-bfa-go/internal/domain"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/payment"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/scanner"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/service"
)

// Fixed copy shown by the screens.
const (
	Location          = "Bangalore"
	HintNative        = "Point camera at any UPI QR Code"
	HintSimulated     = "Native scanning unavailable in this browser"
	DemoPromptNative  = "Or try demo modes"
	DemoPromptManual  = "Use simulation to proceed"
	TitleAmount       = "Send Money"
	TitlePIN          = "Enter UPI PIN"
	MissingPayeeMsg   = "Error: No Payee"
	MissingTxMsg      = "Error: No Transaction"
	demoBalance       = "₹ 4,250.00"
	processingTitle   = "Processing Payment"
	successTitle      = "Payment Successful!"
	insightTitle      = "Spending Insight"
	profileQRTitle    = "My QR Code"
	noteHint          = "Add a message (Optional)"
	secureNote        = "UPI PIN is encrypted"
	debitNote         = "Debited from Bank"
	creditNote        = "Credited to Bank"
	referBannerTitle  = "Refer & Earn ₹100"
	referBannerDetail = "Invite your friends to PayPe"
)

// ProfileMenu lists the profile screen's menu entries.
var ProfileMenu = []string{"Bank Accounts", "Privacy & Security", "Help & Support"}

var transferLabels = []string{"To Contact", "To Bank", "To Self", "Check Balance"}

// Render builds the document for s. pulses are haptic durations (ms)
// waiting to be played by the device.
func Render(s service.State, pulses []int) Document {
	doc := Document{
		View:       s.View,
		Activation: s.Activation,
		Haptics:    pulses,
	}
	if s.View.HasBottomNav() {
		doc.BottomNav = bottomNav(s.View)
	}

	switch s.View {
	case domain.ViewHome:
		doc.Home = renderHome(s)
	case domain.ViewScanner:
		doc.Scanner = renderScanner(s)
	case domain.ViewPayment:
		if s.Payee == nil || s.Payment == nil {
			doc.Error = missing(MissingPayeeMsg)
			break
		}
		doc.Payment = renderPayment(*s.Payment)
	case domain.ViewSuccess:
		if s.LastTx == nil {
			doc.Error = missing(MissingTxMsg)
			break
		}
		doc.Success = renderSuccess(*s.LastTx)
	case domain.ViewHistory:
		doc.History = renderHistory(s)
	case domain.ViewProfile:
		doc.Profile = renderProfile(s.User)
	}
	return doc
}

func bottomNav(active domain.View) *BottomNav {
	items := []NavItem{
		{Label: "Home", View: domain.ViewHome},
		{Label: "Scan", View: domain.ViewScanner, Fab: true},
		{Label: "History", View: domain.ViewHistory},
		{Label: "Profile", View: domain.ViewProfile},
	}
	for i := range items {
		items[i].Active = items[i].View == active
	}
	return &BottomNav{Items: items}
}

func renderHome(s service.State) *Home {
	return &Home{
		UserName:     s.User.Name,
		AvatarURL:    s.User.AvatarURL,
		AddressHint:  "Add Address",
		Location:     Location,
		BalanceLabel: "Wallet Balance",
		Balance:      demoBalance,
		TopUpLabel:   "Top Up",
		Transfers:    transferLabels,
		ContactsText: "Send Money To",
		Contacts:     s.Contacts,
		Banner:       Banner{Title: referBannerTitle, Subtitle: referBannerDetail},
		Scan:         openScanner(),
	}
}

func renderScanner(s service.State) *Scanner {
	out := &Scanner{
		Hint: HintSimulated,
		Back: Action{ID: "back", Label: "Back", Enabled: true, Method: http.MethodPost, Path: "/v1/scanner/close"},
	}
	snap := s.Scanner
	if snap == nil {
		out.State = string(scanner.StateAcquiring)
		return out
	}

	out.State = string(snap.State)
	out.Error = snap.Error
	out.NativeSupport = snap.NativeSupport
	out.Analyzing = snap.State == scanner.StateAnalyzing || s.Resolving
	if snap.NativeSupport {
		out.Hint = HintNative
	}
	if snap.State == scanner.StateError {
		return out
	}

	out.DemoPrompt = DemoPromptManual
	if snap.NativeSupport {
		out.DemoPrompt = DemoPromptNative
	}
	out.Demos = []Action{
		simulate(scanner.DemoMerchant, "Merchant QR", snap.CanSimulate),
		simulate(scanner.DemoPersonal, "Personal QR", snap.CanSimulate),
	}
	return out
}

func renderPayment(p payment.Snapshot) *Payment {
	out := &Payment{
		Step: string(p.Step),
		Payee: PayeeCard{
			Initial:  p.Payee.Initial(),
			Name:     p.Payee.Name,
			UPIID:    p.Payee.UPIID,
			BankLine: "Banking with " + p.Payee.BankName,
			Verified: p.Payee.IsVerified,
		},
	}

	switch p.Step {
	case payment.StepAmount:
		out.Title = TitleAmount
		out.Currency = "₹"
		out.Amount = p.Amount
		if out.Amount == "" {
			out.Amount = "0"
		}
		out.NoteHint = noteHint
		out.Keypad = payment.KeypadLayout
		out.Primary = &Action{ID: "proceed", Label: "Proceed to Pay", Enabled: p.CanProceed, Method: http.MethodPost, Path: "/v1/payment/proceed"}
		out.Back = &Action{ID: "back", Label: "Back", Enabled: true, Method: http.MethodPost, Path: "/v1/payment/back"}

	case payment.StepPIN:
		out.Title = TitlePIN
		out.PINDots = make([]bool, payment.PINLength)
		for i := 0; i < p.PINLength && i < payment.PINLength; i++ {
			out.PINDots[i] = true
		}
		out.SecureNote = secureNote
		out.Keypad = payment.KeypadLayout
		out.Primary = &Action{ID: "submit", Label: "SUBMIT", Enabled: p.CanSubmit, Method: http.MethodPost, Path: "/v1/payment/submit"}
		out.Back = &Action{ID: "back", Label: "Back", Enabled: true, Method: http.MethodPost, Path: "/v1/payment/back"}

	default:
		out.Title = TitlePIN
		out.Processing = &Processing{
			Title:  processingTitle,
			Detail: fmt.Sprintf("Connecting securely to %s...", p.Payee.BankName),
		}
	}
	return out
}

func renderSuccess(tx domain.Transaction) *Success {
	return &Success{
		Title:         successTitle,
		TransactionID: tx.ID,
		Amount:        "₹ " + domain.FormatAmount(tx.Amount),
		PaidTo:        tx.PayeeName,
		UPIID:         tx.PayeeUPI,
		Date:          tx.Date,
		Done:          navigate("done", "Done", domain.ViewHome),
	}
}

func renderHistory(s service.State) *History {
	out := &History{
		Title:        "History",
		InsightTitle: insightTitle,
		Insight:      service.InsightPlaceholder,
		InsightReady: s.InsightReady,
		Rows:         make([]HistoryRow, 0, len(s.History)),
	}
	if s.InsightReady && s.Insight != "" {
		out.Insight = s.Insight
	}
	for _, tx := range s.History {
		note := debitNote
		if tx.Type == domain.TxCredit {
			note = creditNote
		}
		out.Rows = append(out.Rows, HistoryRow{
			ID:        tx.ID,
			PayeeName: tx.PayeeName,
			Date:      tx.Date,
			Amount:    tx.SignedDisplay(),
			Direction: string(tx.Type),
			Note:      note,
		})
	}
	return out
}

func renderProfile(u domain.User) *Profile {
	return &Profile{
		Title:     "My Profile",
		Name:      u.Name,
		Mobile:    u.Mobile,
		UPIID:     u.UPIID,
		AvatarURL: u.AvatarURL,
		QRTitle:   profileQRTitle,
		QRCodeURL: u.QRCodeURL,
		Menu:      ProfileMenu,
		LogOut:    Action{ID: "logout", Label: "Log Out", Enabled: true, Method: http.MethodDelete, Path: "/v1/sessions"},
	}
}

func missing(msg string) *InlineError {
	return &InlineError{Message: msg, Action: navigate("home", "Go Home", domain.ViewHome)}
}

func navigate(id, label string, view domain.View) Action {
	return Action{
		ID:      id,
		Label:   label,
		Enabled: true,
		Method:  http.MethodPost,
		Path:    "/v1/navigate",
		Body:    map[string]string{"view": string(view)},
	}
}

func openScanner() Action {
	return Action{
		ID:      "scan",
		Label:   "Scan",
		Enabled: true,
		Method:  http.MethodPost,
		Path:    "/v1/scanner/open",
	}
}

func simulate(kind scanner.DemoKind, label string, enabled bool) Action {
	return Action{
		ID:      "simulate-" + string(kind),
		Label:   label,
		Enabled: enabled,
		Method:  http.MethodPost,
		Path:    "/v1/scanner/simulate",
		Body:    map[string]string{"kind": string(kind)},
	}
}
