// Package screen renders the controller state into the JSON documents the
// device draws. Rendering is pure: the same state always yields the same
// document.
package screen

import "github.com/boddenberg/upi-wallet-bfa-go/internal/domain"

// Document is one rendered screen. Exactly one of the per-view sections,
// or Error, is set.
type Document struct {
	View       domain.View  `json:"view"`
	Activation uint64       `json:"activation"`
	BottomNav  *BottomNav   `json:"bottomNav,omitempty"`
	Haptics    []int        `json:"haptics,omitempty"`
	Error      *InlineError `json:"error,omitempty"`

	Home    *Home    `json:"home,omitempty"`
	Scanner *Scanner `json:"scanner,omitempty"`
	Payment *Payment `json:"payment,omitempty"`
	Success *Success `json:"success,omitempty"`
	History *History `json:"history,omitempty"`
	Profile *Profile `json:"profile,omitempty"`
}

// Action is something the user can trigger. Method and Path name the API
// call the client makes for it.
type Action struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
	Method  string `json:"method"`
	Path    string `json:"path"`
	Body    any    `json:"body,omitempty"`
}

// InlineError replaces a screen whose precondition is missing.
type InlineError struct {
	Message string `json:"message"`
	Action  Action `json:"action"`
}

type BottomNav struct {
	Items []NavItem `json:"items"`
}

type NavItem struct {
	Label  string      `json:"label"`
	View   domain.View `json:"view"`
	Active bool        `json:"active"`
	Fab    bool        `json:"fab,omitempty"`
}

type Home struct {
	UserName     string                `json:"userName"`
	AvatarURL    string                `json:"avatarUrl"`
	AddressHint  string                `json:"addressHint"`
	Location     string                `json:"location"`
	BalanceLabel string                `json:"balanceLabel"`
	Balance      string                `json:"balance"`
	TopUpLabel   string                `json:"topUpLabel"`
	Transfers    []string              `json:"transfers"`
	ContactsText string                `json:"contactsTitle"`
	Contacts     []domain.QuickContact `json:"contacts"`
	Banner       Banner                `json:"banner"`
	Scan         Action                `json:"scan"`
}

type Banner struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

type Scanner struct {
	State         string   `json:"state"`
	Error         string   `json:"error,omitempty"`
	NativeSupport bool     `json:"nativeSupport"`
	Analyzing     bool     `json:"analyzing"`
	Hint          string   `json:"hint"`
	DemoPrompt    string   `json:"demoPrompt,omitempty"`
	Demos         []Action `json:"demos,omitempty"`
	Back          Action   `json:"back"`
}

type PayeeCard struct {
	Initial  string `json:"initial"`
	Name     string `json:"name"`
	UPIID    string `json:"upiId"`
	BankLine string `json:"bankLine"`
	Verified bool   `json:"verified"`
}

type Payment struct {
	Title      string      `json:"title"`
	Step       string      `json:"step"`
	Payee      PayeeCard   `json:"payee"`
	Currency   string      `json:"currency,omitempty"`
	Amount     string      `json:"amount,omitempty"`
	NoteHint   string      `json:"noteHint,omitempty"`
	PINDots    []bool      `json:"pinDots,omitempty"`
	SecureNote string      `json:"secureNote,omitempty"`
	Keypad     []string    `json:"keypad,omitempty"`
	Processing *Processing `json:"processing,omitempty"`
	Primary    *Action     `json:"primary,omitempty"`
	Back       *Action     `json:"back,omitempty"`
}

type Processing struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

type Success struct {
	Title         string `json:"title"`
	TransactionID string `json:"transactionId"`
	Amount        string `json:"amount"`
	PaidTo        string `json:"paidTo"`
	UPIID         string `json:"upiId"`
	Date          string `json:"date"`
	Done          Action `json:"done"`
}

type History struct {
	Title        string       `json:"title"`
	InsightTitle string       `json:"insightTitle"`
	Insight      string       `json:"insight"`
	InsightReady bool         `json:"insightReady"`
	Rows         []HistoryRow `json:"rows"`
}

type HistoryRow struct {
	ID        string `json:"id"`
	PayeeName string `json:"payeeName"`
	Date      string `json:"date"`
	Amount    string `json:"amount"`
	Direction string `json:"direction"`
	Note      string `json:"note"`
}

type Profile struct {
	Title     string   `json:"title"`
	Name      string   `json:"name"`
	Mobile    string   `json:"mobile"`
	UPIID     string   `json:"upiId"`
	AvatarURL string   `json:"avatarUrl"`
	QRTitle   string   `json:"qrTitle"`
	QRCodeURL string   `json:"qrCodeUrl"`
	Menu      []string `json:"menu"`
	LogOut    Action   `json:"logOut"`
}
