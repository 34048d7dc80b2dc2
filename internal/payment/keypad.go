package payment

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// MaxAmountLength bounds the typed amount, separator included.
	MaxAmountLength = 7
	// MaxFractionDigits is the paise precision accepted by the keypad. A
	// third fractional digit is refused at input time so the entered text
	// is always exactly what the receipt shows.
	MaxFractionDigits = 2
	// PINLength is the number of digits of a UPI PIN.
	PINLength = 4
)

// KeypadLayout is the order the client draws the number pad in. The
// trailing key is backspace.
var KeypadLayout = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", ".", "0", "⌫"}

// AmountBuffer is the amount being typed. It never holds more than one
// decimal separator or more than two fractional digits.
type AmountBuffer struct {
	text string
}

// NewAmountBuffer replays initial through the keypad rules, so an invalid
// resume value can never bypass them.
func NewAmountBuffer(initial string) AmountBuffer {
	var b AmountBuffer
	for _, r := range initial {
		b.Press(r)
	}
	return b
}

// Press appends key and reports whether it was accepted.
func (b *AmountBuffer) Press(key rune) bool {
	if len(b.text) >= MaxAmountLength {
		return false
	}
	switch {
	case key == '.':
		if strings.Contains(b.text, ".") {
			return false
		}
	case key >= '0' && key <= '9':
		if i := strings.IndexByte(b.text, '.'); i >= 0 && len(b.text)-i-1 >= MaxFractionDigits {
			return false
		}
	default:
		return false
	}
	b.text += string(key)
	return true
}

// Backspace removes the last character, if any.
func (b *AmountBuffer) Backspace() {
	if b.text != "" {
		b.text = b.text[:len(b.text)-1]
	}
}

func (b AmountBuffer) String() string { return b.text }

// Value parses the buffer. ok is false unless the amount is positive.
func (b AmountBuffer) Value() (decimal.Decimal, bool) {
	text := b.text
	if text == "" || text == "." {
		return decimal.Zero, false
	}
	if strings.HasPrefix(text, ".") {
		text = "0" + text
	}
	d, err := decimal.NewFromString(strings.TrimSuffix(text, "."))
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}

// PINBuffer holds up to PINLength digits.
type PINBuffer struct {
	digits []byte
}

// Press appends a digit and reports whether it was accepted.
func (p *PINBuffer) Press(key rune) bool {
	if key < '0' || key > '9' || len(p.digits) >= PINLength {
		return false
	}
	p.digits = append(p.digits, byte(key))
	return true
}

func (p *PINBuffer) Backspace() {
	if len(p.digits) > 0 {
		p.digits = p.digits[:len(p.digits)-1]
	}
}

// Len is the number of digits entered; the digits themselves are never exposed.
func (p *PINBuffer) Len() int { return len(p.digits) }

func (p *PINBuffer) Complete() bool { return len(p.digits) == PINLength }

// Reset wipes the digits.
func (p *PINBuffer) Reset() {
	for i := range p.digits {
		p.digits[i] = 0
	}
	p.digits = p.digits[:0]
}
