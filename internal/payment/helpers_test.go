package payment_test

import (
	"testing"

	"github.com/shopspring/decimal"
)

func testDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}
