package reporting

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount with the currency symbol and separators of
// the given ISO code. Unknown codes fall back to the plain decimal.
func FormatMoney(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2) + " " + currency
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), currency).Display()
}

// FormatMoneyFloat is FormatMoney for stored float amounts.
func FormatMoneyFloat(amount float64, currency string) string {
	return FormatMoney(decimal.NewFromFloat(amount), currency)
}
