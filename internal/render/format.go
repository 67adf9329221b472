package render

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Dash is the placeholder for absent values in rendered reports.
const Dash = "—"

// FormatMoney renders a decimal amount in pt-BR convention with two
// fraction digits, e.g. 1234.5 -> "1.234,56". Formatting is display-only;
// aggregation never goes through this path.
func FormatMoney(v decimal.Decimal) string {
	fixed := v.StringFixed(2)

	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	return b.String()
}

// FormatMoneyPtr renders an optional amount, Dash when absent.
func FormatMoneyPtr(v *decimal.Decimal) string {
	if v == nil {
		return Dash
	}
	return "R$ " + FormatMoney(*v)
}

// FormatData renders a date as dd/mm/yyyy.
func FormatData(t time.Time) string {
	return t.Format("02/01/2006")
}

// FormatDataPtr renders an optional date, Dash when absent.
func FormatDataPtr(t *time.Time) string {
	if t == nil {
		return Dash
	}
	return FormatData(*t)
}

// FormatHora renders the time-of-day portion of a timestamp.
func FormatHora(t time.Time) string {
	return t.Format("15:04")
}

// FormatCNPJ renders a bare CNPJ as XX.XXX.XXX/XXXX-XX. Values that are
// not 14 digits long are returned untouched.
func FormatCNPJ(cnpj string) string {
	if cnpj == "" {
		return Dash
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, cnpj)
	if len(digits) != 14 {
		return cnpj
	}
	return digits[0:2] + "." + digits[2:5] + "." + digits[5:8] + "/" + digits[8:12] + "-" + digits[12:14]
}

// OrDash substitutes Dash for empty strings.
func OrDash(s string) string {
	if s == "" {
		return Dash
	}
	return s
}
