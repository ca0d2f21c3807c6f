// Package receipt renders a check aggregate as customer-facing output.
// Both renderers are pure: no I/O, no failure modes for a valid aggregate.
package receipt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/wesglu/checkbox/internal/model"

	"github.com/shopspring/decimal"
)

// width is the fixed column count of the plain-text layout.
const width = 40

// Text renders the 40-column plain-text receipt:
//
//	           owner name
//	========================================
//	2 x 10 000.00
//	position name                  20 000.00
//	----------------------------------------
//	СУМА                           20 000.00
//	Готівка                        25 000.00
//	Решта                           5 000.00
//	========================================
//
//	            01.02.2026 14:05
//	         Дякуємо за покупку!
func Text(check *model.Check) string {
	var lines []string

	ownerName := ""
	if check.User != nil {
		ownerName = check.User.Name
	}
	lines = append(lines, center(ownerName))
	lines = append(lines, strings.Repeat("=", width))

	for _, p := range check.Positions {
		lines = append(lines, fmt.Sprintf("%d x %s", p.Quantity, formatAmount(p.Price)))
		lines = append(lines, itemLine(p.Name, formatAmount(p.Total)))
		lines = append(lines, strings.Repeat("-", width))
	}

	lines = append(lines, itemLine("СУМА", formatAmount(check.Total)))
	lines = append(lines, itemLine(paymentLabel(check.Payment.Type), formatAmount(check.Payment.Amount)))
	lines = append(lines, itemLine("Решта", formatAmount(check.Rest)))
	lines = append(lines, strings.Repeat("=", width))

	lines = append(lines, "")
	lines = append(lines, center(check.CreatedAt.Format("02.01.2006 15:04")))
	lines = append(lines, center("Дякуємо за покупку!"))

	return strings.Join(lines, "\n")
}

func paymentLabel(t model.PaymentType) string {
	if t == model.PaymentCashless {
		return "Картка"
	}
	return "Готівка"
}

// itemLine lays out a name with a right-aligned amount. Long names push the
// amount onto its own line.
func itemLine(name, total string) string {
	if utf8.RuneCountInString(name) > 20 || utf8.RuneCountInString(total) > 15 {
		return name + "\n" + rightAlign(total, width)
	}
	return leftAlign(name, 25) + rightAlign(total, 15)
}

// formatAmount renders a money value with two decimals and space-separated
// thousands groups: 1234567.8 → "1 234 567.80".
func formatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := strings.Join(groups, " ") + "." + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

func center(s string) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	left := (width - n) / 2
	right := width - n - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

func leftAlign(s string, w int) string {
	n := utf8.RuneCountInString(s)
	if n >= w {
		return s
	}
	return s + strings.Repeat(" ", w-n)
}

func rightAlign(s string, w int) string {
	n := utf8.RuneCountInString(s)
	if n >= w {
		return s
	}
	return strings.Repeat(" ", w-n) + s
}
