// Package money formats Rupiah amounts for user-facing messages. Budgets
// are stored as whole Rupiah in int64; no fractional units exist.
package money

import "strconv"

// FormatIDR renders an amount as Indonesian Rupiah with dot thousand
// separators, e.g. 10000000 -> "Rp 10.000.000".
func FormatIDR(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, d)
	}

	prefix := "Rp "
	if negative {
		prefix = "-Rp "
	}
	return prefix + string(out)
}
