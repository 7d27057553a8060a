// Package report renders final account balances as CSV.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/payments-engine/internal/model"
)

// Header is the first line of every report.
const Header = "client,available,held,total,locked"

// Write emits the header and one line per account, in the order given.
func Write(w io.Writer, accounts []model.AccountSnapshot) error {
	if _, err := fmt.Fprintln(w, Header); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}

	for _, a := range accounts {
		_, err := fmt.Fprintf(w, "%d,%s,%s,%s,%s\n",
			a.Client,
			FormatAmount(a.Available),
			FormatAmount(a.Held),
			FormatAmount(a.Total),
			strconv.FormatBool(a.Locked),
		)
		if err != nil {
			return fmt.Errorf("failed to write account %d: %w", a.Client, err)
		}
	}

	return nil
}

// FormatAmount renders d with the scale it carries, so 1.50 stays 1.50 and
// 10 stays 10.
func FormatAmount(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}
