package report

import (
	"fmt"
	"strings"

	"github.com/pondzashi/SuiPort/internal/domain/entity"
	"github.com/pondzashi/SuiPort/internal/pkg/numeric"
)

// Markdown renders a human-readable summary of one snapshot. Zero wallet
// balances are skipped; sections with nothing to show are omitted entirely.
func Markdown(snap *entity.PortfolioSnapshot) string {
	var b strings.Builder

	b.WriteString("# Portfolio summary\n\n")
	fmt.Fprintf(&b, "**As of:** %s  \n", snap.DateISO)
	fmt.Fprintf(&b, "**Totals (USD):** wallet=%s, lending_net=%s, **portfolio=%s**\n\n",
		money(snap.Totals.WalletSum),
		money(snap.Totals.LendingNet),
		money(snap.Totals.PortfolioTotal))

	if !snap.PriceFeedOK {
		b.WriteString("> Price feed was unreachable for this run; USD columns are empty.\n\n")
	}

	for _, acc := range snap.Accounts {
		fmt.Fprintf(&b, "## Address %s\n\n", acc.Address)
		writeWalletSection(&b, acc)
		writeLendingSection(&b, acc.DeFi.Lending)
		writeErrorSection(&b, acc.FetchErrors)
	}

	return b.String()
}

func writeWalletSection(b *strings.Builder, acc entity.AccountValuation) {
	nonZero := make([]entity.PricedAmount, 0, len(acc.WalletBalances))
	for _, bal := range acc.WalletBalances {
		if bal.HumanBalance > 0 {
			nonZero = append(nonZero, bal)
		}
	}
	if len(nonZero) == 0 {
		return
	}

	b.WriteString("### Wallet balances\n")
	b.WriteString("| Symbol | Balance | USD price | USD value |\n")
	b.WriteString("|---|---:|---:|---:|\n")
	for _, bal := range nonZero {
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
			bal.Symbol,
			money(bal.HumanBalance),
			numeric.FormatMoney(bal.PriceUSD),
			numeric.FormatMoney(bal.ValueUSD))
	}
	fmt.Fprintf(b, "\n**Wallet total (USD):** %s\n\n", money(acc.WalletTotalUSD))
}

func writeLendingSection(b *strings.Builder, lending entity.LendingSummary) {
	if lending.Error != "" {
		fmt.Fprintf(b, "### Lending positions\n\nSnapshot unreadable: %s\n\n", lending.Error)
		return
	}
	if len(lending.Items) == 0 {
		return
	}

	b.WriteString("### Lending positions\n")
	b.WriteString("| Type | Symbol | Amount | USD price | USD value |\n")
	b.WriteString("|---|---|---:|---:|---:|\n")
	for _, it := range lending.Items {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s |\n",
			it.Kind,
			it.Symbol,
			money(it.Amount),
			numeric.FormatMoney(it.PriceUSD),
			numeric.FormatMoney(it.ValueUSD))
	}
	fmt.Fprintf(b, "\n**Deposits:** %s  \n", money(lending.DepositsUSD))
	fmt.Fprintf(b, "**Borrows:** %s  \n", money(lending.BorrowsUSD))
	fmt.Fprintf(b, "**Net:** %s\n\n", money(lending.NetUSD))
}

func writeErrorSection(b *strings.Builder, errs []entity.FetchError) {
	if len(errs) == 0 {
		return
	}
	b.WriteString("### Partial failures\n")
	for _, e := range errs {
		if e.CoinType != "" {
			fmt.Fprintf(b, "- [%s] %s: %s\n", e.Kind, e.CoinType, e.Message)
		} else {
			fmt.Fprintf(b, "- [%s] %s\n", e.Kind, e.Message)
		}
	}
	b.WriteString("\n")
}

func money(v float64) string {
	return numeric.FormatMoney(&v)
}
