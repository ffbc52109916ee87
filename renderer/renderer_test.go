package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	journal "github.com/tti6o/trading-journal-cli"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString(s)
}

func TestFormatQuote(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"0", "0.00 USDT"},
		{"1234.567", "1,234.57 USDT"},
		{"-50", "-50.00 USDT"},
	}
	for _, tc := range testCases {
		if got := FormatQuote(dec(t, tc.in)); got != tc.want {
			t.Errorf("FormatQuote(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSignedQuote(t *testing.T) {
	if got := SignedQuote(dec(t, "0")); got != "-" {
		t.Errorf("SignedQuote(0) = %q, want -", got)
	}
	if got := SignedQuote(dec(t, "100")); !strings.HasPrefix(got, "+") {
		t.Errorf("SignedQuote(100) = %q, want a + prefix", got)
	}
	if got := SignedQuote(dec(t, "-100")); !strings.HasPrefix(got, "-") {
		t.Errorf("SignedQuote(-100) = %q, want a - prefix", got)
	}
}

func summaryFixture(t *testing.T) journal.Summary {
	t.Helper()
	var s journal.Summary
	s.Trades, s.Buys, s.Sells = 3, 1, 2
	s.BuyVolume = dec(t, "500")
	s.SellVolume = dec(t, "650")
	s.RealizedPnL = dec(t, "150")
	s.FeeAdjustedPnL = dec(t, "147")
	s.Fees = dec(t, "3")
	s.ScoredSells, s.WinningSells, s.WinRate = 2, 1, 0.5
	s.ProfitFactor = journal.ProfitFactor{Ratio: dec(t, "4"), Defined: true}
	s.Holdings = []journal.Holding{{
		Symbol:      "XRPUSDT",
		Quantity:    dec(t, "500"),
		AverageCost: dec(t, "0.5"),
		Value:       dec(t, "250"),
	}}
	s.From = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	s.To = time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	return s
}

func TestSummaryMarkdown(t *testing.T) {
	md := SummaryMarkdown(summaryFixture(t))

	for _, want := range []string{
		"# Trading Performance Summary",
		"2024-03-01 to 2024-03-02",
		"3 (1 buys, 2 sells)",
		"+150.00 USDT",
		"50.0%",
		"4.00",
		"## Current Holdings",
		"XRPUSDT",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("summary missing %q:\n%s", want, md)
		}
	}
}

func TestSummaryMarkdownInfiniteProfitFactor(t *testing.T) {
	s := summaryFixture(t)
	s.ProfitFactor = journal.ProfitFactor{}
	md := SummaryMarkdown(s)
	if !strings.Contains(md, "∞") {
		t.Errorf("summary does not report the undefined profit factor:\n%s", md)
	}
}

func TestTradesMarkdown(t *testing.T) {
	pnl := dec(t, "50")
	trades := []journal.Trade{
		{
			Time:          time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
			Symbol:        "XRPUSDT",
			Side:          journal.Buy,
			Price:         dec(t, "0.5"),
			Quantity:      dec(t, "1000"),
			QuoteQuantity: dec(t, "500"),
		},
		{
			Time:          time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			Symbol:        "XRPUSDT",
			Side:          journal.Sell,
			Price:         dec(t, "0.6"),
			Quantity:      dec(t, "500"),
			QuoteQuantity: dec(t, "300"),
			RealizedPnL:   &pnl,
			ShortPosition: true,
		},
	}
	md := TradesMarkdown("Trades", trades)

	if !strings.Contains(md, "| 2024-03-01 09:00:00 | XRPUSDT | BUY |") {
		t.Errorf("missing buy row:\n%s", md)
	}
	if !strings.Contains(md, "(short)") {
		t.Errorf("short sell not marked:\n%s", md)
	}

	if got := TradesMarkdown("Trades", nil); !strings.Contains(got, "No trades recorded.") {
		t.Errorf("empty listing = %q", got)
	}
}

func TestAssetMarkdownWalkthrough(t *testing.T) {
	pnl := dec(t, "4500")
	steps := []journal.Step{
		{
			Trade: journal.Trade{
				Time: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), Side: journal.Buy,
				Price: dec(t, "20000"), Quantity: dec(t, "1"),
			},
			Quantity: dec(t, "1"), AverageCost: dec(t, "20000"),
		},
		{
			Trade: journal.Trade{
				Time: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), Side: journal.Sell,
				Price: dec(t, "28000"), Quantity: dec(t, "1.5"),
			},
			RealizedPnL: &pnl,
			Quantity:    dec(t, "-0.5"), AverageCost: dec(t, "20000"),
		},
	}
	s := journal.Summary{Trades: 2, Buys: 1, Sells: 1}
	s.BoughtQuantity = dec(t, "1")
	s.SoldQuantity = dec(t, "1.5")
	s.RealizedPnL = dec(t, "4500")
	s.FeeAdjustedPnL = dec(t, "4500")

	md := AssetMarkdown("BTC", s, steps)
	for _, want := range []string{
		"# Asset Report: BTC",
		"## Position Walkthrough",
		"+4,500.00 USDT",
		"Open position: -0.5",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("asset report missing %q:\n%s", want, md)
		}
	}
}

func TestPnLMarkdown(t *testing.T) {
	total := summaryFixture(t)
	md := PnLMarkdown(total, map[string]journal.Summary{"XRPUSDT": total})
	for _, want := range []string{"# Realized PnL Report", "| XRPUSDT |", "**Total**"} {
		if !strings.Contains(md, want) {
			t.Errorf("pnl report missing %q:\n%s", want, md)
		}
	}
}
