package journal

import (
	"fmt"
	"slices"
	"strings"
)

// ReferenceQuote is the quote asset all stablecoin synonyms collapse onto.
const ReferenceQuote = "USDT"

// defaultSynonyms are the quote currencies treated as economically identical
// to the reference quote.
var defaultSynonyms = []string{"FDUSD", "USDC", "BUSD", "DAI", "TUSD"}

// knownQuotes are quote suffixes recognized when extracting the base asset
// of a symbol that is not on a stablecoin quote.
var knownQuotes = []string{"USDT", "BTC", "ETH", "BNB"}

// SynonymTable maps stablecoin quote-currency suffixes onto one reference
// quote asset so that economically identical pairs (BTCUSDT, BTCFDUSD, ...)
// share a single canonical symbol. The zero value is not usable; construct
// one with NewSynonymTable or DefaultSynonyms.
//
// Normalization is a pure, total function over the table: the same input
// always yields the same output, and every non-empty pair string yields
// either a canonical symbol or a validation error.
type SynonymTable struct {
	reference string
	synonyms  []string // sorted by length, longest first
}

// NewSynonymTable builds a table collapsing the given synonyms onto the
// reference quote asset. Extra synonyms can come from configuration; no code
// change is needed to extend the mapping.
func NewSynonymTable(reference string, synonyms []string) SynonymTable {
	t := SynonymTable{reference: strings.ToUpper(reference)}
	for _, s := range synonyms {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || s == t.reference || slices.Contains(t.synonyms, s) {
			continue
		}
		t.synonyms = append(t.synonyms, s)
	}
	// Longest first, so that a suffix match never mis-splits a pair whose
	// quote embeds a shorter synonym.
	slices.SortFunc(t.synonyms, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})
	return t
}

// DefaultSynonyms returns the built-in stablecoin table: FDUSD, USDC, BUSD,
// DAI and TUSD collapse onto USDT.
func DefaultSynonyms() SynonymTable {
	return NewSynonymTable(ReferenceQuote, defaultSynonyms)
}

// Reference returns the reference quote asset.
func (t SynonymTable) Reference() string { return t.reference }

// Extend returns a copy of the table with extra synonym currencies added.
func (t SynonymTable) Extend(synonyms ...string) SynonymTable {
	return NewSynonymTable(t.reference, append(slices.Clone(t.synonyms), synonyms...))
}

// Normalize canonicalizes a trading-pair string. It accepts concatenated
// ("XRPFDUSD") and delimited ("XRP/FDUSD") forms. Pairs already quoted in
// the reference asset pass through unchanged ("BTCUSDT" stays "BTCUSDT",
// it is never split as "BTCU"+"SDT"); pairs quoted in a synonym are rewritten
// onto the reference; unknown quote suffixes pass through unchanged.
func (t SynonymTable) Normalize(pair string) (string, error) {
	p := strings.ToUpper(strings.TrimSpace(pair))

	if base, quote, ok := strings.Cut(p, "/"); ok {
		base, quote = strings.TrimSpace(base), strings.TrimSpace(quote)
		if base == "" || quote == "" {
			return "", newValidationError("symbol", fmt.Sprintf("unparseable pair %q", pair))
		}
		if slices.Contains(t.synonyms, quote) {
			quote = t.reference
		}
		return base + quote, nil
	}

	if p == "" {
		return "", newValidationError("symbol", "empty symbol")
	}

	// Reference quote wins over any synonym match: the pair is already
	// canonical.
	if base, found := strings.CutSuffix(p, t.reference); found {
		if base == "" {
			return "", newValidationError("symbol", fmt.Sprintf("pair %q has no base asset", pair))
		}
		return p, nil
	}
	// Longest synonym match, to avoid mis-splitting on a shorter suffix.
	for _, syn := range t.synonyms {
		if base, found := strings.CutSuffix(p, syn); found {
			if base == "" {
				return "", newValidationError("symbol", fmt.Sprintf("pair %q has no base asset", pair))
			}
			return base + t.reference, nil
		}
	}
	// Unknown quote: pass through.
	return p, nil
}

// NormalizeAsset collapses a single currency code onto the reference quote
// when it is a known synonym; other codes pass through. Used for fee
// currencies.
func (t SynonymTable) NormalizeAsset(currency string) string {
	c := strings.ToUpper(strings.TrimSpace(currency))
	if c == t.reference || slices.Contains(t.synonyms, c) {
		return t.reference
	}
	return c
}

// BaseAsset extracts the base asset of a canonical symbol by stripping the
// known quote suffixes ("XRPUSDT" -> "XRP"). Symbols with an unrecognized
// quote are returned as-is.
func (t SynonymTable) BaseAsset(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	for _, quote := range knownQuotes {
		if base, found := strings.CutSuffix(s, quote); found && base != "" {
			return base
		}
	}
	for _, syn := range t.synonyms {
		if base, found := strings.CutSuffix(s, syn); found && base != "" {
			return base
		}
	}
	return s
}
