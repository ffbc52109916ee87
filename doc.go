// Package journal implements a canonical trade ledger for spot exchange
// trades and derives realized profit and loss per asset using the
// weighted-average-cost method.
//
// Raw trade records, whether parsed from an exchange export file or pulled
// from an exchange API, are normalized (stablecoin quote synonyms collapse
// onto one reference quote asset), given a content-derived identity, and
// ingested into a Store with duplicate detection. Realized PnL is never
// stored state that must be trusted: it is recomputed by replaying a
// symbol's full trade history in (time, id) order, a pure fold that yields
// identical results whether run in one batch or incrementally.
package journal
