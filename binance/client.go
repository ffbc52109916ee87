package binance

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	gobinance "github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	journal "github.com/tti6o/trading-journal-cli"
)

// SourceAPI tags records pulled from the exchange REST API.
const SourceAPI = "binance-api"

// tradesPerRequest is the exchange maximum for a single myTrades call.
const tradesPerRequest = 1000

// commonQuotes are the quote assets tried when guessing pairs from account
// balances.
var commonQuotes = []string{"USDT", "FDUSD", "USDC", "BTC", "ETH", "BNB"}

// commonSymbols is the last-resort symbol list when the account has neither
// trade history nor balances to infer pairs from.
var commonSymbols = []string{
	"BTCUSDT", "ETHUSDT", "BNBUSDT", "SOLUSDT", "XRPUSDT", "DOGEUSDT",
	"BTCFDUSD", "ETHFDUSD", "XRPFDUSD",
}

// Client fetches account trades from the Binance spot REST API. Requests
// are paced with a rate limiter so a deep first sync stays inside the
// exchange request-weight budget.
type Client struct {
	api     *gobinance.Client
	limiter *rate.Limiter
	log     *logrus.Entry
}

// NewClient creates an authenticated API client.
func NewClient(apiKey, apiSecret string) *Client {
	return &Client{
		api:     gobinance.NewClient(apiKey, apiSecret),
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
		log:     logrus.WithField("component", "binance"),
	}
}

// Ping verifies connectivity and credentials cheaply.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	if err := c.api.NewPingService().Do(ctx); err != nil {
		return fmt.Errorf("ping exchange: %w", err)
	}
	return nil
}

// SyncOptions bounds an incremental sync.
type SyncOptions struct {
	// Symbols to fetch explicitly. When empty the client discovers them.
	Symbols []string
	// Since is the lower bound for trade times. Zero means the exchange
	// default window.
	Since time.Time
	// KnownSymbols are exchange pairs already present in the ledger; they
	// seed discovery so previously traded pairs are always re-checked.
	KnownSymbols []string
}

// FetchTrades pulls account trades for the resolved symbol set and returns
// them as raw records, newest sync watermark included. Symbols with no
// trades in the window are skipped silently; a per-symbol API failure is
// logged and does not abort the other symbols.
func (c *Client) FetchTrades(ctx context.Context, opts SyncOptions) ([]journal.RawTradeRecord, time.Time, error) {
	symbols, err := c.resolveSymbols(ctx, opts)
	if err != nil {
		return nil, time.Time{}, err
	}
	c.log.WithField("symbols", len(symbols)).Info("syncing account trades")

	var (
		records []journal.RawTradeRecord
		newest  time.Time
	)
	for _, symbol := range symbols {
		recs, err := c.fetchSymbol(ctx, symbol, opts.Since)
		if err != nil {
			if ctx.Err() != nil {
				return records, newest, ctx.Err()
			}
			c.log.WithError(err).WithField("symbol", symbol).Warn("symbol sync failed, skipping")
			continue
		}
		for _, r := range recs {
			if r.Time.After(newest) {
				newest = r.Time
			}
		}
		records = append(records, recs...)
	}
	return records, newest, nil
}

// fetchSymbol pages through myTrades for one pair, walking forward by
// trade id so no fill is missed between pages.
func (c *Client) fetchSymbol(ctx context.Context, symbol string, since time.Time) ([]journal.RawTradeRecord, error) {
	var (
		records []journal.RawTradeRecord
		fromID  int64 = -1
	)
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return records, err
		}
		svc := c.api.NewListTradesService().Symbol(symbol).Limit(tradesPerRequest)
		if fromID >= 0 {
			svc = svc.FromID(fromID)
		} else if !since.IsZero() {
			svc = svc.StartTime(since.UnixMilli())
		}
		fills, err := svc.Do(ctx)
		if err != nil {
			return records, fmt.Errorf("list trades for %s: %w", symbol, err)
		}
		for _, fill := range fills {
			rec, err := recordFromFill(symbol, fill)
			if err != nil {
				c.log.WithError(err).WithField("symbol", symbol).Warn("bad fill payload, skipping")
				continue
			}
			records = append(records, rec)
		}
		if len(fills) < tradesPerRequest {
			return records, nil
		}
		fromID = fills[len(fills)-1].ID + 1
	}
}

func recordFromFill(symbol string, fill *gobinance.TradeV3) (journal.RawTradeRecord, error) {
	price, err := decimal.NewFromString(fill.Price)
	if err != nil {
		return journal.RawTradeRecord{}, fmt.Errorf("bad price %q", fill.Price)
	}
	quantity, err := decimal.NewFromString(fill.Quantity)
	if err != nil {
		return journal.RawTradeRecord{}, fmt.Errorf("bad quantity %q", fill.Quantity)
	}
	quoteQuantity, err := decimal.NewFromString(fill.QuoteQuantity)
	if err != nil {
		return journal.RawTradeRecord{}, fmt.Errorf("bad quote quantity %q", fill.QuoteQuantity)
	}
	fee, err := decimal.NewFromString(fill.Commission)
	if err != nil {
		return journal.RawTradeRecord{}, fmt.Errorf("bad commission %q", fill.Commission)
	}
	side := "SELL"
	if fill.IsBuyer {
		side = "BUY"
	}
	return journal.RawTradeRecord{
		Time:          time.UnixMilli(fill.Time).UTC(),
		Pair:          symbol,
		Side:          side,
		Price:         price,
		Quantity:      quantity,
		QuoteQuantity: quoteQuantity,
		Fee:           fee,
		FeeCurrency:   fill.CommissionAsset,
		Source:        SourceAPI,
	}, nil
}

// resolveSymbols picks the pairs to sync. Three strategies, in order:
// explicit configuration plus pairs already in the ledger, then pairs
// guessed from non-zero account balances, then a fixed common-pair list.
func (c *Client) resolveSymbols(ctx context.Context, opts SyncOptions) ([]string, error) {
	seen := make(map[string]bool)
	var symbols []string
	add := func(s string) {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" && !seen[s] {
			seen[s] = true
			symbols = append(symbols, s)
		}
	}
	for _, s := range opts.Symbols {
		add(s)
	}
	for _, s := range opts.KnownSymbols {
		add(s)
	}
	if len(symbols) > 0 {
		slices.Sort(symbols)
		return symbols, nil
	}

	balances, err := c.nonZeroAssets(ctx)
	if err != nil {
		c.log.WithError(err).Warn("balance lookup failed, falling back to common pairs")
	}
	for _, asset := range balances {
		for _, quote := range commonQuotes {
			if asset != quote {
				add(asset + quote)
			}
		}
	}
	if len(symbols) > 0 {
		slices.Sort(symbols)
		return symbols, nil
	}

	c.log.Info("no history or balances found, trying common pairs")
	return slices.Clone(commonSymbols), nil
}

func (c *Client) nonZeroAssets(ctx context.Context) ([]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	account, err := c.api.NewGetAccountService().Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	var assets []string
	for _, b := range account.Balances {
		free, err1 := strconv.ParseFloat(b.Free, 64)
		locked, err2 := strconv.ParseFloat(b.Locked, 64)
		if err1 != nil || err2 != nil {
			continue
		}
		if free+locked > 0 {
			assets = append(assets, strings.ToUpper(b.Asset))
		}
	}
	return assets, nil
}

// Candle is one OHLCV bar used by the indicator pipeline.
type Candle struct {
	OpenTime time.Time
	Open     decimal.Decimal
	High     decimal.Decimal
	Low      decimal.Decimal
	Close    decimal.Decimal
	Volume   decimal.Decimal
}

// Klines fetches recent candles for one pair. Interval follows the exchange
// notation ("1h", "4h", "1d").
func (c *Client) Klines(ctx context.Context, symbol, interval string, limit int) ([]Candle, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	raw, err := c.api.NewKlinesService().Symbol(symbol).Interval(interval).Limit(limit).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("klines %s %s: %w", symbol, interval, err)
	}
	candles := make([]Candle, 0, len(raw))
	for _, k := range raw {
		candle, err := candleFromKline(k)
		if err != nil {
			return nil, fmt.Errorf("klines %s: %w", symbol, err)
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

func candleFromKline(k *gobinance.Kline) (Candle, error) {
	c := Candle{OpenTime: time.UnixMilli(k.OpenTime).UTC()}
	var err error
	parse := func(name, raw string) decimal.Decimal {
		d, e := decimal.NewFromString(raw)
		if e != nil && err == nil {
			err = fmt.Errorf("bad %s %q", name, raw)
		}
		return d
	}
	c.Open = parse("open", k.Open)
	c.High = parse("high", k.High)
	c.Low = parse("low", k.Low)
	c.Close = parse("close", k.Close)
	c.Volume = parse("volume", k.Volume)
	return c, err
}
