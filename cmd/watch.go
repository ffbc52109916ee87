package cmd

import (
	"context"
	"flag"
	"time"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"

	journal "github.com/tti6o/trading-journal-cli"
	"github.com/tti6o/trading-journal-cli/binance"
	"github.com/tti6o/trading-journal-cli/config"
	"github.com/tti6o/trading-journal-cli/notify"
	"github.com/tti6o/trading-journal-cli/renderer"
	"github.com/tti6o/trading-journal-cli/signal"
	"github.com/tti6o/trading-journal-cli/store"
)

// watchCmd runs the periodic sync-and-analyze loop.
type watchCmd struct {
	interval time.Duration
	once     bool
	noEmail  bool
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "periodically sync trades and grade signals" }
func (*watchCmd) Usage() string {
	return `tj watch [-interval <duration>] [-once] [-no-email]

  Runs until interrupted. Each pass syncs account trades from the
  exchange, recomputes PnL for the touched symbols, grades the watched
  symbols with RSI/MACD/SMA, and mails the report when email notifications
  are configured. -once runs a single pass and exits.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.DurationVar(&c.interval, "interval", 0, "Override the configured pass interval, e.g. 4h")
	f.BoolVar(&c.once, "once", false, "Run one pass and exit")
	f.BoolVar(&c.noEmail, "no-email", false, "Skip email notifications even when configured")
}

func (c *watchCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	j, s, cfg, err := openJournal()
	if err != nil {
		return errExit(err)
	}
	defer s.Close()

	log := logrus.WithField("component", "watch")

	var mailer *notify.Mailer
	if cfg.Email.Enabled && !c.noEmail {
		mailer, err = notify.NewMailer(cfg)
		if err != nil {
			return errExit(err)
		}
	}

	interval := cfg.WatchInterval()
	if c.interval > 0 {
		interval = c.interval
	}

	w := &watcher{j: j, s: s, cfg: cfg, mailer: mailer, log: log}
	w.pass(ctx)
	if c.once {
		return subcommands.ExitSuccess
	}

	log.WithField("interval", interval).Info("watch loop started")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("watch loop stopped")
			return subcommands.ExitSuccess
		case <-ticker.C:
			w.pass(ctx)
		}
	}
}

type watcher struct {
	j      *journal.Journal
	s      *store.Store
	cfg    *config.Config
	mailer *notify.Mailer
	log    *logrus.Entry
}

// pass runs one sync-and-analyze round. Failures are logged, never fatal:
// the loop must survive transient exchange or SMTP outages.
func (w *watcher) pass(ctx context.Context) {
	started := time.Now()

	res, err := runSync(ctx, w.j, w.s, w.cfg, syncParams{})
	if err != nil {
		w.log.WithError(err).Error("sync failed")
	} else {
		w.log.WithFields(logrus.Fields{
			"new":        res.Inserted,
			"duplicates": res.Duplicates,
			"rejected":   len(res.Rejected),
		}).Info("sync complete")
	}

	signals := w.grade(ctx)
	report := renderer.WatchMarkdown(started, res, signals)
	printMarkdown(report)

	if w.mailer == nil {
		return
	}
	if err := w.mailer.Send("Trading journal watch report", report); err != nil {
		w.log.WithError(err).Error("email notification failed")
	} else {
		w.log.Info("email notification sent")
	}
}

// grade evaluates the configured watch symbols over hourly candles.
func (w *watcher) grade(ctx context.Context) []signal.Signal {
	symbols := w.cfg.Watch.Symbols
	if len(symbols) == 0 {
		return nil
	}
	client := binance.NewClient(w.cfg.Binance.APIKey, w.cfg.Binance.APISecret)

	var signals []signal.Signal
	for _, symbol := range symbols {
		candles, err := client.Klines(ctx, symbol, "1h", 2*signal.MinBars)
		if err != nil {
			w.log.WithError(err).WithField("symbol", symbol).Warn("kline fetch failed")
			continue
		}
		closes := make([]float64, len(candles))
		for i, c := range candles {
			closes[i] = c.Close.InexactFloat64()
		}
		sig, err := signal.Evaluate(symbol, closes)
		if err != nil {
			w.log.WithError(err).WithField("symbol", symbol).Warn("signal evaluation failed")
			continue
		}
		w.log.WithFields(logrus.Fields{
			"symbol": symbol,
			"action": sig.Action,
		}).Info("signal graded")
		signals = append(signals, sig)
	}
	return signals
}
