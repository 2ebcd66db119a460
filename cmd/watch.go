package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"dexa-swap/pkg/metrics"
	"dexa-swap/pkg/quote"
	"dexa-swap/pkg/swap"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	watchRecipient   string
	watchURL         string
	watchMetricsAddr string
)

var watchCmd = &cobra.Command{
	Use:   "watch <amount> <token> to <token> | <token> for <amount> <token>",
	Short: "Keep a quote fresh",
	Long: `Fetch a quote and refresh it every poll_interval (30 seconds by default).

While watching:
  Enter      refetch now
  s          switch input and output
  <amount>   change the typed amount
  q          quit

Examples:
  dexa-swap watch 1 ETH to USDC
  dexa-swap watch 1 ETH to USDC --metrics-addr :9090`,
	Run: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchRecipient, "recipient", "", "Address receiving the output (defaults to your account)")
	watchCmd.Flags().StringVar(&watchURL, "url", "", "Swap link query string")
	watchCmd.Flags().StringVar(&watchMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (overrides metrics_addr)")
}

func runWatch(cmd *cobra.Command, args []string) {
	a, err := loadApp(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if err := a.cfg.RequireAccount(); err != nil {
		printError(err)
		os.Exit(1)
	}

	st, err := parseForm(a, args, watchURL, watchRecipient)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := watchMetricsAddr
	if addr == "" {
		addr = a.cfg.MetricsAddr
	}
	if addr != "" {
		srv, err := metrics.Serve(addr)
		if err != nil {
			printError(err)
			os.Exit(1)
		}
		defer srv.Close()
		a.log.Info().Str("addr", srv.Addr).Msg("serving metrics")
	}

	poller := quote.NewPoller(a.api,
		quote.WithInterval(a.cfg.PollInterval),
		quote.WithTokens(a.tokens),
		quote.WithPollerLogger(a.log),
	)
	poller.SetGasPrice(a.gasPrice(ctx))

	var (
		mu      sync.Mutex
		current quote.Params
	)
	form := swap.NewStore(st)
	form.Subscribe(func(next swap.State) {
		p := a.params(next)
		mu.Lock()
		current = p
		mu.Unlock()
		poller.SetParams(p)
	})
	form.Replace(st)

	go func() {
		if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.log.Error().Err(err).Msg("poller stopped")
		}
	}()
	go readWatchInput(ctx, stop, form, poller)

	if !a.json {
		fmt.Printf("\nWatching quote, refreshing every %s. Enter refetches, 's' switches sides, 'q' quits.\n", poller.Interval())
	}

	for {
		select {
		case <-ctx.Done():
			if !a.json {
				color.Yellow("\nStopped watching.")
			}
			return
		case res := <-poller.Updates():
			mu.Lock()
			p := current
			mu.Unlock()

			display := quoteDisplay(res, p)
			if a.json {
				printJSON(display)
				continue
			}
			fmt.Printf("[%s]", time.Now().Format("15:04:05"))
			displayQuote(display, p.Slippage)
		}
	}
}

// readWatchInput maps terminal lines onto form updates and refetches
func readWatchInput(ctx context.Context, quit context.CancelFunc, form *swap.Store, poller *quote.Poller) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			poller.Refocus()
		case strings.EqualFold(line, "q"):
			quit()
			return
		case strings.EqualFold(line, "s"):
			form.SwitchCurrencies()
		default:
			form.TypeInput(form.State().IndependentField, line)
		}
	}
}
