package cmd

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"os"
	"time"

	"dexa-swap/config"
	"dexa-swap/pkg/chains"
	"dexa-swap/pkg/client"
	"dexa-swap/pkg/logger"
	"dexa-swap/pkg/quote"
	"dexa-swap/pkg/settings"
	"dexa-swap/pkg/swap"
	"dexa-swap/pkg/wallet"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app is what every command needs: config, settings, tokens and the quote client
type app struct {
	cfg      *config.Config
	chainID  int64
	log      zerolog.Logger
	settings *settings.Store
	tokens   *chains.Registry
	api      *client.ValidatorClient
	json     bool
	verbose  bool
}

func loadApp(cmd *cobra.Command) (*app, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	chainFlag, _ := cmd.Flags().GetString("chain")

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	chainID := cfg.ChainID
	if chainFlag != "" {
		if chainID, err = chains.Parse(chainFlag); err != nil {
			return nil, err
		}
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	log := newLogger(os.Stderr, level, jsonOutput).With().Int64("chain_id", chainID).Logger()

	if cfg.Account == "" && cfg.PrivateKey != "" {
		addr, err := wallet.AddressFromKey(cfg.PrivateKey)
		if err != nil {
			return nil, err
		}
		cfg.Account = addr.Hex()
	}

	store, err := settings.Open(cfg.SettingsPath)
	if err != nil {
		return nil, err
	}

	tokens, err := chains.NewRegistry(chainID)
	if err != nil {
		return nil, err
	}
	for _, t := range store.Get().UserTokens(chainID) {
		if err := tokens.Add(t); err != nil {
			log.Warn().Err(err).Str("token", t.String()).Msg("skipping user token")
		}
	}

	api := client.NewValidatorClient(cfg.BaseURL,
		client.WithMaxRetries(cfg.MaxRetries),
		client.WithLogger(log),
		client.WithHTTPClient(newHTTPClient(cfg.RequestTimeout)),
	)

	return &app{
		cfg:      cfg,
		chainID:  chainID,
		log:      log,
		settings: store,
		tokens:   tokens,
		api:      api,
		json:     jsonOutput,
		verbose:  verbose,
	}, nil
}

// newLogger writes JSON logs alongside --json output and console logs otherwise
func newLogger(w io.Writer, level string, jsonOutput bool) zerolog.Logger {
	if jsonOutput {
		return logger.New(w, level)
	}
	return logger.NewConsole(w, level)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// params derives quote parameters for a swap form
func (a *app) params(st swap.State) quote.Params {
	us := a.settings.Get()
	return swap.Derive(st, a.tokens, swap.Options{
		ChainID:   a.chainID,
		Account:   a.cfg.Account,
		Affiliate: a.cfg.Affiliate,
		Slippage:  us.SlippageTolerance(quote.DefaultSlippage),
		Gasless:   us.GaslessEnabled(a.chainID),
	})
}

// dial connects to the active chain's RPC endpoint
func (a *app) dial(ctx context.Context) (*ethclient.Client, error) {
	url, err := a.cfg.RPCFor(a.chainID)
	if err != nil {
		return nil, err
	}
	return wallet.Dial(ctx, url)
}

// gasPrice returns the user override or the node's gas price. Without an
// RPC endpoint only the override is available; nil means unknown.
func (a *app) gasPrice(ctx context.Context) *big.Int {
	override := a.settings.Get().GasPriceWei()
	if override != nil {
		return override
	}
	rpc, err := a.dial(ctx)
	if err != nil {
		a.log.Debug().Err(err).Msg("no RPC endpoint, gas cost unavailable")
		return nil
	}
	defer rpc.Close()

	price, err := wallet.NetworkGasPrice(ctx, rpc, nil)
	if err != nil {
		a.log.Warn().Err(err).Msg("gas price lookup failed")
		return nil
	}
	return price
}

// fetchQuote performs a single quote round trip and evaluates it
func (a *app) fetchQuote(ctx context.Context, p quote.Params, gasPrice *big.Int) quote.Result {
	args := quote.BuildArgs(p)
	snap := quote.Snapshot{Params: p, Args: args, GasPrice: gasPrice, Tokens: a.tokens}
	if args != nil && !p.SkipRequest {
		snap.Data, snap.Err = a.api.Fetch(ctx, p.Endpoint(), *args)
	}
	return quote.Evaluate(snap)
}

// formState turns a parsed command into a swap form, resolving tokens so
// typos fail before any request is made
func (a *app) formState(amount, input, output string, field swap.Field, recipient string) (swap.State, error) {
	in, err := a.tokens.Resolve(input)
	if err != nil {
		return swap.State{}, err
	}
	out, err := a.tokens.Resolve(output)
	if err != nil {
		return swap.State{}, err
	}

	st := swap.State{
		InputCurrencyID:  in.ID(),
		OutputCurrencyID: out.ID(),
		IndependentField: field,
		TypedValue:       amount,
	}
	if recipient != "" {
		st.Recipient = swap.ValidatedRecipient(recipient)
		if st.Recipient == "" {
			return swap.State{}, fmt.Errorf("invalid recipient %q", recipient)
		}
		if swap.IsBadRecipient(st.Recipient) {
			return swap.State{}, fmt.Errorf("recipient %s is a router or factory contract; funds sent there are lost", st.Recipient)
		}
	}
	return st, nil
}
