package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"dexa-swap/pkg/parser"
	"dexa-swap/pkg/swap"
	"dexa-swap/pkg/types"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var (
	quoteRecipient string
	quoteURL       string
)

var quoteCmd = &cobra.Command{
	Use:   "quote <amount> <token> to <token> | <token> for <amount> <token>",
	Short: "Fetch a swap quote",
	Long: `Fetch a quote from the validator API and show the trade it describes.

"1 ETH to USDC" sells exactly 1 ETH. "ETH for 100 USDC" buys exactly 100 USDC.
Tokens are symbols from the chain's token list or contract addresses.

Examples:
  dexa-swap quote 1 ETH to USDC
  dexa-swap quote ETH for 100 DAI --recipient 0x123...
  dexa-swap quote --url "inputCurrency=ETH&outputCurrency=0xA0b8...&exactAmount=1"`,
	Run: runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().StringVar(&quoteRecipient, "recipient", "", "Address receiving the output (defaults to your account)")
	quoteCmd.Flags().StringVar(&quoteURL, "url", "", "Swap link query string (inputCurrency, outputCurrency, exactAmount, exactField, recipient)")
}

// parseForm reads the swap form from either a swap link or a swap command
func parseForm(a *app, args []string, link, recipient string) (swap.State, error) {
	if link != "" {
		if i := strings.Index(link, "?"); i >= 0 {
			link = link[i+1:]
		}
		st, err := swap.ParseQueryString(link)
		if err != nil {
			return swap.State{}, fmt.Errorf("invalid swap link: %w", err)
		}
		if recipient != "" {
			st.Recipient = swap.ValidatedRecipient(recipient)
		}
		return st, nil
	}

	if len(args) == 0 {
		return swap.State{}, fmt.Errorf("missing swap command")
	}
	command, err := parser.ParseSwapCommand(strings.Join(args, " "))
	if err != nil {
		return swap.State{}, err
	}
	if err := parser.ValidateSwapCommand(command); err != nil {
		return swap.State{}, err
	}

	field := swap.FieldInput
	if command.TradeType == types.ExactOutput {
		field = swap.FieldOutput
	}
	return a.formState(command.Amount, command.InputToken, command.OutputToken, field, recipient)
}

func runQuote(cmd *cobra.Command, args []string) {
	a, err := loadApp(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if err := a.cfg.RequireAccount(); err != nil {
		printError(err)
		os.Exit(1)
	}

	st, err := parseForm(a, args, quoteURL, quoteRecipient)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	form := swap.NewStore(st)
	params := a.params(form.State())

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !a.json {
		s.Suffix = " Fetching quote..."
		s.Start()
	}

	res := a.fetchQuote(ctx, params, a.gasPrice(ctx))
	if !a.json {
		s.Stop()
	}

	if a.verbose && res.Err != nil {
		fmt.Printf("\nDebug: %v\n", res.Err)
	}

	display := quoteDisplay(res, params)
	if a.json {
		printJSON(display)
	} else {
		displayQuote(display, params.Slippage)
	}
}
