package cmd

import (
	"bufio"
	"context"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"dexa-swap/pkg/chains"
	"dexa-swap/pkg/quote"
	"dexa-swap/pkg/types"
	"dexa-swap/pkg/wallet"

	"github.com/briandowns/spinner"
	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	swapRecipient string
	swapURL       string
	noConfirm     bool
	waitMined     bool
)

var swapCmd = &cobra.Command{
	Use:   "swap <amount> <token> to <token> | <token> for <amount> <token>",
	Short: "Quote and execute a swap",
	Long: `Fetch a quote and submit its transaction from your account.

Requires private_key and an RPC endpoint for the chain (rpc_urls.<chainId>).
Token inputs are approved for the quote's allowance target first when needed.

Examples:
  dexa-swap swap 1 ETH to USDC
  dexa-swap swap 100 USDC to DAI --chain polygon --wait
  dexa-swap swap ETH for 50 DAI --yes`,
	Run: runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)

	swapCmd.Flags().StringVar(&swapRecipient, "recipient", "", "Address receiving the output (defaults to your account)")
	swapCmd.Flags().StringVar(&swapURL, "url", "", "Swap link query string")
	swapCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompt")
	swapCmd.Flags().BoolVar(&waitMined, "wait", false, "Wait until the transaction is mined")
}

func runSwap(cmd *cobra.Command, args []string) {
	a, err := loadApp(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if err := a.cfg.RequireAccount(); err != nil {
		printError(err)
		os.Exit(1)
	}

	st, err := parseForm(a, args, swapURL, swapRecipient)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	params := a.params(st)
	// gasless quotes are relayed, not sent from the account
	params.Gasless = false

	ctx := cmd.Context()
	rpc, err := a.dial(ctx)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer rpc.Close()

	w, err := wallet.New(rpc, a.chainID, a.cfg.PrivateKey, a.log)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if !strings.EqualFold(w.Address().Hex(), a.cfg.Account) {
		printError(fmt.Errorf("account %s does not match private key address %s", a.cfg.Account, w.Address().Hex()))
		os.Exit(1)
	}

	gasPrice, err := wallet.NetworkGasPrice(ctx, rpc, a.settings.Get().GasPriceWei())
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !a.json {
		s.Suffix = " Fetching quote..."
		s.Start()
	}
	res := a.fetchQuote(ctx, params, gasPrice)
	if !a.json {
		s.Stop()
	}

	display := quoteDisplay(res, params)
	if !a.json {
		displayQuote(display, params.Slippage)
	}
	if res.State != quote.StateValid {
		if a.json {
			printJSON(display)
		}
		printError(fmt.Errorf("cannot swap: quote is %s", res.State))
		os.Exit(1)
	}

	us := a.settings.Get()
	if !a.json {
		fmt.Printf("  Deadline:          %s\n", us.TTL(a.chainID))
	}
	if !noConfirm && !us.ExpertMode && !a.json {
		if !confirmSwap() {
			fmt.Println("\nSwap cancelled.")
			os.Exit(0)
		}
	}

	if err := ensureAllowance(ctx, a, w, res, params, gasPrice); err != nil {
		printError(err)
		os.Exit(1)
	}

	if !a.json {
		s.Suffix = " Sending swap..."
		s.Start()
	}
	hash, err := w.SendSwap(ctx, res.Tx, gasPrice)
	if !a.json {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if !a.json {
		color.Green("\n✓ Swap submitted!")
		fmt.Printf("  Transaction: %s\n", color.CyanString(hash.Hex()))
		if url := chains.ExplorerTxURL(a.chainID, hash.Hex()); url != "" {
			fmt.Printf("  Explorer:    %s\n", url)
		}
	}

	if !waitMined {
		if a.json {
			printJSON(map[string]interface{}{"quote": display, "tx_hash": hash.Hex()})
		} else {
			fmt.Println("\nYou can monitor the transaction using:")
			color.Cyan("  dexa-swap tx-status %s --chain %d\n", hash.Hex(), a.chainID)
		}
		return
	}

	// past the deadline the router reverts, so there is nothing left to wait for
	waitCtx, cancel := context.WithTimeout(ctx, us.TTL(a.chainID))
	defer cancel()
	info, err := wallet.WaitMined(waitCtx, rpc, hash.Hex(), 3*time.Second)
	if err != nil {
		printError(fmt.Errorf("waiting for %s: %w", hash.Hex(), err))
		os.Exit(1)
	}
	if a.json {
		printJSON(map[string]interface{}{"quote": display, "tx_hash": hash.Hex(), "receipt": info})
		return
	}
	displayTxInfo(info, a.chainID)
}

// ensureAllowance approves the allowance target for token inputs when the
// current allowance cannot cover the maximum input
func ensureAllowance(ctx context.Context, a *app, w *wallet.Wallet, res quote.Result, p quote.Params, gasPrice *big.Int) error {
	in := res.Trade.InputAmount.Currency
	if in.Native || res.Tx.AllowanceTarget == "" {
		return nil
	}
	if !common.IsHexAddress(res.Tx.AllowanceTarget) {
		return fmt.Errorf("invalid allowance target %q", res.Tx.AllowanceTarget)
	}
	spender := common.HexToAddress(res.Tx.AllowanceTarget)

	need := res.Trade.InputAmount
	if p.TradeType == types.ExactOutput {
		need = res.Trade.MaximumAmountIn(p.Slippage)
	}

	allowance, err := w.Allowance(ctx, in.Address, spender)
	if err != nil {
		return err
	}
	if allowance.Cmp(need.Raw) >= 0 {
		return nil
	}

	if !a.json {
		color.Yellow("\nApproving %s for %s...", need, spender.Hex())
	}
	hash, err := w.Approve(ctx, in.Address, spender, need.Raw, gasPrice)
	if err != nil {
		return fmt.Errorf("approval failed: %w", err)
	}
	info, err := w.WaitMined(ctx, hash, 3*time.Second)
	if err != nil {
		return fmt.Errorf("waiting for approval %s: %w", hash.Hex(), err)
	}
	if info.Status != wallet.TxSuccess {
		return fmt.Errorf("approval %s failed on chain", hash.Hex())
	}
	a.log.Info().Str("tx_hash", hash.Hex()).Msg("approval mined")
	return nil
}

func confirmSwap() bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("\nProceed with swap? (y/N): ")

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
