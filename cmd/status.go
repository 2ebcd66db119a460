package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"dexa-swap/pkg/chains"
	"dexa-swap/pkg/wallet"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	watchStatus   bool
	watchInterval int
)

var statusCmd = &cobra.Command{
	Use:     "tx-status <tx-hash>",
	Aliases: []string{"status"},
	Short:   "Check the status of a swap transaction",
	Long: `Check whether a submitted swap transaction is pending, succeeded or failed.

Examples:
  dexa-swap tx-status 0x1234...abcd
  dexa-swap tx-status 0x1234...abcd --chain arbitrum --watch
  dexa-swap tx-status 0x1234...abcd --watch --interval 10`,
	Args: cobra.ExactArgs(1),
	Run:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVarP(&watchStatus, "watch", "w", false, "Watch until the transaction is mined")
	statusCmd.Flags().IntVar(&watchInterval, "interval", 5, "Polling interval in seconds (when watching)")
}

func runStatus(cmd *cobra.Command, args []string) {
	txHash := args[0]
	a, err := loadApp(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	rpc, err := a.dial(cmd.Context())
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer rpc.Close()

	if watchStatus {
		watchTxStatus(cmd.Context(), a, rpc, txHash)
	} else {
		checkTxStatus(cmd.Context(), a, rpc, txHash)
	}
}

func checkTxStatus(ctx context.Context, a *app, rpc wallet.Backend, txHash string) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !a.json {
		s.Suffix = " Checking transaction status..."
		s.Start()
	}

	info, err := wallet.GetTransactionInfo(ctx, rpc, txHash)
	if !a.json {
		s.Stop()
	}

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if a.json {
		printJSON(info)
	} else {
		displayTxInfo(info, a.chainID)
	}
}

func watchTxStatus(ctx context.Context, a *app, rpc wallet.Backend, txHash string) {
	if a.json {
		fmt.Println(`{"error": "watch mode not supported with JSON output"}`)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("\nWatching transaction %s\n", color.CyanString(txHash))
	fmt.Printf("Checking every %d seconds. Press Ctrl+C to stop.\n\n", watchInterval)

	info, err := wallet.WaitMined(ctx, rpc, txHash, time.Duration(watchInterval)*time.Second)
	if err != nil {
		if info != nil {
			displayTxInfo(info, a.chainID)
		}
		color.Red("Error: %v", err)
		return
	}
	displayTxInfo(info, a.chainID)
}

func displayTxInfo(info *wallet.TxInfo, chainID int64) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                     TRANSACTION STATUS")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  Hash:            %s\n", color.CyanString(info.Hash))
	fmt.Printf("  Status:          %s\n", getColoredStatus(info.Status))
	if info.To != "" {
		fmt.Printf("  To:              %s\n", color.HiBlackString(info.To))
	}
	fmt.Printf("  Nonce:           %d\n", info.Nonce)
	fmt.Printf("  Value:           %s wei\n", info.Value)
	fmt.Printf("  Gas Price:       %s wei\n", info.GasPrice)
	fmt.Printf("  Gas Limit:       %d\n", info.GasLimit)
	if info.Final() {
		fmt.Printf("  Gas Used:        %d\n", info.GasUsed)
		fmt.Printf("  Block:           %d\n", info.BlockNumber)
	}
	if url := chains.ExplorerTxURL(chainID, info.Hash); url != "" {
		fmt.Printf("  Explorer:        %s\n", url)
	}

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}

func getColoredStatus(status wallet.TxStatus) string {
	switch status {
	case wallet.TxSuccess:
		return color.GreenString(string(status))
	case wallet.TxPending:
		return color.YellowString(string(status))
	case wallet.TxFailed:
		return color.RedString(string(status))
	default:
		return string(status)
	}
}
