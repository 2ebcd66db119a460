package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dexa-swap",
	Short: "A CLI for quoting and executing DEX swaps",
	Long: `dexa-swap quotes token swaps against the Metadexa validator API and
submits them from your account on Ethereum, Arbitrum, Optimism and Polygon.

Examples:
  dexa-swap quote 1 ETH to USDC
  dexa-swap quote ETH for 100 USDC --chain polygon
  dexa-swap watch 1 ETH to DAI
  dexa-swap swap 0.5 ETH to USDC --wait
  dexa-swap tx-status 0xabc... --watch
  dexa-swap settings set slippage 0.5%`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().String("chain", "", "Network name or chain ID (overrides chain_id)")
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}

func printSuccess(message string) {
	fmt.Printf("\n%s\n\n", message)
}
