package cmd

import (
	"fmt"
	"os"
	"strings"

	"dexa-swap/pkg/types"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	filterSymbol  string
	tokenDecimals uint8
	tokenSymbol   string
	tokenName     string
)

var tokensCmd = &cobra.Command{
	Use:     "tokens",
	Aliases: []string{"list-tokens", "ls"},
	Short:   "List the tokens known on the active chain",
	Long: `List the chain's native currency, its default token list and tokens you added.

Examples:
  dexa-swap tokens
  dexa-swap tokens --chain polygon --symbol USD
  dexa-swap tokens add 0x4200000000000000000000000000000000000042 --symbol OP --decimals 18 --chain optimism
  dexa-swap tokens remove 0x4200000000000000000000000000000000000042 --chain optimism`,
	Run: runListTokens,
}

var tokensAddCmd = &cobra.Command{
	Use:   "add <address>",
	Short: "Add a custom token",
	Args:  cobra.ExactArgs(1),
	Run:   runAddToken,
}

var tokensRemoveCmd = &cobra.Command{
	Use:   "remove <address>",
	Short: "Remove a custom token",
	Args:  cobra.ExactArgs(1),
	Run:   runRemoveToken,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
	tokensCmd.AddCommand(tokensAddCmd, tokensRemoveCmd)

	tokensCmd.Flags().StringVar(&filterSymbol, "symbol", "", "Filter by token symbol")

	tokensAddCmd.Flags().Uint8Var(&tokenDecimals, "decimals", 18, "Token decimals")
	tokensAddCmd.Flags().StringVar(&tokenSymbol, "symbol", "", "Token symbol (required)")
	tokensAddCmd.Flags().StringVar(&tokenName, "name", "", "Token name")
	_ = tokensAddCmd.MarkFlagRequired("symbol")
}

func runListTokens(cmd *cobra.Command, args []string) {
	a, err := loadApp(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	filtered := a.tokens.Tokens()
	if filterSymbol != "" {
		var temp []types.Currency
		for _, token := range filtered {
			if strings.Contains(strings.ToUpper(token.Symbol), strings.ToUpper(filterSymbol)) {
				temp = append(temp, token)
			}
		}
		filtered = temp
	}

	if a.json {
		printJSON(filtered)
	} else {
		displayTokens(filtered, a.chainID)
	}
}

func runAddToken(cmd *cobra.Command, args []string) {
	a, err := loadApp(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if !common.IsHexAddress(args[0]) {
		printError(fmt.Errorf("invalid token address: %s", args[0]))
		os.Exit(1)
	}

	token := types.NewToken(a.chainID, args[0], tokenDecimals, strings.ToUpper(tokenSymbol), tokenName)
	if err := a.tokens.Add(token); err != nil {
		printError(err)
		os.Exit(1)
	}
	if err := a.settings.AddToken(token); err != nil {
		printError(err)
		os.Exit(1)
	}
	printSuccess(fmt.Sprintf("Added %s (%s) on chain %d", token.Symbol, token.Address.Hex(), a.chainID))
}

func runRemoveToken(cmd *cobra.Command, args []string) {
	a, err := loadApp(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if err := a.settings.RemoveToken(a.chainID, args[0]); err != nil {
		printError(err)
		os.Exit(1)
	}
	printSuccess(fmt.Sprintf("Removed %s from chain %d", args[0], a.chainID))
}

func displayTokens(tokens []types.Currency, chainID int64) {
	if len(tokens) == 0 {
		fmt.Println("\nNo tokens found matching the criteria.")
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	color.Green("                            TOKENS ON CHAIN %d", chainID)
	fmt.Println(strings.Repeat("=", 90))

	for _, token := range tokens {
		address := token.QuoteAddress()
		if token.Native {
			address = "native"
		}
		fmt.Printf("  %-10s  %2d decimals  %-20s %s\n",
			color.YellowString(token.Symbol),
			token.Decimals,
			token.Name,
			color.HiBlackString(address))
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	fmt.Printf("\nTotal: %d tokens\n\n", len(tokens))
}
