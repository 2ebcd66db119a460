package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"dexa-swap/pkg/settings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change swap preferences",
	Long: `Show the persisted swap preferences, or change one with "settings set".

Keys:
  slippage   auto, basis points (50) or percent (0.5%); 1 to 5000 bps
  deadline   transaction TTL such as 20m (L2 networks always use 5m)
  gasless    on|off, relayed quotes (Polygon only)
  gas-price  gas price override in gwei, or "" to use the network price
  expert     on|off, skip swap confirmations

Examples:
  dexa-swap settings
  dexa-swap settings set slippage 0.5%
  dexa-swap settings set deadline 10m
  dexa-swap settings pair add ETH USDC`,
	Run: runShowSettings,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a preference",
	Args:  cobra.ExactArgs(2),
	Run:   runSetSetting,
}

var settingsPairCmd = &cobra.Command{
	Use:   "pair add|remove <tokenA> <tokenB>",
	Short: "Track or untrack a token pair",
	Args:  cobra.ExactArgs(3),
	Run:   runPair,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsSetCmd, settingsPairCmd)
}

func runShowSettings(cmd *cobra.Command, args []string) {
	a, err := loadApp(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	us := a.settings.Get()
	if a.json {
		printJSON(us)
		return
	}

	gasPrice := us.GasPriceGwei
	if gasPrice == "" {
		gasPrice = "network"
	} else {
		gasPrice += " gwei"
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                     SETTINGS")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("\n  File:              %s\n", color.HiBlackString(a.settings.Path()))
	fmt.Printf("  Slippage:          %s\n", us.SlippageLabel())
	fmt.Printf("  Deadline:          %s\n", us.TTL(a.chainID))
	fmt.Printf("  Gasless:           %s\n", onOff(us.GaslessEnabled(a.chainID)))
	fmt.Printf("  Gas Price:         %s\n", gasPrice)
	fmt.Printf("  Expert Mode:       %s\n", onOff(us.ExpertMode))
	fmt.Printf("  Custom Tokens:     %d\n", len(us.UserTokens(a.chainID)))
	for _, p := range us.Pairs {
		if p.ChainID == a.chainID {
			fmt.Printf("  Pair:              %s / %s\n", p.Token0, p.Token1)
		}
	}
	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}

func runSetSetting(cmd *cobra.Command, args []string) {
	a, err := loadApp(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if err := applySetting(a.settings, args[0], args[1]); err != nil {
		printError(err)
		os.Exit(1)
	}
	printSuccess(fmt.Sprintf("Set %s to %s", args[0], args[1]))
}

func applySetting(store *settings.Store, key, value string) error {
	switch strings.ToLower(key) {
	case "slippage":
		bps, err := settings.ParseSlippage(value)
		if err != nil {
			return err
		}
		return store.SetSlippage(bps)
	case "deadline":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid deadline %q: %w", value, err)
		}
		return store.SetDeadline(d)
	case "gasless":
		on, err := parseOnOff(value)
		if err != nil {
			return err
		}
		return store.SetGasless(on)
	case "expert", "expert-mode":
		on, err := parseOnOff(value)
		if err != nil {
			return err
		}
		return store.SetExpertMode(on)
	case "gas-price", "gas_price":
		return store.SetGasPrice(value)
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
}

func runPair(cmd *cobra.Command, args []string) {
	a, err := loadApp(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	tokenA, err := a.tokens.Resolve(args[1])
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	tokenB, err := a.tokens.Resolve(args[2])
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	var done string
	switch strings.ToLower(args[0]) {
	case "add":
		err = a.settings.AddPair(settings.Pair{ChainID: a.chainID, Token0: tokenA.ID(), Token1: tokenB.ID()})
		done = "tracked"
	case "remove":
		err = a.settings.RemovePair(a.chainID, tokenA.ID(), tokenB.ID())
		done = "untracked"
	default:
		err = fmt.Errorf("unknown pair action %q, expected add or remove", args[0])
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	printSuccess(fmt.Sprintf("Pair %s/%s %s", tokenA, tokenB, done))
}

func parseOnOff(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", v)
}

func onOff(b bool) string {
	if b {
		return color.GreenString("on")
	}
	return "off"
}
