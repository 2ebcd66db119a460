package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"dexa-swap/pkg/chains"
	"dexa-swap/pkg/positions"
	"dexa-swap/pkg/types"

	"github.com/briandowns/spinner"
	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var positionsCmd = &cobra.Command{
	Use:     "positions",
	Aliases: []string{"pool"},
	Short:   "Show your liquidity in tracked pairs",
	Long: `Show your pool tokens, pool share and deposited amounts for every pair
tracked on the active chain.

Examples:
  dexa-swap settings pair add ETH USDC
  dexa-swap positions
  dexa-swap positions --json`,
	Run: runPositions,
}

func init() {
	rootCmd.AddCommand(positionsCmd)
}

func runPositions(cmd *cobra.Command, args []string) {
	a, err := loadApp(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if err := a.cfg.RequireAccount(); err != nil {
		printError(err)
		os.Exit(1)
	}

	pairs := a.settings.Get().PairsOn(a.chainID)
	if len(pairs) == 0 {
		if a.json {
			printJSON([]types.PositionDisplay{})
			return
		}
		color.Yellow("No tracked pairs on chain %d. Track one with: dexa-swap settings pair add ETH USDC", a.chainID)
		return
	}

	rpc, err := a.dial(cmd.Context())
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer rpc.Close()

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !a.json {
		s.Suffix = " Reading positions..."
		s.Start()
	}

	reader := positions.NewReader(rpc, a.log)
	owner := common.HexToAddress(a.cfg.Account)
	displays := make([]types.PositionDisplay, 0, len(pairs))
	for _, p := range pairs {
		label := p.Token0 + "/" + p.Token1
		tokenA, errA := a.tokens.Resolve(p.Token0)
		tokenB, errB := a.tokens.Resolve(p.Token1)
		if errA != nil || errB != nil {
			displays = append(displays, types.PositionDisplay{Pair: label, Error: firstErr(errA, errB).Error()})
			continue
		}
		pos, err := reader.Position(cmd.Context(), owner, tokenA, tokenB)
		if err != nil {
			a.log.Warn().Err(err).Str("pair", label).Msg("position read failed")
			displays = append(displays, types.PositionDisplay{
				Pair:   tokenA.String() + "/" + tokenB.String(),
				Token0: tokenA.String(),
				Token1: tokenB.String(),
				Error:  err.Error(),
			})
			continue
		}
		displays = append(displays, positionDisplay(pos))
	}

	if !a.json {
		s.Stop()
	}

	if a.json {
		printJSON(displays)
		return
	}
	displayPositions(displays, a.chainID)
}

// positionDisplay formats a position, showing wrapped native tokens as the native currency
func positionDisplay(pos *positions.Position) types.PositionDisplay {
	sym0, sym1 := unwrappedSymbol(pos.Token0), unwrappedSymbol(pos.Token1)
	d := types.PositionDisplay{
		Pair:         sym0 + "/" + sym1,
		Address:      pos.Pair.Hex(),
		HasLiquidity: pos.HasLiquidity(),
		Liquidity:    pos.Liquidity().ToFixed(6),
		Token0:       sym0,
		Token1:       sym1,
	}
	if share, ok := pos.PoolShare(); ok {
		d.PoolShare = share.ToFixed(6)
	}
	if amount0, amount1, ok := pos.Deposited(); ok {
		d.Deposit0 = amount0.ToFixed(6)
		d.Deposit1 = amount1.ToFixed(6)
	}
	return d
}

func unwrappedSymbol(c types.Currency) string {
	if w, ok := chains.WrappedNative[c.ChainID]; ok && w.Equals(c) {
		if native, err := chains.Native(c.ChainID); err == nil {
			return native.Symbol
		}
	}
	return c.String()
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func displayPositions(displays []types.PositionDisplay, chainID int64) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                    LIQUIDITY POSITIONS ON CHAIN %d", chainID)
	fmt.Println(strings.Repeat("=", 70))

	for _, d := range displays {
		fmt.Printf("\n  %s\n", color.YellowString(d.Pair))
		if d.Error != "" {
			fmt.Printf("    %s\n", color.RedString(d.Error))
			continue
		}
		if !d.HasLiquidity {
			fmt.Println("    No liquidity in this pool")
			continue
		}
		fmt.Printf("    Pool tokens:     %s\n", d.Liquidity)
		fmt.Printf("    Pool share:      %s\n", orDash(d.PoolShare))
		fmt.Printf("    %-16s %s\n", d.Token0+":", orDash(d.Deposit0))
		fmt.Printf("    %-16s %s\n", d.Token1+":", orDash(d.Deposit1))
		fmt.Printf("    %s\n", color.HiBlackString(d.Address))
	}

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}
