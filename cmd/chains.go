package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"dexa-swap/pkg/chains"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var showContracts bool

var chainsCmd = &cobra.Command{
	Use:   "chains",
	Short: "List supported networks",
	Long: `List the networks dexa-swap can quote on, with their native currency,
explorer and whether they use the fixed L2 transaction deadline.

Examples:
  dexa-swap chains
  dexa-swap chains --contracts --chain optimism`,
	Run: runChains,
}

func init() {
	rootCmd.AddCommand(chainsCmd)
	chainsCmd.Flags().BoolVar(&showContracts, "contracts", false, "Show contract deployments of the active chain")
}

func runChains(cmd *cobra.Command, args []string) {
	a, err := loadApp(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if showContracts {
		contracts := chains.Contracts(a.chainID)
		if a.json {
			printJSON(contracts)
			return
		}
		displayContracts(a.chainID, contracts)
		return
	}

	all := chains.All()
	if a.json {
		printJSON(all)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nCHAIN ID\tNAME\tNATIVE\tLAYER\tTESTNET\tEXPLORER")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, info := range all {
		layer := "L1"
		if info.L2 {
			layer = "L2"
		}
		name := info.Label
		if info.ChainID == a.chainID {
			name = color.GreenString(info.Label + " *")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\t%s\n", info.ChainID, name, info.NativeSymbol, layer, info.Testnet, info.ExplorerURL)
	}
	w.Flush()
	fmt.Println()
}

func displayContracts(chainID int64, contracts map[string]common.Address) {
	names := make([]string, 0, len(contracts))
	for name := range contracts {
		names = append(names, name)
	}
	sort.Strings(names)

	color.Cyan("\nContracts on chain %d", chainID)
	fmt.Println(strings.Repeat("-", 70))
	for _, name := range names {
		fmt.Printf("  %-18s %s\n", name, contracts[name].Hex())
	}
	fmt.Println()
}
