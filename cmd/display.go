package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"dexa-swap/pkg/quote"
	"dexa-swap/pkg/types"

	"github.com/fatih/color"
)

// quoteDisplay flattens a quote result for printing
func quoteDisplay(res quote.Result, p quote.Params) types.QuoteDisplay {
	d := types.QuoteDisplay{
		State:     res.State.String(),
		TradeType: p.TradeType.String(),
	}
	if in, out := p.Currencies(); in != nil && out != nil {
		d.InputToken = in.String()
		d.OutputToken = out.String()
	}
	if res.Err != nil && res.State != quote.StateValid {
		d.Error = res.Err.Error()
	}

	if t := res.Trade; t != nil {
		d.InputAmount = t.InputAmount.ToExact()
		d.OutputAmount = t.OutputAmount.ToExact()
		d.Price = t.ExecutionPrice().StringFixed(6)
		if t.TradeType == types.ExactInput {
			d.MinimumOut = t.MinimumAmountOut(p.Slippage).ToExact()
		} else {
			d.MaximumIn = t.MaximumAmountIn(p.Slippage).ToExact()
		}
	}
	if tx := res.Tx; tx != nil {
		d.EstimatedGas = tx.Gas
		d.Router = tx.To
		d.AllowanceTarget = tx.AllowanceTarget
		if tx.GasCost != nil {
			d.GasCost = tx.GasCost.ToFixed(6) + " " + tx.GasCost.Currency.Symbol
		}
		if tx.PaymentFees != nil {
			d.PaymentFees = tx.PaymentFees.String()
		}
	}
	return d
}

func printJSON(v interface{}) {
	jsonData, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(jsonData))
}

func coloredState(state string) string {
	switch state {
	case quote.StateValid.String():
		return color.GreenString(state)
	case quote.StateLoading.String():
		return color.YellowString(state)
	case quote.StateNoRouteFound.String():
		return color.MagentaString(state)
	default:
		return color.RedString(state)
	}
}

func displayQuote(d types.QuoteDisplay, slippage types.Percent) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                     SWAP QUOTE")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  State:             %s\n", coloredState(d.State))
	if d.Error != "" {
		fmt.Printf("  Reason:            %s\n", color.HiBlackString(d.Error))
	}
	fmt.Printf("  From:              %s %s\n", orDash(d.InputAmount), color.YellowString(d.InputToken))
	fmt.Printf("  To:                %s %s\n", orDash(d.OutputAmount), color.YellowString(d.OutputToken))

	if d.Price != "" {
		fmt.Printf("  Price:             %s %s per %s\n", d.Price, d.OutputToken, d.InputToken)
	}
	fmt.Printf("  Slippage:          %s\n", slippage)
	if d.MinimumOut != "" {
		fmt.Printf("  Minimum Received:  %s %s\n", d.MinimumOut, d.OutputToken)
	}
	if d.MaximumIn != "" {
		fmt.Printf("  Maximum Sold:      %s %s\n", d.MaximumIn, d.InputToken)
	}
	if d.EstimatedGas != "" {
		fmt.Printf("  Estimated Gas:     %s\n", d.EstimatedGas)
	}
	if d.GasCost != "" {
		fmt.Printf("  Network Fee:       ~%s\n", d.GasCost)
	}
	if d.PaymentFees != "" {
		fmt.Printf("  Relayer Fee:       %s\n", d.PaymentFees)
	}
	if d.Router != "" {
		fmt.Printf("  Router:            %s\n", color.HiBlackString(d.Router))
	}

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
