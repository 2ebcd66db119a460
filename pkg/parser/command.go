package parser

import (
	"fmt"
	"regexp"
	"strings"

	"dexa-swap/pkg/types"
)

var (
	// <amount> <token> to|for|into <token>
	exactInputPattern = regexp.MustCompile(`(?i)^(\d+\.?\d*|\.\d+)\s+([a-z0-9]+)\s+(?:to|for|into)\s+([a-z0-9]+)$`)
	// <token> for <amount> <token>
	exactOutputPattern = regexp.MustCompile(`(?i)^([a-z0-9]+)\s+for\s+(\d+\.?\d*|\.\d+)\s+([a-z0-9]+)$`)
)

// ParseSwapCommand parses a natural language swap command
// Examples:
//   - "swap 1 ETH to USDC"     (sell exactly 1 ETH)
//   - "1.5 ETH for DAI"
//   - "swap ETH for 100 USDC"  (buy exactly 100 USDC)
func ParseSwapCommand(command string) (*types.SwapCommand, error) {
	command = strings.Join(strings.Fields(command), " ")
	if len(command) >= 5 && strings.EqualFold(command[:5], "swap ") {
		command = command[5:]
	}

	if m := exactInputPattern.FindStringSubmatch(command); m != nil {
		return &types.SwapCommand{
			Amount:      m[1],
			InputToken:  NormalizeTokenSymbol(m[2]),
			OutputToken: NormalizeTokenSymbol(m[3]),
			TradeType:   types.ExactInput,
		}, nil
	}
	if m := exactOutputPattern.FindStringSubmatch(command); m != nil {
		return &types.SwapCommand{
			Amount:      m[2],
			InputToken:  NormalizeTokenSymbol(m[1]),
			OutputToken: NormalizeTokenSymbol(m[3]),
			TradeType:   types.ExactOutput,
		}, nil
	}

	return nil, fmt.Errorf("invalid swap command format. Expected: 'swap <amount> <token> to <token>' or 'swap <token> for <amount> <token>'")
}

// ValidateSwapCommand validates that a swap command has all required fields
func ValidateSwapCommand(cmd *types.SwapCommand) error {
	if cmd.Amount == "" {
		return fmt.Errorf("amount is required")
	}
	if cmd.InputToken == "" {
		return fmt.Errorf("input token is required")
	}
	if cmd.OutputToken == "" {
		return fmt.Errorf("output token is required")
	}
	if strings.EqualFold(cmd.InputToken, cmd.OutputToken) {
		return fmt.Errorf("input and output token must differ")
	}
	return nil
}

// NormalizeTokenSymbol upper-cases symbols and leaves addresses untouched
func NormalizeTokenSymbol(symbol string) string {
	symbol = strings.TrimSpace(symbol)
	if strings.HasPrefix(strings.ToLower(symbol), "0x") {
		return symbol
	}
	return strings.ToUpper(symbol)
}
