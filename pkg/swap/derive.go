package swap

import (
	"dexa-swap/pkg/quote"
	"dexa-swap/pkg/types"
)

// Resolver looks up a currency by "ETH", symbol or address
type Resolver interface {
	Resolve(id string) (types.Currency, error)
}

// Options carries the non-form inputs of a quote
type Options struct {
	ChainID        int64
	Account        string
	Affiliate      string
	Slippage       types.Percent
	Gasless        bool
	SkipValidation bool
}

// TryParseAmount parses a human decimal amount of c. It returns nil for empty,
// malformed, over-precise or zero values.
func TryParseAmount(value string, c *types.Currency) *types.CurrencyAmount {
	if value == "" || c == nil {
		return nil
	}
	raw, err := types.ParseUnits(value, c.Decimals)
	if err != nil || raw.Sign() == 0 {
		return nil
	}
	amount := types.NewAmount(*c, raw)
	return &amount
}

func resolve(r Resolver, id string) *types.Currency {
	if id == "" || r == nil {
		return nil
	}
	c, err := r.Resolve(id)
	if err != nil {
		return nil
	}
	return &c
}

// Derive turns the form state into quote parameters. Unknown currencies and
// empty or unparseable amounts come through as nil, which the quote state
// machine reports as invalid.
func Derive(st State, tokens Resolver, opts Options) quote.Params {
	input := resolve(tokens, st.InputCurrencyID)
	output := resolve(tokens, st.OutputCurrencyID)

	p := quote.Params{
		ChainID:        opts.ChainID,
		Account:        opts.Account,
		Affiliate:      opts.Affiliate,
		Slippage:       opts.Slippage,
		Gasless:        opts.Gasless,
		SkipValidation: opts.SkipValidation,
		Recipient:      st.Recipient,
	}

	independent, other := input, output
	p.TradeType = types.ExactInput
	if st.IndependentField == FieldOutput {
		independent, other = output, input
		p.TradeType = types.ExactOutput
	}

	p.Amount = TryParseAmount(st.TypedValue, independent)
	p.OtherCurrency = other
	return p
}
