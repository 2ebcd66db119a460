package quote

import (
	"bytes"
	"fmt"
	"math/big"

	"dexa-swap/pkg/chains"
	"dexa-swap/pkg/types"

	"github.com/shopspring/decimal"
)

// Pool is a two-token pool whose reserves are the quoted amounts
type Pool struct {
	Token0   types.Currency
	Token1   types.Currency
	Reserve0 *big.Int
	Reserve1 *big.Int
}

// Route is an ordered path of pools between two currencies
type Route struct {
	Pools  []Pool
	Input  types.Currency
	Output types.Currency
}

// Path returns the currencies visited by the route
func (r Route) Path() []types.Currency {
	return []types.Currency{r.Input, r.Output}
}

// Trade is a quoted swap ready for display and submission
type Trade struct {
	Route        Route
	InputAmount  types.CurrencyAmount
	OutputAmount types.CurrencyAmount
	TradeType    types.TradeType
}

// wrapped maps a native currency to its ERC20 form so pools only hold tokens
func wrapped(c types.Currency) (types.Currency, error) {
	if !c.Native {
		return c, nil
	}
	w, ok := chains.WrappedNative[c.ChainID]
	if !ok {
		return types.Currency{}, fmt.Errorf("no wrapped native currency on chain %d", c.ChainID)
	}
	return w, nil
}

// singleHopPool builds a pool using the two amounts as reserves, sorted by token address
func singleHopPool(a, b types.CurrencyAmount) (Pool, error) {
	ta, err := wrapped(a.Currency)
	if err != nil {
		return Pool{}, err
	}
	tb, err := wrapped(b.Currency)
	if err != nil {
		return Pool{}, err
	}
	if ta.Equals(tb) {
		return Pool{}, ErrSameCurrency
	}
	if a.IsZero() || b.IsZero() {
		return Pool{}, fmt.Errorf("pool reserves must be non-zero")
	}
	if bytes.Compare(ta.Address.Bytes(), tb.Address.Bytes()) < 0 {
		return Pool{Token0: ta, Token1: tb, Reserve0: a.Raw, Reserve1: b.Raw}, nil
	}
	return Pool{Token0: tb, Token1: ta, Reserve0: b.Raw, Reserve1: a.Raw}, nil
}

// NewTrade builds an unchecked single-hop trade from quoted amounts
func NewTrade(input, output types.CurrencyAmount, tradeType types.TradeType) (*Trade, error) {
	if input.Currency.Equals(output.Currency) {
		return nil, ErrSameCurrency
	}
	pool, err := singleHopPool(input, output)
	if err != nil {
		return nil, err
	}
	return &Trade{
		Route: Route{
			Pools:  []Pool{pool},
			Input:  input.Currency,
			Output: output.Currency,
		},
		InputAmount:  input,
		OutputAmount: output,
		TradeType:    tradeType,
	}, nil
}

// ExecutionPrice is the output received per whole unit of input
func (t *Trade) ExecutionPrice() decimal.Decimal {
	in := t.InputAmount.Decimal()
	if in.IsZero() {
		return decimal.Zero
	}
	return t.OutputAmount.Decimal().DivRound(in, int32(t.OutputAmount.Currency.Decimals))
}

// MinimumAmountOut is the least output accepted under the slippage tolerance
func (t *Trade) MinimumAmountOut(slippage types.Percent) types.CurrencyAmount {
	if t.TradeType == types.ExactOutput {
		return t.OutputAmount
	}
	// output * 1 / (1 + slippage)
	num := new(big.Int).Mul(t.OutputAmount.Raw, slippage.Denominator)
	den := new(big.Int).Add(slippage.Denominator, slippage.Numerator)
	return types.NewAmount(t.OutputAmount.Currency, num.Quo(num, den))
}

// MaximumAmountIn is the most input spent under the slippage tolerance
func (t *Trade) MaximumAmountIn(slippage types.Percent) types.CurrencyAmount {
	if t.TradeType == types.ExactInput {
		return t.InputAmount
	}
	return types.NewAmount(t.InputAmount.Currency, types.NewPercent(1, 1).Add(slippage).Apply(t.InputAmount.Raw))
}
