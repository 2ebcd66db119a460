package swap

import (
	"testing"

	"dexa-swap/pkg/chains"
	"dexa-swap/pkg/quote"
	"dexa-swap/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mainnetRegistry(t *testing.T) *chains.Registry {
	t.Helper()
	r, err := chains.NewRegistry(chains.Mainnet)
	require.NoError(t, err)
	return r
}

func TestTryParseAmount(t *testing.T) {
	usdc := types.NewToken(chains.Mainnet, usdcAddr, 6, "USDC", "USD Coin")

	a := TryParseAmount("1.5", &usdc)
	require.NotNil(t, a)
	assert.Equal(t, "1500000", a.Raw.String())

	assert.Nil(t, TryParseAmount("", &usdc))
	assert.Nil(t, TryParseAmount("0", &usdc))
	assert.Nil(t, TryParseAmount("0.0000001", &usdc))
	assert.Nil(t, TryParseAmount("abc", &usdc))
	assert.Nil(t, TryParseAmount("1", nil))
}

func TestDeriveExactInput(t *testing.T) {
	st := State{InputCurrencyID: "ETH", OutputCurrencyID: "USDC", IndependentField: FieldInput, TypedValue: "1"}
	p := Derive(st, mainnetRegistry(t), Options{
		ChainID:  chains.Mainnet,
		Account:  "0x000000000000000000000000000000000000dEaD",
		Slippage: types.BasisPoints(100),
	})

	assert.Equal(t, types.ExactInput, p.TradeType)
	require.NotNil(t, p.Amount)
	assert.True(t, p.Amount.Currency.Native)
	assert.Equal(t, "1000000000000000000", p.Amount.Raw.String())
	require.NotNil(t, p.OtherCurrency)
	assert.Equal(t, "USDC", p.OtherCurrency.Symbol)

	args := quote.BuildArgs(p)
	require.NotNil(t, args)
	assert.Equal(t, "0.01", args.Slippage)
}

func TestDeriveExactOutput(t *testing.T) {
	st := State{InputCurrencyID: "ETH", OutputCurrencyID: usdcAddr, IndependentField: FieldOutput, TypedValue: "100"}
	p := Derive(st, mainnetRegistry(t), Options{ChainID: chains.Mainnet})

	assert.Equal(t, types.ExactOutput, p.TradeType)
	require.NotNil(t, p.Amount)
	assert.Equal(t, "100000000", p.Amount.Raw.String())
	in, out := p.Currencies()
	require.NotNil(t, in)
	require.NotNil(t, out)
	assert.True(t, in.Native)
	assert.Equal(t, "USDC", out.Symbol)
}

func TestDeriveUnknownCurrencyIsInvalid(t *testing.T) {
	st := State{InputCurrencyID: "ETH", OutputCurrencyID: "NOPE", IndependentField: FieldInput, TypedValue: "1"}
	p := Derive(st, mainnetRegistry(t), Options{ChainID: chains.Mainnet, Account: "0x000000000000000000000000000000000000dEaD"})

	assert.Nil(t, p.OtherCurrency)
	assert.Equal(t, quote.StateInvalid, quote.Evaluate(quote.Snapshot{Params: p}).State)
}

func TestDeriveWithoutAmountIsInvalid(t *testing.T) {
	st := State{InputCurrencyID: "ETH", OutputCurrencyID: "USDC", IndependentField: FieldInput}
	p := Derive(st, mainnetRegistry(t), Options{ChainID: chains.Mainnet})

	assert.Nil(t, p.Amount)
	assert.Nil(t, quote.BuildArgs(p))
	assert.Equal(t, quote.StateInvalid, quote.Evaluate(quote.Snapshot{Params: p}).State)
}
