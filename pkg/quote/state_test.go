package quote

import (
	"errors"
	"math/big"
	"testing"

	"dexa-swap/pkg/chains"
	"dexa-swap/pkg/client"
	"dexa-swap/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotFor(p Params, data *client.QuoteResponse, err error) Snapshot {
	return Snapshot{Params: p, Args: BuildArgs(p), Data: data, Err: err}
}

func TestEvaluateSameCurrencyIsAlwaysInvalid(t *testing.T) {
	p := exactIn(usdc, 100, usdc)
	snaps := []Snapshot{
		{Params: p},
		{Params: p, Loading: true},
		{Params: p, Data: quoteResponse("100", "100")},
		{Params: p, Err: errors.New("boom")},
	}
	for _, s := range snaps {
		res := Evaluate(s)
		assert.Equal(t, StateInvalid, res.State)
		assert.ErrorIs(t, res.Err, ErrSameCurrency)
	}
}

func TestEvaluateMissingCurrencyIsInvalid(t *testing.T) {
	p := exactIn(eth, 1, usdc)
	p.OtherCurrency = nil
	assert.Equal(t, StateInvalid, Evaluate(Snapshot{Params: p}).State)

	p = exactIn(eth, 1, usdc)
	p.Amount = nil
	assert.Equal(t, StateInvalid, Evaluate(Snapshot{Params: p}).State)
}

func TestEvaluateLoadingOnlyWithoutData(t *testing.T) {
	p := exactIn(eth, 1_000, usdc)
	s := snapshotFor(p, nil, nil)
	s.Loading = true
	assert.Equal(t, StateLoading, Evaluate(s).State)

	// a refetch keeps showing the previous quote
	s.Data = quoteResponse("1000", "2500")
	assert.Equal(t, StateValid, Evaluate(s).State)
}

func TestEvaluateValidTradeMatchesRawAmounts(t *testing.T) {
	p := exactIn(eth, 1_000_000_000_000_000_000, usdc)
	res := Evaluate(snapshotFor(p, quoteResponse("1000000000000000000", "2512345678"), nil))

	require.Equal(t, StateValid, res.State)
	require.NotNil(t, res.Trade)
	assert.Equal(t, "1000000000000000000", res.Trade.InputAmount.Raw.String())
	assert.Equal(t, "2512345678", res.Trade.OutputAmount.Raw.String())
	assert.True(t, res.Trade.InputAmount.Currency.Equals(eth))
	assert.True(t, res.Trade.OutputAmount.Currency.Equals(usdc))
	assert.Equal(t, types.ExactInput, res.Trade.TradeType)

	require.NotNil(t, res.Tx)
	assert.Equal(t, testAccount, res.Tx.From)
	assert.Equal(t, "0x12aa3caf", res.Tx.Data)
	assert.Equal(t, "150000", res.Tx.Gas)
	assert.Equal(t, 1, res.Tx.Type)
	assert.Nil(t, res.Tx.PaymentToken)
}

func TestEvaluateExactOutput(t *testing.T) {
	p := Params{
		ChainID:       chains.Mainnet,
		Account:       testAccount,
		TradeType:     types.ExactOutput,
		Amount:        amountOf(usdc, 2_500_000_000),
		OtherCurrency: currencyPtr(dai),
	}
	res := Evaluate(snapshotFor(p, quoteResponse("2501000000000000000000", "2500000000"), nil))

	require.Equal(t, StateValid, res.State)
	assert.True(t, res.Trade.InputAmount.Currency.Equals(dai))
	assert.Equal(t, "2500000000", res.Trade.OutputAmount.Raw.String())
}

func TestEvaluateNoRouteFound(t *testing.T) {
	p := exactIn(eth, 1_000, usdc)

	cases := map[string]Snapshot{
		"api error":         snapshotFor(p, nil, errors.New("502 bad gateway")),
		"error with stale":  snapshotFor(p, quoteResponse("1000", "2500"), errors.New("timeout")),
		"missing sell":      snapshotFor(p, quoteResponse("", "2500"), nil),
		"zero sell":         snapshotFor(p, quoteResponse("0", "2500"), nil),
		"no response":       snapshotFor(p, nil, nil),
		"arguments missing": {Params: p, Data: quoteResponse("1000", "2500")},
	}
	for name, s := range cases {
		t.Run(name, func(t *testing.T) {
			res := Evaluate(s)
			assert.Equal(t, StateNoRouteFound, res.State)
			assert.Nil(t, res.Trade)
			assert.Error(t, res.Err)
		})
	}
}

func TestEvaluateExactOutputChecksBuyAmount(t *testing.T) {
	p := Params{
		ChainID:       chains.Mainnet,
		Account:       testAccount,
		TradeType:     types.ExactOutput,
		Amount:        amountOf(usdc, 100),
		OtherCurrency: currencyPtr(eth),
	}
	assert.Equal(t, StateNoRouteFound, Evaluate(snapshotFor(p, quoteResponse("1000", ""), nil)).State)
}

func TestEvaluateMalformedAmountsAreInvalid(t *testing.T) {
	p := exactIn(eth, 1_000, usdc)

	cases := map[string]*client.QuoteResponse{
		"non-numeric buy": quoteResponse("1000", "lots"),
		"negative buy":    quoteResponse("1000", "-5"),
		"zero buy":        quoteResponse("1000", "0"),
		"missing buy":     quoteResponse("1000", ""),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			res := Evaluate(snapshotFor(p, data, nil))
			assert.Equal(t, StateInvalid, res.State)
			assert.Nil(t, res.Trade)
		})
	}
}

func TestEvaluateGasCost(t *testing.T) {
	p := exactIn(eth, 1_000, usdc)
	s := snapshotFor(p, quoteResponse("1000", "2500"), nil)
	s.GasPrice = big.NewInt(20_000_000_000) // 20 gwei

	res := Evaluate(s)
	require.Equal(t, StateValid, res.State)
	require.NotNil(t, res.Tx.GasCost)
	// 20 gwei * 150000 * 85%
	assert.Equal(t, "2550000000000000", res.Tx.GasCost.Raw.String())
	assert.True(t, res.Tx.GasCost.Currency.Native)
}

type stubTokens map[string]types.Currency

func (s stubTokens) Resolve(id string) (types.Currency, error) {
	if c, ok := s[id]; ok {
		return c, nil
	}
	return types.Currency{}, chains.ErrTokenNotFound
}

func TestEvaluateGaslessReportsValidAndPaymentFees(t *testing.T) {
	p := exactIn(dai, 1_000, usdc)
	p.Gasless = true

	data := quoteResponse("1000", "999")
	data.PaymentTokenAddress = types.NativeTokenAddress
	data.PaymentFees = "42"

	res := Evaluate(snapshotFor(p, data, nil))
	require.Equal(t, StateValid, res.State)
	require.NotNil(t, res.Tx.PaymentToken)
	assert.Equal(t, "WETH", res.Tx.PaymentToken.Symbol)
	require.NotNil(t, res.Tx.PaymentFees)
	assert.Equal(t, "42", res.Tx.PaymentFees.Raw.String())
}

func TestEvaluateGaslessResolvesTokenPayment(t *testing.T) {
	p := exactIn(dai, 1_000, usdc)
	p.Gasless = true

	data := quoteResponse("1000", "999")
	data.PaymentTokenAddress = usdc.Address.Hex()
	data.PaymentFees = "3"

	s := snapshotFor(p, data, nil)
	s.Tokens = stubTokens{usdc.Address.Hex(): usdc}

	res := Evaluate(s)
	require.Equal(t, StateValid, res.State)
	assert.Equal(t, "USDC", res.Tx.PaymentToken.Symbol)
	assert.Equal(t, "3", res.Tx.PaymentFees.Raw.String())

	// unknown payment token: quote stays valid without fee details
	s.Tokens = stubTokens{}
	res = Evaluate(s)
	require.Equal(t, StateValid, res.State)
	assert.Nil(t, res.Tx.PaymentToken)
	assert.Nil(t, res.Tx.PaymentFees)
}

func TestTradeStateString(t *testing.T) {
	assert.Equal(t, "VALID", StateValid.String())
	assert.Equal(t, "NO_ROUTE_FOUND", StateNoRouteFound.String())
	assert.Equal(t, "INVALID", StateInvalid.String())
	assert.Equal(t, "LOADING", StateLoading.String())
	assert.Equal(t, 3, int(StateValid))
}
