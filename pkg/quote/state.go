package quote

import (
	"errors"
	"fmt"
	"math/big"

	"dexa-swap/pkg/chains"
	"dexa-swap/pkg/client"
	"dexa-swap/pkg/types"
)

// TradeState is the status of a quote request
type TradeState int

const (
	StateLoading TradeState = iota
	StateInvalid
	StateNoRouteFound
	StateValid
)

func (s TradeState) String() string {
	switch s {
	case StateLoading:
		return "LOADING"
	case StateInvalid:
		return "INVALID"
	case StateNoRouteFound:
		return "NO_ROUTE_FOUND"
	case StateValid:
		return "VALID"
	default:
		return fmt.Sprintf("TradeState(%d)", int(s))
	}
}

// gasDiscount is applied to gasPrice*estimatedGas for the displayed gas cost
var gasDiscount = types.NewPercent(8500, 10_000)

// SwapTransaction is the call to submit for a VALID quote
type SwapTransaction struct {
	From            string                `json:"from"`
	To              string                `json:"to"`
	Data            string                `json:"data"`
	Value           string                `json:"value"`
	Gas             string                `json:"gas"`
	Type            int                   `json:"type"`
	GasCost         *types.CurrencyAmount `json:"-"`
	AllowanceTarget string                `json:"allowance_target,omitempty"`
	PaymentToken    *types.Currency       `json:"-"`
	PaymentFees     *types.CurrencyAmount `json:"-"`
}

// Result is the discriminated outcome of a quote
type Result struct {
	State TradeState
	Trade *Trade
	Tx    *SwapTransaction
	// Err explains INVALID and NO_ROUTE_FOUND results when a cause is known
	Err error
}

// TokenLookup resolves token addresses, e.g. a *chains.Registry
type TokenLookup interface {
	Resolve(id string) (types.Currency, error)
}

// Snapshot is the input of Evaluate: the user's params and the query status
type Snapshot struct {
	Params   Params
	Args     *client.QueryArgs
	Loading  bool
	Err      error
	Data     *client.QuoteResponse
	GasPrice *big.Int
	Tokens   TokenLookup
}

var (
	ErrMissingCurrency = errors.New("input or output currency missing")
	ErrSameCurrency    = errors.New("input and output currency are identical")
	ErrNoAmount        = errors.New("quote returned no usable amount")
	ErrNoArguments     = errors.New("quote arguments incomplete")
)

// Evaluate turns the query status into a trade state. It never fails:
// argument problems and malformed amounts give INVALID, API errors and
// missing amounts give NO_ROUTE_FOUND.
func Evaluate(s Snapshot) Result {
	in, out := s.Params.Currencies()
	if in == nil || out == nil {
		return Result{State: StateInvalid, Err: ErrMissingCurrency}
	}
	if in.Equals(*out) {
		return Result{State: StateInvalid, Err: ErrSameCurrency}
	}

	if s.Loading && s.Data == nil {
		// only before the first response for these params
		return Result{State: StateLoading}
	}

	switch {
	case s.Err != nil:
		return Result{State: StateNoRouteFound, Err: s.Err}
	case s.Args == nil:
		return Result{State: StateNoRouteFound, Err: ErrNoArguments}
	case !hasOtherAmount(s.Data, s.Params.TradeType, *in, *out):
		return Result{State: StateNoRouteFound, Err: ErrNoAmount}
	}

	inputAmount, err := types.FromRawAmount(*in, s.Data.SellAmount.String())
	if err != nil {
		return Result{State: StateInvalid, Err: fmt.Errorf("sell amount: %w", err)}
	}
	outputAmount, err := types.FromRawAmount(*out, s.Data.BuyAmount.String())
	if err != nil {
		return Result{State: StateInvalid, Err: fmt.Errorf("buy amount: %w", err)}
	}
	trade, err := NewTrade(inputAmount, outputAmount, s.Params.TradeType)
	if err != nil {
		return Result{State: StateInvalid, Err: err}
	}

	return Result{
		State: StateValid,
		Trade: trade,
		Tx:    buildTransaction(s),
	}
}

// hasOtherAmount checks the amount on the side the quote computed
func hasOtherAmount(data *client.QuoteResponse, tt types.TradeType, in, out types.Currency) bool {
	if data == nil {
		return false
	}
	raw, c := data.SellAmount.String(), in
	if tt == types.ExactOutput {
		raw, c = data.BuyAmount.String(), out
	}
	amount, err := types.FromRawAmount(c, raw)
	return err == nil && !amount.IsZero()
}

func buildTransaction(s Snapshot) *SwapTransaction {
	data := s.Data
	tx := &SwapTransaction{
		From:            s.Params.Account,
		Gas:             data.EstimatedGas.String(),
		Type:            1,
		AllowanceTarget: data.AllowanceTarget,
	}
	if data.Tx != nil {
		tx.To = data.Tx.To
		tx.Data = data.Tx.Data
		tx.Value = data.Tx.Value.String()
	}
	tx.GasCost = GasCost(s.Params.ChainID, s.GasPrice, tx.Gas)

	if s.Params.Gasless {
		tx.PaymentToken, tx.PaymentFees = paymentFees(s)
	}
	return tx
}

// GasCost estimates gasPrice*estimatedGas*85% in the chain's native currency
func GasCost(chainID int64, gasPrice *big.Int, estimatedGas string) *types.CurrencyAmount {
	if gasPrice == nil || estimatedGas == "" {
		return nil
	}
	gas, ok := new(big.Int).SetString(estimatedGas, 10)
	if !ok {
		return nil
	}
	native, err := chains.Native(chainID)
	if err != nil {
		return nil
	}
	cost := gasDiscount.Apply(new(big.Int).Mul(gasPrice, gas))
	amount := types.NewAmount(native, cost)
	return &amount
}

// paymentFees resolves the token a gasless quote charges its fee in
func paymentFees(s Snapshot) (*types.Currency, *types.CurrencyAmount) {
	addr := s.Data.PaymentTokenAddress
	if addr == "" {
		return nil, nil
	}

	var token types.Currency
	if types.IsNativeAddress(addr) {
		w, ok := chains.WrappedNative[s.Params.ChainID]
		if !ok {
			return nil, nil
		}
		token = w
	} else {
		if s.Tokens == nil {
			return nil, nil
		}
		t, err := s.Tokens.Resolve(addr)
		if err != nil {
			return nil, nil
		}
		token = t
	}

	if s.Data.PaymentFees == "" {
		return &token, nil
	}
	fees, err := types.FromRawAmount(token, s.Data.PaymentFees.String())
	if err != nil {
		return &token, nil
	}
	return &token, &fees
}
