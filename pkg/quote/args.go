package quote

import (
	"strings"

	"dexa-swap/pkg/client"
	"dexa-swap/pkg/types"
)

// DefaultSlippage replaces an "auto" slippage tolerance
var DefaultSlippage = types.BasisPoints(50)

// AffiliateFee is sent whenever an affiliate address is present
const AffiliateFee = "0.01"

// Params is everything the user has selected for a quote
type Params struct {
	ChainID             int64
	Account             string
	TradeType           types.TradeType
	Amount              *types.CurrencyAmount // the amount of the fixed side
	OtherCurrency       *types.Currency
	Recipient           string
	Affiliate           string
	Slippage            types.Percent
	SkipValidation      bool
	SignaturePermitData string
	Gasless             bool
	SkipRequest         bool
}

// Currencies returns the input and output currency implied by the trade direction
func (p Params) Currencies() (in, out *types.Currency) {
	var specified *types.Currency
	if p.Amount != nil {
		c := p.Amount.Currency
		specified = &c
	}
	if p.TradeType == types.ExactInput {
		return specified, p.OtherCurrency
	}
	return p.OtherCurrency, specified
}

// Endpoint returns the API operation for the params
func (p Params) Endpoint() client.Endpoint {
	if p.Gasless {
		return client.EndpointGasless
	}
	return client.EndpointQuote
}

// BuildArgs returns the quote request for p, or nil when no request can be made:
// missing chain, account, currency or amount, or identical currencies.
func BuildArgs(p Params) *client.QueryArgs {
	in, out := p.Currencies()
	if p.ChainID == 0 || p.Account == "" || in == nil || out == nil || p.Amount == nil || p.Amount.Raw == nil || in.Equals(*out) {
		return nil
	}

	slippage := p.Slippage
	if slippage.Denominator == nil || slippage.Denominator.Sign() == 0 {
		slippage = DefaultSlippage
	}

	args := &client.QueryArgs{
		ChainID:          p.ChainID,
		FromAddress:      p.Account,
		SellTokenAddress: in.QuoteAddress(),
		BuyTokenAddress:  out.QuoteAddress(),
		Slippage:         slippage.Significant(6),
		SkipValidation:   p.SkipValidation,
	}

	amount := p.Amount.Raw.String()
	if p.TradeType == types.ExactInput {
		args.SellTokenAmount = &amount
	} else {
		args.BuyTokenAmount = &amount
	}
	if r := strings.TrimSpace(p.Recipient); r != "" {
		args.Recipient = &r
	}
	if a := strings.TrimSpace(p.Affiliate); a != "" {
		fee := AffiliateFee
		args.Affiliate = &a
		args.AffiliateFee = &fee
	}
	if p.SignaturePermitData != "" {
		sig := p.SignaturePermitData
		args.SignaturePermitData = &sig
	}
	return args
}
