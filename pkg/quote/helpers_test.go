package quote

import (
	"math/big"

	"dexa-swap/pkg/chains"
	"dexa-swap/pkg/client"
	"dexa-swap/pkg/types"
)

const testAccount = "0x000000000000000000000000000000000000dEaD"

var (
	eth  = types.NewNative(chains.Mainnet, "ETH", "Ether")
	usdc = types.NewToken(chains.Mainnet, "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", 6, "USDC", "USD Coin")
	dai  = types.NewToken(chains.Mainnet, "0x6B175474E89094C44Da98b954EedeAC495271d0F", 18, "DAI", "Dai Stablecoin")
)

func amountOf(c types.Currency, raw int64) *types.CurrencyAmount {
	a := types.NewAmount(c, big.NewInt(raw))
	return &a
}

func currencyPtr(c types.Currency) *types.Currency { return &c }

// exactIn sells raw units of in for out
func exactIn(in types.Currency, raw int64, out types.Currency) Params {
	return Params{
		ChainID:       chains.Mainnet,
		Account:       testAccount,
		TradeType:     types.ExactInput,
		Amount:        amountOf(in, raw),
		OtherCurrency: currencyPtr(out),
	}
}

func quoteResponse(sell, buy string) *client.QuoteResponse {
	return &client.QuoteResponse{
		SellAmount:      client.FlexString(sell),
		BuyAmount:       client.FlexString(buy),
		EstimatedGas:    "150000",
		AllowanceTarget: "0x1111111254fb6c44bAC0beD2854e76F90643097d",
		Tx: &client.TxData{
			To:    "0x1111111254fb6c44bAC0beD2854e76F90643097d",
			Data:  "0x12aa3caf",
			Value: client.FlexString(sell),
		},
	}
}
