package client

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strconv"
)

// Endpoint is a quoting API operation
type Endpoint string

const (
	EndpointQuote   Endpoint = "getQuote"
	EndpointGasless Endpoint = "getGaslessQuote"
)

// QueryArgs are the query-string arguments of a quote request.
// Nil pointer fields are left out of the encoded query.
type QueryArgs struct {
	ChainID             int64
	FromAddress         string
	SellTokenAddress    string
	BuyTokenAddress     string
	SellTokenAmount     *string
	BuyTokenAmount      *string
	Recipient           *string
	Slippage            string
	Affiliate           *string
	AffiliateFee        *string
	SkipValidation      bool
	SignaturePermitData *string
}

// Values encodes the arguments, skipping nulls
func (a QueryArgs) Values() url.Values {
	q := url.Values{}
	q.Set("fromAddress", a.FromAddress)
	q.Set("sellTokenAddress", a.SellTokenAddress)
	q.Set("buyTokenAddress", a.BuyTokenAddress)
	setOptional(q, "sellTokenAmount", a.SellTokenAmount)
	setOptional(q, "buyTokenAmount", a.BuyTokenAmount)
	setOptional(q, "recipient", a.Recipient)
	q.Set("slippage", a.Slippage)
	setOptional(q, "affiliate", a.Affiliate)
	setOptional(q, "affiliateFee", a.AffiliateFee)
	q.Set("skipValidation", strconv.FormatBool(a.SkipValidation))
	setOptional(q, "signaturePermitData", a.SignaturePermitData)
	return q
}

// Key identifies the request; two args with equal keys produce the same query
func (a QueryArgs) Key() string {
	return strconv.FormatInt(a.ChainID, 10) + "?" + a.Values().Encode()
}

func setOptional(q url.Values, key string, v *string) {
	if v != nil {
		q.Set(key, *v)
	}
}

// FlexString decodes a JSON string or number into its textual form; null decodes to ""
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// TxData is the destination contract call returned with a quote
type TxData struct {
	From  string     `json:"from,omitempty"`
	To    string     `json:"to"`
	Data  string     `json:"data"`
	Value FlexString `json:"value"`
}

// QuoteResponse is the body of getQuote and getGaslessQuote.
// The payment fields are only set by the gasless endpoint.
type QuoteResponse struct {
	SellAmount          FlexString `json:"sellAmount"`
	BuyAmount           FlexString `json:"buyAmount"`
	EstimatedGas        FlexString `json:"estimatedGas"`
	AllowanceTarget     string     `json:"allowanceTarget,omitempty"`
	Tx                  *TxData    `json:"tx,omitempty"`
	PaymentTokenAddress string     `json:"paymentTokenAddress,omitempty"`
	PaymentFees         FlexString `json:"paymentFees,omitempty"`
}
