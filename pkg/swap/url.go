package swap

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ensNamePattern  = regexp.MustCompile(`^[-a-zA-Z0-9@:%._+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b([-a-zA-Z0-9()@:%_+.~#?&/=]*)?$`)
	addressPattern  = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)
	leadingNumber   = regexp.MustCompile(`^\s*[-+]?(\d+\.?\d*|\.\d+)`)
	badRecipients   = map[common.Address]bool{
		common.HexToAddress("0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f"): true, // v2 factory
		common.HexToAddress("0xf164fC0Ec4E93095b804a4795bBe1e041497b92a"): true, // v2 router 01
		common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D"): true, // v2 router 02
	}
)

func parseCurrencyParam(v string) string {
	if common.IsHexAddress(v) && strings.HasPrefix(strings.ToLower(v), "0x") {
		return common.HexToAddress(v).Hex()
	}
	if strings.EqualFold(v, "ETH") {
		return "ETH"
	}
	return ""
}

func parseAmountParam(v string) string {
	if leadingNumber.MatchString(v) {
		return v
	}
	return ""
}

func parseFieldParam(v string) Field {
	if strings.EqualFold(v, "output") {
		return FieldOutput
	}
	return FieldInput
}

// ValidatedRecipient returns the checksummed address or ENS-like name, or "" when invalid
func ValidatedRecipient(recipient string) string {
	if addressPattern.MatchString(recipient) {
		return common.HexToAddress(recipient).Hex()
	}
	if ensNamePattern.MatchString(recipient) {
		return recipient
	}
	return ""
}

// IsBadRecipient reports whether sending swap output to addr would lose it
func IsBadRecipient(addr string) bool {
	if !common.IsHexAddress(addr) {
		return false
	}
	return badRecipients[common.HexToAddress(addr)]
}

// FromQuery builds a swap state from URL query parameters:
// inputCurrency, outputCurrency, exactAmount (or inputAmount), exactField, recipient
func FromQuery(q url.Values) State {
	input := parseCurrencyParam(q.Get("inputCurrency"))
	output := parseCurrencyParam(q.Get("outputCurrency"))
	if input == "" && output == "" {
		// default to ETH input
		input = "ETH"
	} else if input == output {
		output = ""
	}

	st := State{
		InputCurrencyID:  input,
		OutputCurrencyID: output,
		TypedValue:       parseAmountParam(q.Get("exactAmount")),
		IndependentField: parseFieldParam(q.Get("exactField")),
		Recipient:        ValidatedRecipient(q.Get("recipient")),
	}
	if st.TypedValue == "" {
		if v := parseAmountParam(q.Get("inputAmount")); v != "" {
			st.TypedValue = v
			st.IndependentField = FieldInput
		}
	}
	return st
}

// ParseQueryString is FromQuery for a raw "a=b&c=d" string
func ParseQueryString(raw string) (State, error) {
	q, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return State{}, err
	}
	return FromQuery(q), nil
}
