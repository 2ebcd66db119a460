package types

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// NativeTokenAddress is the sentinel the quoting API uses for a chain's native currency
const NativeTokenAddress = "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"

// Currency is either a chain's native currency or an ERC20 token
type Currency struct {
	ChainID  int64          `json:"chain_id"`
	Address  common.Address `json:"address"`
	Decimals uint8          `json:"decimals"`
	Symbol   string         `json:"symbol,omitempty"`
	Name     string         `json:"name,omitempty"`
	Native   bool           `json:"native,omitempty"`
}

// NewToken creates an ERC20 currency
func NewToken(chainID int64, address string, decimals uint8, symbol, name string) Currency {
	return Currency{
		ChainID:  chainID,
		Address:  common.HexToAddress(address),
		Decimals: decimals,
		Symbol:   symbol,
		Name:     name,
	}
}

// NewNative creates the native currency of a chain
func NewNative(chainID int64, symbol, name string) Currency {
	return Currency{
		ChainID:  chainID,
		Decimals: 18,
		Symbol:   symbol,
		Name:     name,
		Native:   true,
	}
}

// Equals reports whether both values denote the same on-chain currency
func (c Currency) Equals(other Currency) bool {
	if c.ChainID != other.ChainID || c.Native != other.Native {
		return false
	}
	if c.Native {
		return true
	}
	return c.Address == other.Address
}

// QuoteAddress returns the address sent to the quoting API
func (c Currency) QuoteAddress() string {
	if c.Native {
		return NativeTokenAddress
	}
	return c.Address.Hex()
}

// ID returns the identifier used in swap state and URLs
func (c Currency) ID() string {
	if c.Native {
		return "ETH"
	}
	return c.Address.Hex()
}

// IsNativeAddress reports whether addr is the native sentinel
func IsNativeAddress(addr string) bool {
	return strings.EqualFold(addr, NativeTokenAddress)
}

func (c Currency) String() string {
	if c.Symbol != "" {
		return c.Symbol
	}
	return c.QuoteAddress()
}
