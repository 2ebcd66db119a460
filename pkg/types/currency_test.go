package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrencyEquals(t *testing.T) {
	lower := NewToken(1, "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", 6, "", "")
	otherChain := NewToken(137, testUSDC.Address.Hex(), 6, "USDC", "USD Coin")

	assert.True(t, testUSDC.Equals(lower))
	assert.False(t, testUSDC.Equals(otherChain))
	assert.False(t, testUSDC.Equals(testETH))
	assert.True(t, testETH.Equals(NewNative(1, "ETH", "Ether")))
	assert.False(t, testETH.Equals(NewNative(10, "ETH", "Ether")))
}

func TestQuoteAddress(t *testing.T) {
	assert.Equal(t, NativeTokenAddress, testETH.QuoteAddress())
	assert.Equal(t, "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", testUSDC.QuoteAddress())
	assert.True(t, IsNativeAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE"))
	assert.False(t, IsNativeAddress(testUSDC.QuoteAddress()))
}

func TestCurrencyIDAndString(t *testing.T) {
	assert.Equal(t, "ETH", testETH.ID())
	assert.Equal(t, testUSDC.Address.Hex(), testUSDC.ID())
	assert.Equal(t, "USDC", testUSDC.String())
	assert.Equal(t, testUSDC.Address.Hex(), NewToken(1, testUSDC.Address.Hex(), 6, "", "").String())
}

func TestTradeTypeString(t *testing.T) {
	assert.Equal(t, "EXACT_INPUT", ExactInput.String())
	assert.Equal(t, "EXACT_OUTPUT", ExactOutput.String())
}
