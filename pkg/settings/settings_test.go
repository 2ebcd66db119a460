package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"dexa-swap/pkg/chains"
	"dexa-swap/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)
	return s
}

func TestOpenMissingFileUsesDefaults(t *testing.T) {
	s := openTemp(t)
	u := s.Get()

	assert.Equal(t, int64(0), u.SlippageBps)
	assert.Equal(t, "auto", u.SlippageLabel())
	assert.Equal(t, DefaultDeadline, u.TTL(chains.Mainnet))
	assert.False(t, u.Gasless)
	assert.Nil(t, u.GasPriceWei())

	_, err := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestSettingsPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	s, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, s.SetSlippage(100))
	require.NoError(t, s.SetDeadline(10*time.Minute))
	require.NoError(t, s.SetGasless(true))
	require.NoError(t, s.SetGasPrice("1.5"))
	require.NoError(t, s.SetExpertMode(true))

	reopened, err := Open(path)
	require.NoError(t, err)
	u := reopened.Get()

	assert.Equal(t, int64(100), u.SlippageBps)
	assert.Equal(t, "0.01", u.SlippageTolerance(types.BasisPoints(50)).Significant(6))
	assert.Equal(t, 10*time.Minute, u.TTL(chains.Mainnet))
	assert.True(t, u.ExpertMode)
	assert.Equal(t, "1500000000", u.GasPriceWei().String())

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestSlippageBounds(t *testing.T) {
	s := openTemp(t)

	assert.ErrorIs(t, s.SetSlippage(5001), ErrInvalidSlippage)
	assert.ErrorIs(t, s.SetSlippage(-1), ErrInvalidSlippage)
	require.NoError(t, s.SetSlippage(5000))
	require.NoError(t, s.SetSlippage(0))
	assert.Equal(t, "auto", s.Get().SlippageLabel())
}

func TestParseSlippage(t *testing.T) {
	cases := map[string]int64{"auto": 0, "": 0, "50": 50, "0.5%": 50, "1%": 100, "50%": 5000}
	for in, want := range cases {
		got, err := ParseSlippage(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"0", "5001", "0.001%", "abc", "51%"} {
		_, err := ParseSlippage(in)
		assert.ErrorIs(t, err, ErrInvalidSlippage, in)
	}
}

func TestL2UsesFixedDeadline(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.SetDeadline(time.Hour))
	u := s.Get()

	assert.Equal(t, time.Hour, u.TTL(chains.Mainnet))
	assert.Equal(t, 5*time.Minute, u.TTL(chains.ArbitrumOne))
	assert.Equal(t, 5*time.Minute, u.TTL(chains.Optimism))

	now := time.Unix(1_700_000_000, 0)
	assert.Equal(t, now.Add(5*time.Minute), u.Deadline(chains.Optimism, now))
}

func TestInvalidDeadlineAndGasPrice(t *testing.T) {
	s := openTemp(t)
	assert.ErrorIs(t, s.SetDeadline(30*time.Second), ErrInvalidDeadline)
	assert.ErrorIs(t, s.SetGasPrice("0"), ErrInvalidGasPrice)
	assert.ErrorIs(t, s.SetGasPrice("fast"), ErrInvalidGasPrice)

	require.NoError(t, s.SetGasPrice("20"))
	require.NoError(t, s.SetGasPrice(""))
	assert.Nil(t, s.Get().GasPriceWei())
}

func TestGaslessOnlyOnPolygon(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.SetGasless(true))
	u := s.Get()

	assert.True(t, u.GaslessEnabled(chains.Polygon))
	assert.False(t, u.GaslessEnabled(chains.Mainnet))
}

func TestUserTokens(t *testing.T) {
	s := openTemp(t)
	tok := types.NewToken(chains.Mainnet, "0x4200000000000000000000000000000000000042", 18, "FOO", "Foo")

	require.NoError(t, s.AddToken(tok))
	tok.Symbol = "FOO2"
	require.NoError(t, s.AddToken(tok))
	require.Len(t, s.Get().UserTokens(chains.Mainnet), 1)
	assert.Equal(t, "FOO2", s.Get().UserTokens(chains.Mainnet)[0].Symbol)

	assert.Error(t, s.AddToken(types.NewNative(chains.Mainnet, "ETH", "Ether")))

	require.NoError(t, s.RemoveToken(chains.Mainnet, "0x4200000000000000000000000000000000000042"))
	assert.Empty(t, s.Get().UserTokens(chains.Mainnet))
	assert.ErrorIs(t, s.RemoveToken(chains.Mainnet, "0x4200000000000000000000000000000000000042"), chains.ErrTokenNotFound)
}

func TestPairs(t *testing.T) {
	s := openTemp(t)
	p := Pair{ChainID: chains.Mainnet, Token0: "0xaa", Token1: "0xbb"}

	require.NoError(t, s.AddPair(p))
	require.NoError(t, s.AddPair(Pair{ChainID: chains.Mainnet, Token0: "0xBB", Token1: "0xAA"}))
	assert.Len(t, s.Get().Pairs, 1)

	assert.Error(t, s.AddPair(Pair{ChainID: chains.Mainnet, Token0: "0xaa", Token1: "0xAA"}))

	require.NoError(t, s.RemovePair(chains.Mainnet, "0xbb", "0xaa"))
	assert.Empty(t, s.Get().Pairs)
	assert.ErrorIs(t, s.RemovePair(chains.Mainnet, "0xbb", "0xaa"), ErrPairNotFound)
}

func TestPairsOn(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.AddPair(Pair{ChainID: chains.Mainnet, Token0: "0xaa", Token1: "0xbb"}))
	require.NoError(t, s.AddPair(Pair{ChainID: chains.Polygon, Token0: "0xaa", Token1: "0xbb"}))

	pairs := s.Get().PairsOn(chains.Polygon)
	require.Len(t, pairs, 1)
	assert.Equal(t, chains.Polygon, pairs[0].ChainID)
	assert.Empty(t, s.Get().PairsOn(chains.Optimism))
}

func TestGetReturnsCopy(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.AddToken(types.NewToken(chains.Mainnet, "0x4200000000000000000000000000000000000042", 18, "FOO", "Foo")))

	u := s.Get()
	u.Tokens[chains.Mainnet][0].Symbol = "MUTATED"
	assert.Equal(t, "FOO", s.Get().UserTokens(chains.Mainnet)[0].Symbol)
}

func TestCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := Open(path)
	assert.Error(t, err)
}
