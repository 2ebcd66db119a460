package positions

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"dexa-swap/pkg/chains"
	"dexa-swap/pkg/types"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	eth  = types.NewNative(chains.Mainnet, "ETH", "Ether")
	usdc = types.NewToken(chains.Mainnet, "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", 6, "USDC", "USD Coin")
	dai  = types.NewToken(chains.Mainnet, "0x6B175474E89094C44Da98b954EedeAC495271d0F", 18, "DAI", "Dai Stablecoin")
	weth = chains.WrappedNative[chains.Mainnet]

	owner = common.HexToAddress("0x000000000000000000000000000000000000dEaD")
)

// fakeCaller answers pair calls from fixed values and records who was asked
type fakeCaller struct {
	mu       sync.Mutex
	reserve0 *big.Int
	reserve1 *big.Int
	supply   *big.Int
	balance  *big.Int
	empty    bool
	fail     error
	calls    []ethereum.CallMsg
}

func (f *fakeCaller) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, msg)
	f.mu.Unlock()

	if f.fail != nil {
		return nil, f.fail
	}
	if f.empty {
		return nil, nil
	}
	method, err := parsedPair.MethodById(msg.Data[:4])
	if err != nil {
		return nil, err
	}
	switch method.Name {
	case "getReserves":
		return method.Outputs.Pack(f.reserve0, f.reserve1, uint32(1700000000))
	case "totalSupply":
		return method.Outputs.Pack(f.supply)
	default:
		return method.Outputs.Pack(f.balance)
	}
}

func TestPairAddressMatchesDeployedPairs(t *testing.T) {
	pair, err := PairAddress(usdc, weth)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xB4e16d0168e52d35CaCD2c6185b44281Ec28C9Dc"), pair)

	reversed, err := PairAddress(weth, usdc)
	require.NoError(t, err)
	assert.Equal(t, pair, reversed)

	daiPair, err := PairAddress(dai, weth)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xA478c2975Ab1Ea89e8196811F51A7B7Ade33eB11"), daiPair)
}

func TestPairAddressRejects(t *testing.T) {
	_, err := PairAddress(eth, usdc)
	assert.Error(t, err)

	_, err = PairAddress(usdc, usdc)
	assert.Error(t, err)

	opToken := types.NewToken(chains.Optimism, "0x4200000000000000000000000000000000000042", 18, "OP", "")
	_, err = PairAddress(usdc, opToken)
	assert.Error(t, err)

	polyA := types.NewToken(chains.Polygon, "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174", 6, "USDC", "")
	polyB := types.NewToken(chains.Polygon, "0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270", 18, "WMATIC", "")
	_, err = PairAddress(polyA, polyB)
	assert.ErrorIs(t, err, chains.ErrUnsupportedChain)
}

func TestSortTokens(t *testing.T) {
	t0, t1 := SortTokens(weth, usdc)
	assert.True(t, t0.Equals(usdc))
	assert.True(t, t1.Equals(weth))
}

func TestReaderPositionWrapsNativeAndComputesShare(t *testing.T) {
	f := &fakeCaller{
		reserve0: big.NewInt(40_000_000_000),
		reserve1: new(big.Int).Mul(big.NewInt(20), big.NewInt(1e18)),
		supply:   big.NewInt(1_000_000),
		balance:  big.NewInt(250_000),
	}
	r := NewReader(f, zerolog.Nop())

	pos, err := r.Position(context.Background(), owner, eth, usdc)
	require.NoError(t, err)

	assert.Equal(t, common.HexToAddress("0xB4e16d0168e52d35CaCD2c6185b44281Ec28C9Dc"), pos.Pair)
	assert.True(t, pos.Token0.Equals(usdc))
	assert.True(t, pos.Token1.Equals(weth))
	assert.True(t, pos.HasLiquidity())

	share, ok := pos.PoolShare()
	require.True(t, ok)
	assert.Equal(t, "25.000000%", share.ToFixed(6))

	amount0, amount1, ok := pos.Deposited()
	require.True(t, ok)
	assert.Equal(t, "10000", amount0.ToExact())
	assert.Equal(t, "5", amount1.ToExact())
	assert.Equal(t, "UNI-V2", pos.Liquidity().Currency.Symbol)

	f.mu.Lock()
	defer f.mu.Unlock()
	require.Len(t, f.calls, 3)
	for _, c := range f.calls {
		assert.Equal(t, pos.Pair, *c.To)
	}
	assert.True(t, bytes.Contains(f.calls[2].Data, owner.Bytes()), "balanceOf queries the owner")
}

func TestReaderPositionMissingPair(t *testing.T) {
	r := NewReader(&fakeCaller{empty: true}, zerolog.Nop())
	_, err := r.Position(context.Background(), owner, dai, usdc)
	assert.ErrorIs(t, err, ErrNoPair)
}

func TestReaderPositionCallError(t *testing.T) {
	boom := errors.New("rpc down")
	r := NewReader(&fakeCaller{fail: boom}, zerolog.Nop())
	_, err := r.Position(context.Background(), owner, dai, usdc)
	assert.ErrorIs(t, err, boom)
}

func TestPositionWithoutConsistentSupply(t *testing.T) {
	pos := Position{
		Token0:      usdc,
		Token1:      weth,
		Reserve0:    big.NewInt(100),
		Reserve1:    big.NewInt(100),
		TotalSupply: big.NewInt(10),
		Balance:     big.NewInt(20),
	}
	_, ok := pos.PoolShare()
	assert.False(t, ok, "balance above supply")
	_, _, ok = pos.Deposited()
	assert.False(t, ok)

	empty := Position{Token0: usdc, Token1: weth, TotalSupply: big.NewInt(0), Balance: big.NewInt(0)}
	assert.False(t, empty.HasLiquidity())
	_, ok = empty.PoolShare()
	assert.False(t, ok)
	assert.True(t, empty.Liquidity().IsZero())
}
