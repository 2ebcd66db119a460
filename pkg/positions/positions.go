// Package positions reads an account's liquidity in v2 pairs.
package positions

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"dexa-swap/pkg/chains"
	"dexa-swap/pkg/types"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"
)

// ErrNoPair is returned when no pair contract exists for two tokens
var ErrNoPair = errors.New("pair not deployed")

const pairABI = `[
{"constant":true,"inputs":[],"name":"getReserves","outputs":[{"name":"reserve0","type":"uint112"},{"name":"reserve1","type":"uint112"},{"name":"blockTimestampLast","type":"uint32"}],"type":"function"},
{"constant":true,"inputs":[],"name":"totalSupply","outputs":[{"name":"","type":"uint256"}],"type":"function"},
{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"}
]`

var parsedPair = func() abi.ABI {
	a, err := abi.JSON(strings.NewReader(pairABI))
	if err != nil {
		panic(err)
	}
	return a
}()

// Caller runs read-only contract calls. *ethclient.Client implements it.
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// LiquidityToken is the ERC20 a pair mints to liquidity providers
func LiquidityToken(chainID int64, pair common.Address) types.Currency {
	return types.NewToken(chainID, pair.Hex(), 18, "UNI-V2", "Uniswap V2")
}

// SortTokens orders two tokens by address, as pair contracts do
func SortTokens(a, b types.Currency) (types.Currency, types.Currency) {
	if bytes.Compare(a.Address.Bytes(), b.Address.Bytes()) < 0 {
		return a, b
	}
	return b, a
}

// PairAddress computes the CREATE2 address of the pair for two tokens
func PairAddress(a, b types.Currency) (common.Address, error) {
	if a.ChainID != b.ChainID {
		return common.Address{}, fmt.Errorf("tokens are on different chains (%d, %d)", a.ChainID, b.ChainID)
	}
	if a.Native || b.Native {
		return common.Address{}, fmt.Errorf("pairs hold wrapped tokens, not %s", a.String()+"/"+b.String())
	}
	if a.Equals(b) {
		return common.Address{}, fmt.Errorf("pair needs two different tokens")
	}
	factory, err := chains.V2FactoryAddress.Lookup(a.ChainID)
	if err != nil {
		return common.Address{}, err
	}

	t0, t1 := SortTokens(a, b)
	salt := crypto.Keccak256Hash(t0.Address.Bytes(), t1.Address.Bytes())
	return crypto.CreateAddress2(factory, salt, chains.V2PairInitCodeHash.Bytes()), nil
}

// Position is an account's stake in one pair
type Position struct {
	Pair        common.Address
	Token0      types.Currency
	Token1      types.Currency
	Reserve0    *big.Int
	Reserve1    *big.Int
	TotalSupply *big.Int
	Balance     *big.Int
}

// Liquidity returns the account's pool tokens
func (p Position) Liquidity() types.CurrencyAmount {
	balance := p.Balance
	if balance == nil {
		balance = new(big.Int)
	}
	return types.NewAmount(LiquidityToken(p.Token0.ChainID, p.Pair), balance)
}

func (p Position) HasLiquidity() bool {
	return p.Balance != nil && p.Balance.Sign() > 0
}

// consistent is false while the balance read is ahead of the supply read
func (p Position) consistent() bool {
	return p.Balance != nil && p.TotalSupply != nil &&
		p.TotalSupply.Sign() > 0 && p.TotalSupply.Cmp(p.Balance) >= 0
}

// PoolShare is balance / totalSupply
func (p Position) PoolShare() (types.Percent, bool) {
	if !p.consistent() {
		return types.Percent{}, false
	}
	return types.Percent{
		Numerator:   new(big.Int).Set(p.Balance),
		Denominator: new(big.Int).Set(p.TotalSupply),
	}, true
}

// Deposited returns the token amounts the account's liquidity redeems for,
// liquidity * reserve / totalSupply, without the protocol fee.
func (p Position) Deposited() (types.CurrencyAmount, types.CurrencyAmount, bool) {
	if !p.consistent() || p.Reserve0 == nil || p.Reserve1 == nil {
		return types.CurrencyAmount{}, types.CurrencyAmount{}, false
	}
	value := func(reserve *big.Int) *big.Int {
		v := new(big.Int).Mul(p.Balance, reserve)
		return v.Quo(v, p.TotalSupply)
	}
	return types.NewAmount(p.Token0, value(p.Reserve0)), types.NewAmount(p.Token1, value(p.Reserve1)), true
}

// Reader reads positions over RPC
type Reader struct {
	caller Caller
	log    zerolog.Logger
}

func NewReader(caller Caller, log zerolog.Logger) *Reader {
	return &Reader{caller: caller, log: log.With().Str("component", "positions").Logger()}
}

// Position reads owner's stake in the pair of a and b. Native currencies
// are replaced by their wrapped token.
func (r *Reader) Position(ctx context.Context, owner common.Address, a, b types.Currency) (*Position, error) {
	a, err := wrap(a)
	if err != nil {
		return nil, err
	}
	b, err = wrap(b)
	if err != nil {
		return nil, err
	}
	pair, err := PairAddress(a, b)
	if err != nil {
		return nil, err
	}
	t0, t1 := SortTokens(a, b)

	reserves, err := r.call(ctx, pair, "getReserves")
	if err != nil {
		return nil, err
	}
	supply, err := r.call(ctx, pair, "totalSupply")
	if err != nil {
		return nil, err
	}
	balance, err := r.call(ctx, pair, "balanceOf", owner)
	if err != nil {
		return nil, err
	}

	pos := &Position{
		Pair:        pair,
		Token0:      t0,
		Token1:      t1,
		Reserve0:    reserves[0].(*big.Int),
		Reserve1:    reserves[1].(*big.Int),
		TotalSupply: supply[0].(*big.Int),
		Balance:     balance[0].(*big.Int),
	}
	r.log.Debug().
		Str("pair", pair.Hex()).
		Str("balance", pos.Balance.String()).
		Str("total_supply", pos.TotalSupply.String()).
		Msg("read position")
	return pos, nil
}

func (r *Reader) call(ctx context.Context, pair common.Address, method string, args ...interface{}) ([]interface{}, error) {
	data, err := parsedPair.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s data: %w", method, err)
	}
	out, err := r.caller.CallContract(ctx, ethereum.CallMsg{To: &pair, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPair, pair.Hex())
	}
	values, err := parsedPair.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", method, err)
	}
	return values, nil
}

func wrap(c types.Currency) (types.Currency, error) {
	if !c.Native {
		return c, nil
	}
	w, ok := chains.WrappedNative[c.ChainID]
	if !ok {
		return types.Currency{}, fmt.Errorf("%w: no wrapped native token on chain %d", chains.ErrUnsupportedChain, c.ChainID)
	}
	return w, nil
}
