package chains

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"dexa-swap/pkg/types"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrTokenNotFound is returned when a symbol or address cannot be resolved
	ErrTokenNotFound = errors.New("token not found")
	// ErrAmbiguousToken is returned when several user tokens share a symbol
	ErrAmbiguousToken = errors.New("ambiguous token symbol")
)

// WrappedNative is the wrapped ERC20 form of each chain's native currency
var WrappedNative = map[int64]types.Currency{
	Mainnet:         types.NewToken(Mainnet, "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", 18, "WETH", "Wrapped Ether"),
	Kovan:           types.NewToken(Kovan, "0xd0A1E359811322d97991E03f863a0C30C2cF029C", 18, "WETH", "Wrapped Ether"),
	ArbitrumOne:     types.NewToken(ArbitrumOne, "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1", 18, "WETH", "Wrapped Ether"),
	ArbitrumRinkeby: types.NewToken(ArbitrumRinkeby, "0xB47e6A5f8b33b3F17603C83a0535A9dcD7E32681", 18, "WETH", "Wrapped Ether"),
	Optimism:        types.NewToken(Optimism, "0x4200000000000000000000000000000000000006", 18, "WETH", "Wrapped Ether"),
	OptimisticKovan: types.NewToken(OptimisticKovan, "0x4200000000000000000000000000000000000006", 18, "WETH", "Wrapped Ether"),
	Polygon:         types.NewToken(Polygon, "0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270", 18, "WMATIC", "Wrapped MATIC"),
	PolygonMumbai:   types.NewToken(PolygonMumbai, "0x9c3C9283D3e44854697Cd22D3Faa240Cfb032889", 18, "WMATIC", "Wrapped MATIC"),
}

var defaultTokens = map[int64][]types.Currency{
	Mainnet: {
		types.NewToken(Mainnet, "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", 6, "USDC", "USD Coin"),
		types.NewToken(Mainnet, "0xdAC17F958D2ee523a2206206994597C13D831ec7", 6, "USDT", "Tether USD"),
		types.NewToken(Mainnet, "0x6B175474E89094C44Da98b954EedeAC495271d0F", 18, "DAI", "Dai Stablecoin"),
		types.NewToken(Mainnet, "0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599", 8, "WBTC", "Wrapped BTC"),
		types.NewToken(Mainnet, "0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984", 18, "UNI", "Uniswap"),
	},
	ArbitrumOne: {
		types.NewToken(ArbitrumOne, "0xFF970A61A04b1cA14834A43f5dE4533eBDDB5CC8", 6, "USDC", "USD Coin"),
		types.NewToken(ArbitrumOne, "0xDA10009cBd5D07dd0CeCc66161FC93D7c9000da1", 18, "DAI", "Dai Stablecoin"),
	},
	Optimism: {
		types.NewToken(Optimism, "0x7F5c764cBc14f9669B88837ca1490cCa17c31607", 6, "USDC", "USD Coin"),
		types.NewToken(Optimism, "0xDA10009cBd5D07dd0CeCc66161FC93D7c9000da1", 18, "DAI", "Dai Stablecoin"),
	},
	Polygon: {
		types.NewToken(Polygon, "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174", 6, "USDC", "USD Coin"),
		types.NewToken(Polygon, "0x8f3Cf7ad23Cd3CaDbD9735AFf958023239c6A063", 18, "DAI", "Dai Stablecoin"),
		types.NewToken(Polygon, "0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619", 18, "WETH", "Wrapped Ether"),
	},
}

// Native returns the native currency of chainID
func Native(chainID int64) (types.Currency, error) {
	info, err := Get(chainID)
	if err != nil {
		return types.Currency{}, err
	}
	return types.NewNative(chainID, info.NativeSymbol, info.NativeName), nil
}

// Registry resolves currency identifiers for a single chain
type Registry struct {
	chainID int64
	native  types.Currency
	tokens  map[common.Address]types.Currency
	builtin map[common.Address]bool
}

// NewRegistry builds a registry seeded with the chain's default token list
func NewRegistry(chainID int64) (*Registry, error) {
	native, err := Native(chainID)
	if err != nil {
		return nil, err
	}
	r := &Registry{
		chainID: chainID,
		native:  native,
		tokens:  make(map[common.Address]types.Currency),
		builtin: make(map[common.Address]bool),
	}
	if w, ok := WrappedNative[chainID]; ok {
		r.tokens[w.Address] = w
		r.builtin[w.Address] = true
	}
	for _, t := range defaultTokens[chainID] {
		r.tokens[t.Address] = t
		r.builtin[t.Address] = true
	}
	return r, nil
}

// ChainID returns the chain the registry serves
func (r *Registry) ChainID() int64 {
	return r.chainID
}

// Add registers a user token, replacing any token at the same address
func (r *Registry) Add(token types.Currency) error {
	if token.ChainID != r.chainID {
		return fmt.Errorf("token %s is on chain %d, registry is chain %d", token, token.ChainID, r.chainID)
	}
	if token.Native {
		return fmt.Errorf("cannot register native currency as a token")
	}
	r.tokens[token.Address] = token
	return nil
}

// Resolve finds a currency by id: "ETH" or the native symbol, a token address, or a token symbol.
// A symbol shared with a built-in token resolves to the built-in one.
func (r *Registry) Resolve(id string) (types.Currency, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return types.Currency{}, fmt.Errorf("%w: empty identifier", ErrTokenNotFound)
	}
	if strings.EqualFold(id, "ETH") || strings.EqualFold(id, r.native.Symbol) || types.IsNativeAddress(id) {
		return r.native, nil
	}
	if common.IsHexAddress(id) {
		if t, ok := r.tokens[common.HexToAddress(id)]; ok {
			return t, nil
		}
		return types.Currency{}, fmt.Errorf("%w: %s on chain %d", ErrTokenNotFound, id, r.chainID)
	}
	var user []types.Currency
	for addr, t := range r.tokens {
		if !strings.EqualFold(t.Symbol, id) {
			continue
		}
		if r.builtin[addr] {
			return t, nil
		}
		user = append(user, t)
	}
	switch len(user) {
	case 0:
		return types.Currency{}, fmt.Errorf("%w: %s on chain %d", ErrTokenNotFound, id, r.chainID)
	case 1:
		return user[0], nil
	default:
		return types.Currency{}, fmt.Errorf("%w: %d tokens named %s, use the address", ErrAmbiguousToken, len(user), id)
	}
}

// Tokens lists the native currency followed by tokens ordered by symbol
func (r *Registry) Tokens() []types.Currency {
	out := make([]types.Currency, 0, len(r.tokens)+1)
	for _, t := range r.tokens {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Symbol != out[j].Symbol {
			return out[i].Symbol < out[j].Symbol
		}
		return out[i].Address.Hex() < out[j].Address.Hex()
	})
	return append([]types.Currency{r.native}, out...)
}
