// Package chains holds the static per-network configuration: supported chain
// IDs, contract addresses, wrapped native currencies and the default token list.
package chains

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrUnsupportedChain is returned for chain IDs or names this client does not know
var ErrUnsupportedChain = errors.New("unsupported chain")

const (
	Mainnet         int64 = 1
	Ropsten         int64 = 3
	Rinkeby         int64 = 4
	Goerli          int64 = 5
	Kovan           int64 = 42
	ArbitrumOne     int64 = 42161
	ArbitrumRinkeby int64 = 421611
	Optimism        int64 = 10
	OptimisticKovan int64 = 69
	Polygon         int64 = 137
	PolygonMumbai   int64 = 80001
)

// L2DeadlineFromNow is the fixed transaction TTL used on L2 networks
const L2DeadlineFromNow = 5 * time.Minute

// Info describes a supported network
type Info struct {
	ChainID      int64  `json:"chain_id"`
	Name         string `json:"name"`
	Label        string `json:"label"`
	NativeSymbol string `json:"native_symbol"`
	NativeName   string `json:"native_name"`
	ExplorerURL  string `json:"explorer_url"`
	L2           bool   `json:"l2"`
	Testnet      bool   `json:"testnet"`
}

var chainInfo = map[int64]Info{
	Mainnet:         {Mainnet, "ethereum", "Ethereum", "ETH", "Ether", "https://etherscan.io/", false, false},
	Kovan:           {Kovan, "kovan", "Kovan", "ETH", "Ether", "https://kovan.etherscan.io/", false, true},
	ArbitrumOne:     {ArbitrumOne, "arbitrum", "Arbitrum", "ETH", "Ether", "https://arbiscan.io/", true, false},
	ArbitrumRinkeby: {ArbitrumRinkeby, "arbitrumrinkeby", "Arbitrum Rinkeby", "ETH", "Ether", "https://rinkeby-explorer.arbitrum.io/", true, true},
	Optimism:        {Optimism, "optimism", "Optimism", "ETH", "Ether", "https://optimistic.etherscan.io/", true, false},
	OptimisticKovan: {OptimisticKovan, "optimistickovan", "Optimistic Kovan", "ETH", "Ether", "https://kovan-optimistic.etherscan.io/", true, true},
	Polygon:         {Polygon, "polygon", "Polygon", "MATIC", "Polygon Matic", "https://polygonscan.com/", false, false},
	PolygonMumbai:   {PolygonMumbai, "mumbai", "Polygon Mumbai", "MATIC", "Polygon Matic", "https://mumbai.polygonscan.com/", false, true},
}

// Get returns the network info for chainID
func Get(chainID int64) (Info, error) {
	info, ok := chainInfo[chainID]
	if !ok {
		return Info{}, fmt.Errorf("%w: %d", ErrUnsupportedChain, chainID)
	}
	return info, nil
}

// IsSupported reports whether chainID is a supported network
func IsSupported(chainID int64) bool {
	_, ok := chainInfo[chainID]
	return ok
}

// IsL2 reports whether chainID is a rollup network
func IsL2(chainID int64) bool {
	return chainInfo[chainID].L2
}

// All returns every supported network ordered by chain ID
func All() []Info {
	out := make([]Info, 0, len(chainInfo))
	for _, info := range chainInfo {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChainID < out[j].ChainID })
	return out
}

// Parse resolves a chain ID or chain name ("polygon", "137")
func Parse(s string) (int64, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		if !IsSupported(id) {
			return 0, fmt.Errorf("%w: %d", ErrUnsupportedChain, id)
		}
		return id, nil
	}
	aliases := map[string]string{"eth": "ethereum", "mainnet": "ethereum", "arb": "arbitrum", "op": "optimism", "matic": "polygon"}
	if alias, ok := aliases[s]; ok {
		s = alias
	}
	for id, info := range chainInfo {
		if info.Name == s {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedChain, s)
}

// ExplorerTxURL links a transaction hash on the chain's block explorer
func ExplorerTxURL(chainID int64, hash string) string {
	info, ok := chainInfo[chainID]
	if !ok {
		return ""
	}
	return info.ExplorerURL + "tx/" + hash
}
