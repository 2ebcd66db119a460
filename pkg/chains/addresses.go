package chains

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// AddressMap maps chain IDs to a contract address
type AddressMap map[int64]common.Address

var defaultNetworks = []int64{Mainnet, Ropsten, Rinkeby, Goerli, Kovan}

// sameAddressMap deploys address on the default L1 networks plus additional
func sameAddressMap(address string, additional ...int64) AddressMap {
	m := make(AddressMap)
	addr := common.HexToAddress(address)
	for _, id := range defaultNetworks {
		m[id] = addr
	}
	for _, id := range additional {
		m[id] = addr
	}
	return m
}

func merge(base AddressMap, overrides AddressMap) AddressMap {
	for id, addr := range overrides {
		base[id] = addr
	}
	return base
}

// V2PairInitCodeHash is the creation code hash of v2 pair contracts
var V2PairInitCodeHash = common.HexToHash("0x96e8ac4277198ff8b6f785478aa9a39f403cb768dd02cbee326c3e7da348845f")

var (
	MulticallAddress = merge(
		sameAddressMap("0x1F98415757620B543A52E61c46B32eB19261F984", OptimisticKovan, Optimism, PolygonMumbai, Polygon),
		AddressMap{
			ArbitrumOne:     common.HexToAddress("0xadF885960B47eA2CD9B55E6DAc6B42b7Cb2806dB"),
			ArbitrumRinkeby: common.HexToAddress("0xa501c031958F579dB7676fF1CE78AD305794d579"),
		},
	)

	InchRouterAddress = merge(
		sameAddressMap("0x1111111254fb6c44bAC0beD2854e76F90643097d", OptimisticKovan, PolygonMumbai, Polygon),
		AddressMap{
			Optimism:        common.HexToAddress("0x1111111254760f7ab3f16433eea9304126dcd199"),
			ArbitrumOne:     common.HexToAddress("0x1111111254fb6c44bac0bed2854e76f90643097d"),
			ArbitrumRinkeby: common.HexToAddress("0xa501c031958F579dB7676fF1CE78AD305794d579"),
		},
	)

	V2FactoryAddress = sameAddressMap("0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f")

	V3CoreFactoryAddress = sameAddressMap("0x1F98431c8aD98523631AE4a59f267346ea31F984",
		Optimism, OptimisticKovan, ArbitrumOne, ArbitrumRinkeby, PolygonMumbai, Polygon)

	QuoterAddress = sameAddressMap("0xb27308f9F90D607463bb33eA1BeBb41C27CE5AB6",
		Optimism, OptimisticKovan, ArbitrumOne, ArbitrumRinkeby, PolygonMumbai, Polygon)

	SwapRouterAddress = sameAddressMap("0xE592427A0AEce92De3Edee1F18E0157C05861564",
		Optimism, OptimisticKovan, ArbitrumOne, ArbitrumRinkeby)

	PositionManagerAddress = sameAddressMap("0xC36442b4a4522E871399CD717aBDD847Ab11FE88",
		Optimism, OptimisticKovan, ArbitrumOne, ArbitrumRinkeby, PolygonMumbai, Polygon)

	ENSRegistrarAddress = AddressMap{
		Mainnet: common.HexToAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e"),
		Ropsten: common.HexToAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e"),
		Goerli:  common.HexToAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e"),
		Rinkeby: common.HexToAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e"),
	}
)

// Lookup returns the address deployed on chainID
func (m AddressMap) Lookup(chainID int64) (common.Address, error) {
	addr, ok := m[chainID]
	if !ok {
		return common.Address{}, fmt.Errorf("%w: no deployment on chain %d", ErrUnsupportedChain, chainID)
	}
	return addr, nil
}

// Contracts lists the named contract deployments of a chain
func Contracts(chainID int64) map[string]common.Address {
	named := map[string]AddressMap{
		"multicall":        MulticallAddress,
		"1inch_router":     InchRouterAddress,
		"v2_factory":       V2FactoryAddress,
		"v3_factory":       V3CoreFactoryAddress,
		"quoter":           QuoterAddress,
		"swap_router":      SwapRouterAddress,
		"position_manager": PositionManagerAddress,
		"ens_registrar":    ENSRegistrarAddress,
	}
	out := make(map[string]common.Address)
	for name, m := range named {
		if addr, ok := m[chainID]; ok {
			out[name] = addr
		}
	}
	return out
}
