package wallet

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"dexa-swap/pkg/quote"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"
)

// ErrInsufficientBalance is returned when the account cannot pay value plus gas
var ErrInsufficientBalance = errors.New("insufficient balance")

const erc20ABI = `[
{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"type":"function"},
{"constant":true,"inputs":[{"name":"_owner","type":"address"},{"name":"_spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"type":"function"},
{"constant":false,"inputs":[{"name":"_spender","type":"address"},{"name":"_value","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"type":"function"}
]`

var parsedERC20 = func() abi.ABI {
	a, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		panic(err)
	}
	return a
}()

// gasMargin is added on top of the quoted gas estimate, in percent
const gasMargin = 20

// Wallet holds a signing key for one chain
type Wallet struct {
	backend    Backend
	chainID    *big.Int
	privateKey *ecdsa.PrivateKey
	address    common.Address
	log        zerolog.Logger
}

func parseKey(privateKeyHex string) (*ecdsa.PrivateKey, error) {
	if privateKeyHex == "" {
		return nil, fmt.Errorf("private key not configured")
	}
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return privateKey, nil
}

// AddressFromKey derives the account address of a hex private key
func AddressFromKey(privateKeyHex string) (common.Address, error) {
	privateKey, err := parseKey(privateKeyHex)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(privateKey.PublicKey), nil
}

// New creates a wallet from a hex private key
func New(backend Backend, chainID int64, privateKeyHex string, log zerolog.Logger) (*Wallet, error) {
	privateKey, err := parseKey(privateKeyHex)
	if err != nil {
		return nil, err
	}

	return &Wallet{
		backend:    backend,
		chainID:    big.NewInt(chainID),
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(privateKey.PublicKey),
		log:        log.With().Str("component", "wallet").Int64("chain_id", chainID).Logger(),
	}, nil
}

// Address returns the account address derived from the key
func (w *Wallet) Address() common.Address {
	return w.address
}

// Balance returns the native balance of the account
func (w *Wallet) Balance(ctx context.Context) (*big.Int, error) {
	balance, err := w.backend.BalanceAt(ctx, w.address, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// TokenBalance returns the ERC20 balance of the account
func (w *Wallet) TokenBalance(ctx context.Context, token common.Address) (*big.Int, error) {
	return w.callUint(ctx, token, "balanceOf", w.address)
}

// Allowance returns how much of token spender may move on the account's behalf
func (w *Wallet) Allowance(ctx context.Context, token, spender common.Address) (*big.Int, error) {
	return w.callUint(ctx, token, "allowance", w.address, spender)
}

func (w *Wallet) callUint(ctx context.Context, token common.Address, method string, args ...interface{}) (*big.Int, error) {
	data, err := parsedERC20.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s data: %w", method, err)
	}
	result, err := w.backend.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", method, err)
	}
	return new(big.Int).SetBytes(result), nil
}

// Approve lets spender move amount of token. The gas limit is fixed since
// approvals have a known cost.
func (w *Wallet) Approve(ctx context.Context, token, spender common.Address, amount *big.Int, gasPrice *big.Int) (common.Hash, error) {
	data, err := parsedERC20.Pack("approve", spender, amount)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to pack approve data: %w", err)
	}
	return w.submit(ctx, token, big.NewInt(0), 60_000, gasPrice, data)
}

// SignSwap builds and signs the legacy EIP-155 transaction for a quote. The
// gas limit is the quoted estimate plus a 20% margin.
func (w *Wallet) SignSwap(ctx context.Context, tx *quote.SwapTransaction, gasPrice *big.Int) (*ethtypes.Transaction, error) {
	call, err := decodeSwap(tx)
	if err != nil {
		return nil, err
	}
	if tx.From != "" && common.HexToAddress(tx.From) != w.address {
		return nil, fmt.Errorf("quote was built for %s, wallet is %s", tx.From, w.address.Hex())
	}

	nonce, err := w.backend.PendingNonceAt(ctx, w.address)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}
	if gasPrice == nil {
		if gasPrice, err = NetworkGasPrice(ctx, w.backend, nil); err != nil {
			return nil, err
		}
	}

	if err := w.checkFunds(ctx, call.value, call.gas, gasPrice); err != nil {
		return nil, err
	}
	return w.sign(nonce, call.to, call.value, call.gas, gasPrice, call.data)
}

// SendSwap signs and broadcasts a quote transaction
func (w *Wallet) SendSwap(ctx context.Context, tx *quote.SwapTransaction, gasPrice *big.Int) (common.Hash, error) {
	signed, err := w.SignSwap(ctx, tx, gasPrice)
	if err != nil {
		return common.Hash{}, err
	}
	if err := w.backend.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("failed to send transaction: %w", err)
	}
	w.log.Info().Str("tx_hash", signed.Hash().Hex()).Str("to", signed.To().Hex()).Msg("swap submitted")
	return signed.Hash(), nil
}

func (w *Wallet) submit(ctx context.Context, to common.Address, value *big.Int, gas uint64, gasPrice *big.Int, data []byte) (common.Hash, error) {
	nonce, err := w.backend.PendingNonceAt(ctx, w.address)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get nonce: %w", err)
	}
	if gasPrice, err = NetworkGasPrice(ctx, w.backend, gasPrice); err != nil {
		return common.Hash{}, err
	}
	if err := w.checkFunds(ctx, value, gas, gasPrice); err != nil {
		return common.Hash{}, err
	}
	signed, err := w.sign(nonce, to, value, gas, gasPrice, data)
	if err != nil {
		return common.Hash{}, err
	}
	if err := w.backend.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("failed to send transaction: %w", err)
	}
	return signed.Hash(), nil
}

func (w *Wallet) checkFunds(ctx context.Context, value *big.Int, gas uint64, gasPrice *big.Int) error {
	balance, err := w.Balance(ctx)
	if err != nil {
		return err
	}
	need := new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(gas))
	need.Add(need, value)
	if balance.Cmp(need) < 0 {
		return fmt.Errorf("%w: have %s wei, need %s wei", ErrInsufficientBalance, balance, need)
	}
	return nil
}

func (w *Wallet) sign(nonce uint64, to common.Address, value *big.Int, gas uint64, gasPrice *big.Int, data []byte) (*ethtypes.Transaction, error) {
	tx := ethtypes.NewTx(&ethtypes.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    value,
		Gas:      gas,
		GasPrice: gasPrice,
		Data:     data,
	})
	signed, err := ethtypes.SignTx(tx, ethtypes.NewEIP155Signer(w.chainID), w.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return signed, nil
}

type swapCall struct {
	to    common.Address
	value *big.Int
	gas   uint64
	data  []byte
}

func decodeSwap(tx *quote.SwapTransaction) (swapCall, error) {
	if tx == nil {
		return swapCall{}, fmt.Errorf("no transaction in quote")
	}
	if !common.IsHexAddress(tx.To) {
		return swapCall{}, fmt.Errorf("invalid router address: %q", tx.To)
	}

	value, err := parseQuantity(tx.Value)
	if err != nil {
		return swapCall{}, fmt.Errorf("invalid value: %w", err)
	}
	gas, err := parseQuantity(tx.Gas)
	if err != nil || gas.Sign() == 0 || !gas.IsUint64() {
		return swapCall{}, fmt.Errorf("invalid gas estimate: %q", tx.Gas)
	}
	var data []byte
	if tx.Data != "" {
		if data, err = hexutil.Decode(tx.Data); err != nil {
			return swapCall{}, fmt.Errorf("invalid calldata: %w", err)
		}
	}

	return swapCall{
		to:    common.HexToAddress(tx.To),
		value: value,
		gas:   withMargin(gas.Uint64()),
		data:  data,
	}, nil
}

func withMargin(gas uint64) uint64 {
	return gas * (100 + gasMargin) / 100
}

// parseQuantity accepts decimal or 0x-prefixed hex; empty is zero
func parseQuantity(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return big.NewInt(0), nil
	}
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s, base = s[2:], 16
	}
	v, ok := new(big.Int).SetString(s, base)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("malformed quantity %q", s)
	}
	return v, nil
}
