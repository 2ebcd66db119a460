package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// TxStatus is the lifecycle of a submitted transaction
type TxStatus string

const (
	TxPending TxStatus = "PENDING"
	TxSuccess TxStatus = "SUCCESS"
	TxFailed  TxStatus = "FAILED"
)

// TxInfo summarizes a transaction and its receipt
type TxInfo struct {
	Hash        string   `json:"hash"`
	Status      TxStatus `json:"status"`
	Nonce       uint64   `json:"nonce"`
	To          string   `json:"to,omitempty"`
	Value       string   `json:"value"`
	GasPrice    string   `json:"gas_price"`
	GasLimit    uint64   `json:"gas_limit"`
	GasUsed     uint64   `json:"gas_used,omitempty"`
	BlockNumber uint64   `json:"block_number,omitempty"`
}

// Final reports whether the transaction has been mined
func (i TxInfo) Final() bool {
	return i.Status != TxPending
}

// GetTransactionInfo looks up a transaction and, once mined, its receipt
func GetTransactionInfo(ctx context.Context, backend Backend, txHash string) (*TxInfo, error) {
	hash := common.HexToHash(txHash)

	tx, isPending, err := backend.TransactionByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	info := &TxInfo{
		Hash:     tx.Hash().Hex(),
		Status:   TxPending,
		Nonce:    tx.Nonce(),
		Value:    tx.Value().String(),
		GasPrice: tx.GasPrice().String(),
		GasLimit: tx.Gas(),
	}
	if tx.To() != nil {
		info.To = tx.To().Hex()
	}
	if isPending {
		return info, nil
	}

	receipt, err := backend.TransactionReceipt(ctx, hash)
	if errors.Is(err, ethereum.NotFound) {
		return info, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction receipt: %w", err)
	}

	info.GasUsed = receipt.GasUsed
	if receipt.BlockNumber != nil {
		info.BlockNumber = receipt.BlockNumber.Uint64()
	}
	if receipt.Status == ethtypes.ReceiptStatusSuccessful {
		info.Status = TxSuccess
	} else {
		info.Status = TxFailed
	}
	return info, nil
}

// WaitMined polls until the transaction is mined or ctx is done
func WaitMined(ctx context.Context, backend Backend, txHash string, interval time.Duration) (*TxInfo, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		info, err := GetTransactionInfo(ctx, backend, txHash)
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			return nil, err
		}
		if info != nil && info.Final() {
			return info, nil
		}

		select {
		case <-ctx.Done():
			return info, ctx.Err()
		case <-ticker.C:
		}
	}
}

// WaitMined waits for a transaction sent from this wallet
func (w *Wallet) WaitMined(ctx context.Context, hash common.Hash, interval time.Duration) (*TxInfo, error) {
	return WaitMined(ctx, w.backend, hash.Hex(), interval)
}
