// Package settings persists user preferences to a JSON file.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"dexa-swap/pkg/chains"
	"dexa-swap/pkg/types"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

const (
	DefaultFileName = ".dexa-swap-settings.json"

	// DefaultDeadline is the transaction TTL on L1 networks unless changed
	DefaultDeadline = 30 * time.Minute

	MaxSlippageBps = 5000
)

var (
	ErrInvalidSlippage = errors.New("slippage must be auto or between 1 and 5000 bps")
	ErrInvalidDeadline = errors.New("deadline must be between 1 minute and 3 days")
	ErrInvalidGasPrice = errors.New("gas price must be a positive gwei amount")
	ErrPairNotFound    = errors.New("pair not found")
)

// Pair is a user-tracked token pair
type Pair struct {
	ChainID int64  `json:"chain_id"`
	Token0  string `json:"token0"`
	Token1  string `json:"token1"`
}

// UserSettings is the persisted document
type UserSettings struct {
	// SlippageBps is the tolerance in basis points, 0 meaning auto
	SlippageBps     int64                      `json:"slippage_bps"`
	DeadlineSeconds int64                      `json:"deadline_seconds"`
	Gasless         bool                       `json:"gasless"`
	GasPriceGwei    string                     `json:"gas_price_gwei,omitempty"`
	ExpertMode      bool                       `json:"expert_mode"`
	Tokens          map[int64][]types.Currency `json:"tokens,omitempty"`
	Pairs           []Pair                     `json:"pairs,omitempty"`
	UpdatedAt       time.Time                  `json:"updated_at"`
}

func defaults() UserSettings {
	return UserSettings{
		DeadlineSeconds: int64(DefaultDeadline / time.Second),
		Tokens:          make(map[int64][]types.Currency),
	}
}

// Store guards a settings file
type Store struct {
	filePath string
	mu       sync.RWMutex
	settings UserSettings
}

// Open loads settings from filePath, or from ~/.dexa-swap-settings.json when empty.
// A missing file yields defaults and is created on the first change.
func Open(filePath string) (*Store, error) {
	if filePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		filePath = filepath.Join(home, DefaultFileName)
	}

	s := &Store{filePath: filePath, settings: defaults()}
	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	loaded := defaults()
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if loaded.Tokens == nil {
		loaded.Tokens = make(map[int64][]types.Currency)
	}

	s.mu.Lock()
	s.settings = loaded
	s.mu.Unlock()
	return nil
}

// save writes the document atomically. Callers hold s.mu.
func (s *Store) save() error {
	s.settings.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(s.settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tempFile, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

func (s *Store) mutate(fn func(u *UserSettings) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.settings.clone()
	if err := fn(&s.settings); err != nil {
		s.settings = prev
		return err
	}
	if err := s.save(); err != nil {
		s.settings = prev
		return err
	}
	return nil
}

// Path returns the settings file path
func (s *Store) Path() string {
	return s.filePath
}

// Get returns a copy of the current settings
func (s *Store) Get() UserSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.clone()
}

func (u UserSettings) clone() UserSettings {
	out := u
	out.Tokens = make(map[int64][]types.Currency, len(u.Tokens))
	for id, toks := range u.Tokens {
		out.Tokens[id] = append([]types.Currency(nil), toks...)
	}
	out.Pairs = append([]Pair(nil), u.Pairs...)
	return out
}

// SetSlippage accepts "auto" or a basis point count between 1 and 5000
func (s *Store) SetSlippage(bps int64) error {
	if bps < 0 || bps > MaxSlippageBps {
		return fmt.Errorf("%w: %d", ErrInvalidSlippage, bps)
	}
	return s.mutate(func(u *UserSettings) error {
		u.SlippageBps = bps
		return nil
	})
}

// ParseSlippage reads "auto", "50" (bps) or "0.5%"
func ParseSlippage(v string) (int64, error) {
	v = strings.TrimSpace(strings.ToLower(v))
	if v == "auto" || v == "" {
		return 0, nil
	}
	var bps decimal.Decimal
	if pct, ok := strings.CutSuffix(v, "%"); ok {
		d, err := decimal.NewFromString(strings.TrimSpace(pct))
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidSlippage, v)
		}
		bps = d.Mul(decimal.NewFromInt(100))
	} else {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidSlippage, v)
		}
		bps = d
	}
	if !bps.IsInteger() || bps.LessThan(decimal.NewFromInt(1)) || bps.GreaterThan(decimal.NewFromInt(MaxSlippageBps)) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSlippage, v)
	}
	return bps.IntPart(), nil
}

// SetDeadline sets the L1 transaction TTL
func (s *Store) SetDeadline(d time.Duration) error {
	if d < time.Minute || d > 72*time.Hour {
		return fmt.Errorf("%w: %s", ErrInvalidDeadline, d)
	}
	return s.mutate(func(u *UserSettings) error {
		u.DeadlineSeconds = int64(d / time.Second)
		return nil
	})
}

func (s *Store) SetGasless(on bool) error {
	return s.mutate(func(u *UserSettings) error {
		u.Gasless = on
		return nil
	})
}

func (s *Store) SetExpertMode(on bool) error {
	return s.mutate(func(u *UserSettings) error {
		u.ExpertMode = on
		return nil
	})
}

// SetGasPrice overrides the network gas price. An empty value clears the override.
func (s *Store) SetGasPrice(gwei string) error {
	gwei = strings.TrimSpace(gwei)
	if gwei != "" {
		if _, err := gweiToWei(gwei); err != nil {
			return err
		}
	}
	return s.mutate(func(u *UserSettings) error {
		u.GasPriceGwei = gwei
		return nil
	})
}

// AddToken registers a user token, replacing any token at the same address
func (s *Store) AddToken(token types.Currency) error {
	if token.Native {
		return fmt.Errorf("cannot add the native currency as a token")
	}
	return s.mutate(func(u *UserSettings) error {
		list := u.Tokens[token.ChainID]
		next := make([]types.Currency, 0, len(list)+1)
		for _, t := range list {
			if t.Address != token.Address {
				next = append(next, t)
			}
		}
		u.Tokens[token.ChainID] = append(next, token)
		return nil
	})
}

// RemoveToken drops a user token
func (s *Store) RemoveToken(chainID int64, address string) error {
	addr := common.HexToAddress(address)
	return s.mutate(func(u *UserSettings) error {
		list := u.Tokens[chainID]
		next := make([]types.Currency, 0, len(list))
		for _, t := range list {
			if t.Address != addr {
				next = append(next, t)
			}
		}
		if len(next) == len(list) {
			return fmt.Errorf("%w: %s on chain %d", chains.ErrTokenNotFound, address, chainID)
		}
		if len(next) == 0 {
			delete(u.Tokens, chainID)
		} else {
			u.Tokens[chainID] = next
		}
		return nil
	})
}

func samePair(p Pair, chainID int64, a, b string) bool {
	if p.ChainID != chainID {
		return false
	}
	return (strings.EqualFold(p.Token0, a) && strings.EqualFold(p.Token1, b)) ||
		(strings.EqualFold(p.Token0, b) && strings.EqualFold(p.Token1, a))
}

// AddPair tracks a token pair. Adding an existing pair is a no-op.
func (s *Store) AddPair(p Pair) error {
	if strings.EqualFold(p.Token0, p.Token1) {
		return fmt.Errorf("pair tokens must differ")
	}
	return s.mutate(func(u *UserSettings) error {
		for _, existing := range u.Pairs {
			if samePair(existing, p.ChainID, p.Token0, p.Token1) {
				return nil
			}
		}
		u.Pairs = append(u.Pairs, p)
		return nil
	})
}

// RemovePair untracks a pair in either token order
func (s *Store) RemovePair(chainID int64, tokenA, tokenB string) error {
	return s.mutate(func(u *UserSettings) error {
		for i, existing := range u.Pairs {
			if samePair(existing, chainID, tokenA, tokenB) {
				u.Pairs = append(u.Pairs[:i], u.Pairs[i+1:]...)
				return nil
			}
		}
		return ErrPairNotFound
	})
}

// PairsOn lists the tracked pairs of one chain
func (u UserSettings) PairsOn(chainID int64) []Pair {
	var out []Pair
	for _, p := range u.Pairs {
		if p.ChainID == chainID {
			out = append(out, p)
		}
	}
	return out
}

// SlippageTolerance returns the tolerance as a percent; auto falls back to def
func (u UserSettings) SlippageTolerance(def types.Percent) types.Percent {
	if u.SlippageBps == 0 {
		return def
	}
	return types.BasisPoints(u.SlippageBps)
}

// SlippageLabel renders the tolerance for display
func (u UserSettings) SlippageLabel() string {
	if u.SlippageBps == 0 {
		return "auto"
	}
	return types.BasisPoints(u.SlippageBps).String()
}

// TTL is the transaction deadline window; L2 networks always use a fixed 5 minutes
func (u UserSettings) TTL(chainID int64) time.Duration {
	if chains.IsL2(chainID) {
		return chains.L2DeadlineFromNow
	}
	if u.DeadlineSeconds <= 0 {
		return DefaultDeadline
	}
	return time.Duration(u.DeadlineSeconds) * time.Second
}

// Deadline is the unix time after which a transaction submitted at now should revert
func (u UserSettings) Deadline(chainID int64, now time.Time) time.Time {
	return now.Add(u.TTL(chainID))
}

// GaslessEnabled reports whether gasless quotes are used on chainID. The
// relayer only serves Polygon.
func (u UserSettings) GaslessEnabled(chainID int64) bool {
	return u.Gasless && chainID == chains.Polygon
}

// GasPriceWei returns the gas price override in wei, or nil when unset
func (u UserSettings) GasPriceWei() *big.Int {
	if u.GasPriceGwei == "" {
		return nil
	}
	wei, err := gweiToWei(u.GasPriceGwei)
	if err != nil {
		return nil
	}
	return wei
}

// UserTokens returns the tokens added on chainID
func (u UserSettings) UserTokens(chainID int64) []types.Currency {
	return u.Tokens[chainID]
}

func gweiToWei(gwei string) (*big.Int, error) {
	raw, err := types.ParseUnits(gwei, 9)
	if err != nil || raw.Sign() <= 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidGasPrice, gwei)
	}
	return raw, nil
}
