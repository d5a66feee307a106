// Package ledgerstate persists the paper broker's trade log and position set
// as a single JSON document so restarts keep the portfolio.
package ledgerstate

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/starfold/paperdesk/internal/domain"
)

const stateFileName = "ledger.json"

// Store reads and writes broker state under a configured directory.
// It reports errors explicitly; deciding to log-and-default on a broken
// state file is the caller's call, the store never pretends a failed read
// was an empty ledger.
type Store struct {
	path string
}

// NewStore creates the state directory and returns a store for it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create ledger state dir")
	}
	return &Store{path: filepath.Join(dir, stateFileName)}, nil
}

// State is the persisted broker snapshot.
type State struct {
	Trades    []StoredTrade    `json:"trades"`
	Positions []StoredPosition `json:"positions"`
}

// StoredTrade is the serialized form of domain.Trade. Decimals are kept as
// strings so the file stays exact and human-readable.
type StoredTrade struct {
	ID       string    `json:"id"`
	Time     time.Time `json:"time"`
	Side     string    `json:"side"`
	Symbol   string    `json:"symbol"`
	Quantity string    `json:"quantity"`
	Price    string    `json:"price"`
}

// StoredPosition is the serialized form of domain.Position.
type StoredPosition struct {
	Symbol   string `json:"symbol"`
	Quantity string `json:"quantity"`
	AvgPrice string `json:"avgPrice"`
}

// Load reads broker state from disk. A missing or empty file is not an
// error: it returns nil state, meaning a fresh ledger.
func (s *Store) Load() (*State, error) {
	if s == nil || s.path == "" {
		return nil, nil
	}

	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read ledger state")
	}
	if len(payload) == 0 {
		return nil, nil
	}

	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, errors.Wrap(err, "decode ledger state")
	}
	return &state, nil
}

// Save writes broker state to disk atomically via temp file.
func (s *Store) Save(state State) error {
	if s == nil || s.path == "" {
		return nil
	}

	payload, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode ledger state")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return errors.Wrap(err, "write ledger state temp file")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, "persist ledger state")
	}
	return nil
}

// NewStoredTrade converts a domain trade into its stored representation.
func NewStoredTrade(t domain.Trade) StoredTrade {
	return StoredTrade{
		ID:       t.ID,
		Time:     t.Time,
		Side:     t.Side.String(),
		Symbol:   t.Symbol,
		Quantity: t.Quantity.String(),
		Price:    t.Price.String(),
	}
}

// ToTrade reconstructs a domain trade from stored data.
func (st StoredTrade) ToTrade() (domain.Trade, error) {
	side, err := domain.ParseSide(st.Side)
	if err != nil {
		return domain.Trade{}, errors.Wrap(err, "decode trade side")
	}
	quantity, err := decimal.NewFromString(st.Quantity)
	if err != nil {
		return domain.Trade{}, errors.Wrap(err, "decode trade quantity")
	}
	price, err := decimal.NewFromString(st.Price)
	if err != nil {
		return domain.Trade{}, errors.Wrap(err, "decode trade price")
	}
	return domain.Trade{
		ID:       st.ID,
		Time:     st.Time,
		Side:     side,
		Symbol:   st.Symbol,
		Quantity: quantity,
		Price:    price,
	}, nil
}

// NewStoredPosition converts a domain position into its stored representation.
func NewStoredPosition(p domain.Position) StoredPosition {
	return StoredPosition{
		Symbol:   p.Symbol,
		Quantity: p.Quantity.String(),
		AvgPrice: p.AvgPrice.String(),
	}
}

// ToPosition reconstructs a domain position from stored data.
func (sp StoredPosition) ToPosition() (domain.Position, error) {
	quantity, err := decimal.NewFromString(sp.Quantity)
	if err != nil {
		return domain.Position{}, errors.Wrap(err, "decode position quantity")
	}
	avgPrice, err := decimal.NewFromString(sp.AvgPrice)
	if err != nil {
		return domain.Position{}, errors.Wrap(err, "decode position avg price")
	}
	return domain.Position{Symbol: sp.Symbol, Quantity: quantity, AvgPrice: avgPrice}, nil
}
