// Package broker implements the paper-trading ledger: an append-only trade
// log and the net positions derived from it.
package broker

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/starfold/paperdesk/internal/domain"
	"github.com/starfold/paperdesk/internal/storage/ledgerstate"
	"github.com/starfold/paperdesk/internal/storage/tradelog"
	"go.uber.org/zap"
)

// ErrInvalidOrder rejects a malformed order before any state is touched.
var ErrInvalidOrder = errors.New("invalid order")

// Snapshot is the full ledger view returned after a mutation: the trade log
// in append order and the open positions in insertion order.
type Snapshot struct {
	Trades    []domain.Trade    `json:"trades"`
	Positions []domain.Position `json:"positions"`
}

// Broker is the single writer of the ledger. All mutations run under one
// lock so readers never observe a half-applied order.
type Broker struct {
	mu        sync.RWMutex
	logger    *zap.Logger
	store     *ledgerstate.Store
	journal   *tradelog.WALStore
	trades    []domain.Trade
	positions []domain.Position
}

// New creates a broker backed by the given state store and trade journal.
// The journal may be nil when no event stream is needed. A state file that
// fails to load is logged and treated as an empty ledger so the broker
// stays available.
func New(store *ledgerstate.Store, journal *tradelog.WALStore, logger *zap.Logger) (*Broker, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		return nil, errors.New("ledger state store is required")
	}

	b := &Broker{
		logger:  logger,
		store:   store,
		journal: journal,
	}
	if err := b.restore(); err != nil {
		logger.Warn("failed to restore ledger state, starting empty", zap.Error(err))
	}
	return b, nil
}

// PlaceOrder validates and applies one order. On success exactly one trade
// is appended and exactly one position is created, updated or removed, and
// the updated snapshot is returned. On validation failure it returns
// ErrInvalidOrder and leaves the ledger untouched.
func (b *Broker) PlaceOrder(side domain.Side, symbol string, quantity, price decimal.Decimal) (Snapshot, error) {
	if symbol == "" {
		return Snapshot{}, errors.Wrap(ErrInvalidOrder, "symbol is required")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return Snapshot{}, errors.Wrapf(ErrInvalidOrder, "quantity must be positive, got %s", quantity.String())
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return Snapshot{}, errors.Wrapf(ErrInvalidOrder, "price must be positive, got %s", price.String())
	}

	trade := domain.Trade{
		ID:       uuid.New().String(),
		Time:     time.Now().UTC(),
		Side:     side,
		Symbol:   symbol,
		Quantity: quantity,
		Price:    price,
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.trades = append(b.trades, trade)
	b.applyToPositions(trade)
	b.persist()

	if b.journal != nil {
		if err := b.journal.Append(trade); err != nil {
			b.logger.Warn("failed to journal trade", zap.String("id", trade.ID), zap.Error(err))
		}
	}

	b.logger.Info("order executed",
		zap.String("id", trade.ID),
		zap.String("side", side.String()),
		zap.String("symbol", symbol),
		zap.String("quantity", quantity.String()),
		zap.String("price", price.String()))

	return b.snapshotLocked(), nil
}

// Positions returns the open positions in insertion order.
func (b *Broker) Positions() []domain.Position {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]domain.Position(nil), b.positions...)
}

// Trades returns the trade log, oldest first.
func (b *Broker) Trades() []domain.Trade {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]domain.Trade(nil), b.trades...)
}

// Reset clears the trade log and position set. Irreversible. The journal
// keeps its history and records a reset marker instead.
func (b *Broker) Reset() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.trades = nil
	b.positions = nil
	if err := b.store.Save(ledgerstate.State{Trades: []ledgerstate.StoredTrade{}, Positions: []ledgerstate.StoredPosition{}}); err != nil {
		return errors.Wrap(err, "persist ledger reset")
	}

	if b.journal != nil {
		if err := b.journal.MarkReset(time.Now().UTC()); err != nil {
			b.logger.Warn("failed to journal reset", zap.Error(err))
		}
	}

	b.logger.Info("ledger reset")
	return nil
}

func (b *Broker) applyToPositions(trade domain.Trade) {
	for i := range b.positions {
		if b.positions[i].Symbol != trade.Symbol {
			continue
		}
		b.positions[i].Apply(trade.Side, trade.Quantity, trade.Price)
		if b.positions[i].IsFlat() {
			b.positions = append(b.positions[:i], b.positions[i+1:]...)
		}
		return
	}
	b.positions = append(b.positions, domain.OpenPosition(trade.Symbol, trade.Side, trade.Quantity, trade.Price))
}

func (b *Broker) snapshotLocked() Snapshot {
	return Snapshot{
		Trades:    append([]domain.Trade(nil), b.trades...),
		Positions: append([]domain.Position(nil), b.positions...),
	}
}

// persist writes the ledger to disk. A write failure is logged, not
// returned: the accepted order stays applied in memory and the next
// successful write catches the file up.
func (b *Broker) persist() {
	state := ledgerstate.State{
		Trades:    make([]ledgerstate.StoredTrade, 0, len(b.trades)),
		Positions: make([]ledgerstate.StoredPosition, 0, len(b.positions)),
	}
	for _, t := range b.trades {
		state.Trades = append(state.Trades, ledgerstate.NewStoredTrade(t))
	}
	for _, p := range b.positions {
		state.Positions = append(state.Positions, ledgerstate.NewStoredPosition(p))
	}

	if err := b.store.Save(state); err != nil {
		b.logger.Warn("failed to persist ledger state", zap.Error(err))
	}
}

func (b *Broker) restore() error {
	state, err := b.store.Load()
	if err != nil || state == nil {
		return err
	}

	trades := make([]domain.Trade, 0, len(state.Trades))
	for _, st := range state.Trades {
		trade, err := st.ToTrade()
		if err != nil {
			return err
		}
		trades = append(trades, trade)
	}

	positions := make([]domain.Position, 0, len(state.Positions))
	for _, sp := range state.Positions {
		pos, err := sp.ToPosition()
		if err != nil {
			return err
		}
		positions = append(positions, pos)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.trades = trades
	b.positions = positions
	return nil
}
