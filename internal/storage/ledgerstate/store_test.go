package ledgerstate

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/starfold/paperdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLoadMissingFile(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	state, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	trade := domain.Trade{
		ID:       "7d1f0a9e",
		Time:     time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Side:     domain.SideBuy,
		Symbol:   "AAPL",
		Quantity: decimal.NewFromInt(10),
		Price:    decimal.NewFromInt(100),
	}
	position := domain.Position{Symbol: "AAPL", Quantity: decimal.NewFromInt(10), AvgPrice: decimal.NewFromInt(100)}

	state := State{
		Trades:    []StoredTrade{NewStoredTrade(trade)},
		Positions: []StoredPosition{NewStoredPosition(position)},
	}
	require.NoError(t, store.Save(state))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Len(t, loaded.Trades, 1)
	require.Len(t, loaded.Positions, 1)

	gotTrade, err := loaded.Trades[0].ToTrade()
	require.NoError(t, err)
	assert.Equal(t, trade.ID, gotTrade.ID)
	assert.Equal(t, domain.SideBuy, gotTrade.Side)
	assert.True(t, gotTrade.Quantity.Equal(trade.Quantity))
	assert.True(t, gotTrade.Price.Equal(trade.Price))

	gotPos, err := loaded.Positions[0].ToPosition()
	require.NoError(t, err)
	assert.Equal(t, "AAPL", gotPos.Symbol)
	assert.True(t, gotPos.AvgPrice.Equal(position.AvgPrice))
}

func TestStoreLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, stateFileName), []byte("{not json"), 0o644))

	_, err = store.Load()
	assert.Error(t, err)
}

func TestStoredTradeRejectsBadDecimal(t *testing.T) {
	st := StoredTrade{ID: "x", Side: "buy", Symbol: "AAPL", Quantity: "ten", Price: "100"}
	_, err := st.ToTrade()
	assert.Error(t, err)
}
