package tradelog

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/starfold/paperdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTrade(id, symbol string) domain.Trade {
	return domain.Trade{
		ID:       id,
		Time:     time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Side:     domain.SideBuy,
		Symbol:   symbol,
		Quantity: decimal.NewFromInt(10),
		Price:    decimal.NewFromInt(100),
	}
}

func TestWALStoreAppendAndRead(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Append(newTestTrade("t1", "AAPL")))
	require.NoError(t, store.Append(newTestTrade("t2", "MSFT")))

	records, err := store.RecordsAfter(0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, KindTrade, records[0].Kind)
	assert.Equal(t, "t1", records[0].Trade.ID)
	assert.Equal(t, "MSFT", records[1].Trade.Symbol)
	assert.True(t, records[1].Index > records[0].Index)

	// tail read sees only the newer entry
	tail, err := store.RecordsAfter(records[0].Index)
	require.NoError(t, err)
	require.Len(t, tail, 1)
	assert.Equal(t, "t2", tail[0].Trade.ID)
}

func TestWALStoreResetMarker(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Append(newTestTrade("t1", "AAPL")))
	resetAt := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.MarkReset(resetAt))

	records, err := store.RecordsAfter(0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, KindReset, records[1].Kind)
	assert.True(t, records[1].Time.Equal(resetAt))
}

func TestWALStoreRejectsEmptySymbol(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	err = store.Append(domain.Trade{ID: "t1"})
	assert.Error(t, err)
	assert.Zero(t, store.CurrentIndex())
}
