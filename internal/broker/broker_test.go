package broker

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/starfold/paperdesk/internal/domain"
	"github.com/starfold/paperdesk/internal/storage/ledgerstate"
	"github.com/starfold/paperdesk/internal/storage/tradelog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestBroker(t *testing.T) *Broker {
	t.Helper()
	store, err := ledgerstate.NewStore(t.TempDir())
	require.NoError(t, err)
	b, err := New(store, nil, zap.NewNop())
	require.NoError(t, err)
	return b
}

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func TestPlaceOrderOpensPosition(t *testing.T) {
	b := newTestBroker(t)

	snap, err := b.PlaceOrder(domain.SideBuy, "AAPL", dec("10"), dec("100"))
	require.NoError(t, err)

	require.Len(t, snap.Positions, 1)
	assert.Equal(t, "AAPL", snap.Positions[0].Symbol)
	assert.True(t, snap.Positions[0].Quantity.Equal(dec("10")))
	assert.True(t, snap.Positions[0].AvgPrice.Equal(dec("100")))

	require.Len(t, snap.Trades, 1)
	assert.NotEmpty(t, snap.Trades[0].ID)
	assert.False(t, snap.Trades[0].Time.IsZero())
}

func TestPlaceOrderAveragesAccumulatingBuys(t *testing.T) {
	b := newTestBroker(t)

	_, err := b.PlaceOrder(domain.SideBuy, "AAPL", dec("10"), dec("100"))
	require.NoError(t, err)
	snap, err := b.PlaceOrder(domain.SideBuy, "AAPL", dec("10"), dec("200"))
	require.NoError(t, err)

	require.Len(t, snap.Positions, 1)
	assert.True(t, snap.Positions[0].Quantity.Equal(dec("20")))
	assert.True(t, snap.Positions[0].AvgPrice.Equal(dec("150")))
}

func TestPlaceOrderFlattenRemovesPosition(t *testing.T) {
	b := newTestBroker(t)

	_, err := b.PlaceOrder(domain.SideBuy, "AAPL", dec("10"), dec("100"))
	require.NoError(t, err)
	snap, err := b.PlaceOrder(domain.SideSell, "AAPL", dec("10"), dec("120"))
	require.NoError(t, err)

	assert.Empty(t, snap.Positions)
	assert.Len(t, snap.Trades, 2)

	// a new trade after flattening re-creates the record
	snap, err = b.PlaceOrder(domain.SideBuy, "AAPL", dec("5"), dec("130"))
	require.NoError(t, err)
	require.Len(t, snap.Positions, 1)
	assert.True(t, snap.Positions[0].AvgPrice.Equal(dec("130")))
}

func TestPlaceOrderPartialSellKeepsCostBasis(t *testing.T) {
	b := newTestBroker(t)

	_, err := b.PlaceOrder(domain.SideBuy, "AAPL", dec("10"), dec("100"))
	require.NoError(t, err)
	snap, err := b.PlaceOrder(domain.SideSell, "AAPL", dec("4"), dec("150"))
	require.NoError(t, err)

	require.Len(t, snap.Positions, 1)
	assert.True(t, snap.Positions[0].Quantity.Equal(dec("6")))
	assert.True(t, snap.Positions[0].AvgPrice.Equal(dec("100")))
}

func TestPlaceOrderInvalidOrderHasNoSideEffect(t *testing.T) {
	b := newTestBroker(t)

	_, err := b.PlaceOrder(domain.SideBuy, "", dec("10"), dec("100"))
	require.ErrorIs(t, err, ErrInvalidOrder)

	_, err = b.PlaceOrder(domain.SideBuy, "AAPL", dec("0"), dec("100"))
	require.ErrorIs(t, err, ErrInvalidOrder)

	_, err = b.PlaceOrder(domain.SideBuy, "AAPL", dec("10"), dec("0"))
	require.ErrorIs(t, err, ErrInvalidOrder)

	assert.Empty(t, b.Trades())
	assert.Empty(t, b.Positions())
}

func TestReadsAreIdempotent(t *testing.T) {
	b := newTestBroker(t)

	_, err := b.PlaceOrder(domain.SideBuy, "AAPL", dec("10"), dec("100"))
	require.NoError(t, err)

	first := b.Positions()
	second := b.Positions()
	assert.Equal(t, first, second)
	assert.Equal(t, b.Trades(), b.Trades())
}

func TestResetClearsAllState(t *testing.T) {
	b := newTestBroker(t)

	_, err := b.PlaceOrder(domain.SideBuy, "AAPL", dec("10"), dec("100"))
	require.NoError(t, err)
	_, err = b.PlaceOrder(domain.SideSell, "TSLA", dec("3"), dec("200"))
	require.NoError(t, err)

	require.NoError(t, b.Reset())
	assert.Empty(t, b.Trades())
	assert.Empty(t, b.Positions())
}

func TestBrokerRestoresStateAcrossRestart(t *testing.T) {
	dir := t.TempDir()
	store, err := ledgerstate.NewStore(dir)
	require.NoError(t, err)

	b, err := New(store, nil, zap.NewNop())
	require.NoError(t, err)
	_, err = b.PlaceOrder(domain.SideBuy, "AAPL", dec("10"), dec("100"))
	require.NoError(t, err)

	store2, err := ledgerstate.NewStore(dir)
	require.NoError(t, err)
	restored, err := New(store2, nil, zap.NewNop())
	require.NoError(t, err)

	positions := restored.Positions()
	require.Len(t, positions, 1)
	assert.Equal(t, "AAPL", positions[0].Symbol)
	assert.True(t, positions[0].Quantity.Equal(dec("10")))

	trades := restored.Trades()
	require.Len(t, trades, 1)
	assert.Equal(t, domain.SideBuy, trades[0].Side)
}

func TestBrokerJournalsTrades(t *testing.T) {
	store, err := ledgerstate.NewStore(t.TempDir())
	require.NoError(t, err)
	journal, err := tradelog.NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer journal.Close()

	b, err := New(store, journal, zap.NewNop())
	require.NoError(t, err)

	_, err = b.PlaceOrder(domain.SideBuy, "AAPL", dec("10"), dec("100"))
	require.NoError(t, err)
	require.NoError(t, b.Reset())

	records, err := journal.RecordsAfter(0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, tradelog.KindTrade, records[0].Kind)
	assert.Equal(t, tradelog.KindReset, records[1].Kind)
}
