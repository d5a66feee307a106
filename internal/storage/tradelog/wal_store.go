// Package tradelog journals executed trades in a write-ahead log. The
// journal feeds the dashboard trade stream and, unlike the ledger state
// file, keeps its history across broker resets: a reset is recorded as a
// marker entry instead of truncating the log.
package tradelog

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/starfold/paperdesk/internal/domain"
	"github.com/vadiminshakov/gowal"
)

const (
	segmentLimit = 1000
	maxSegments  = 10

	tradeKeyPrefix = "trade_"
	resetKey       = "reset"
)

// Kind distinguishes journal entries.
type Kind string

const (
	KindTrade Kind = "trade"
	KindReset Kind = "reset"
)

// Record is one journal entry together with its WAL index.
type Record struct {
	Index uint64       `json:"index"`
	Kind  Kind         `json:"kind"`
	Trade domain.Trade `json:"trade,omitempty"`
	Time  time.Time    `json:"time"`
}

type resetMarker struct {
	Time time.Time `json:"time"`
}

// WALStore persists trade events in a WAL.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore initializes a WAL-backed trade journal in the given directory.
func NewWALStore(dir string) (*WALStore, error) {
	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "trade_",
		SegmentThreshold: segmentLimit,
		MaxSegments:      maxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init trade journal WAL")
	}
	return &WALStore{wal: wal}, nil
}

// Append writes one executed trade to the journal.
func (s *WALStore) Append(trade domain.Trade) error {
	if s == nil || s.wal == nil {
		return errors.New("trade journal is not initialized")
	}
	if trade.Symbol == "" {
		return errors.New("trade symbol is required")
	}

	payload, err := json.Marshal(trade)
	if err != nil {
		return errors.Wrap(err, "marshal trade")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, tradeKeyPrefix+trade.Symbol, payload)
}

// MarkReset records a broker reset so readers of the stream can tell that
// the following trades belong to a fresh ledger.
func (s *WALStore) MarkReset(at time.Time) error {
	if s == nil || s.wal == nil {
		return errors.New("trade journal is not initialized")
	}

	payload, err := json.Marshal(resetMarker{Time: at})
	if err != nil {
		return errors.Wrap(err, "marshal reset marker")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, resetKey, payload)
}

// RecordsAfter returns all journal entries written after the given WAL index.
func (s *WALStore) RecordsAfter(index uint64) ([]Record, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("trade journal is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]Record, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, err := s.wal.Get(idx)
		if err != nil {
			continue
		}

		switch {
		case strings.HasPrefix(key, tradeKeyPrefix):
			var trade domain.Trade
			if err := json.Unmarshal(payload, &trade); err != nil {
				return nil, errors.Wrap(err, "decode trade record")
			}
			records = append(records, Record{Index: idx, Kind: KindTrade, Trade: trade, Time: trade.Time})
		case key == resetKey:
			var marker resetMarker
			if err := json.Unmarshal(payload, &marker); err != nil {
				return nil, errors.Wrap(err, "decode reset marker")
			}
			records = append(records, Record{Index: idx, Kind: KindReset, Time: marker.Time})
		}
	}
	return records, nil
}

// CurrentIndex returns the latest WAL index stored.
func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("trade journal is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
