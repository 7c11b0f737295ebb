package storage

import (
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyOptions = "options"
	keyGameSeq = "games-seq"
	gamePrefix = "games:"
)

// Options is the persisted engine option set, restored on the next start.
type Options struct {
	Post         bool          `json:"post"`
	MaxDepth     int           `json:"max_depth"`
	MaxNodes     uint64        `json:"max_nodes"`
	ControlMoves int           `json:"control_moves"`
	BaseTime     time.Duration `json:"base_time"`
	IncTime      time.Duration `json:"inc_time"`
}

// DefaultOptions returns the option set used before anything was saved.
func DefaultOptions() *Options {
	return &Options{
		Post:     true,
		BaseTime: 5 * time.Minute,
	}
}

// GameRecord describes one finished game.
type GameRecord struct {
	Result     string    `json:"result"` // "1-0", "0-1", "1/2-1/2"
	Moves      []string  `json:"moves"`  // Long algebraic, in order
	StartFEN   string    `json:"start_fen,omitempty"`
	TimeMoves  int       `json:"time_moves"`
	TimeBase   string    `json:"time_base"`
	TimeInc    string    `json:"time_inc"`
	FinishedAt time.Time `json:"finished_at"`
}

// Storage wraps BadgerDB for persistent storage.
type Storage struct {
	db *badger.DB
}

// Open opens (or creates) the engine database under dataDir; an empty
// dataDir selects the platform default.
func Open(dataDir string) (*Storage, error) {
	dbDir, err := databaseDir(dataDir)
	if err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = nil // Badger's own logging is too chatty for a UCI binary

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Storage{db: db}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveOptions persists the engine option set.
func (s *Storage) SaveOptions(opts *Options) error {
	data, err := json.Marshal(opts)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyOptions), data)
	})
}

// LoadOptions loads the saved option set, returning defaults if nothing was
// saved yet.
func (s *Storage) LoadOptions() (*Options, error) {
	opts := DefaultOptions()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyOptions))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, opts)
		})
	})

	return opts, err
}

// RecordGame appends a finished game under the next sequence number.
func (s *Storage) RecordGame(rec *GameRecord) error {
	if rec.FinishedAt.IsZero() {
		rec.FinishedAt = time.Now()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		seq := uint64(0)
		item, err := txn.Get([]byte(keyGameSeq))
		if err == nil {
			err = item.Value(func(val []byte) error {
				if len(val) == 8 {
					seq = binary.BigEndian.Uint64(val)
				}
				return nil
			})
		}
		if err != nil && err != badger.ErrKeyNotFound {
			return err
		}
		seq++

		var seqBuf [8]byte
		binary.BigEndian.PutUint64(seqBuf[:], seq)
		if err := txn.Set([]byte(keyGameSeq), seqBuf[:]); err != nil {
			return err
		}

		key := append([]byte(gamePrefix), seqBuf[:]...)
		return txn.Set(key, data)
	})
}

// Games returns every recorded game, oldest first.
func (s *Storage) Games() ([]GameRecord, error) {
	var games []GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(gamePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var rec GameRecord
				if err := json.Unmarshal(val, &rec); err != nil {
					return err
				}
				games = append(games, rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	return games, err
}
