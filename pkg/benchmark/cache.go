package benchmark

import (
	"fmt"
	"log/slog"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
)

// JudgmentCache persists relevance judgments between runs so a repeated
// (query, package) pair never costs a second judge call. Keys are
// case-insensitive on both parts.
type JudgmentCache struct {
	db *badger.DB
}

// OpenJudgmentCache opens the cache at path, creating it if needed. Badger's
// own logging is routed through the given logger, with its chatty INFO
// output demoted to debug.
func OpenJudgmentCache(path string, logger *slog.Logger) (*JudgmentCache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts := badger.DefaultOptions(path)
	opts.Logger = &badgerLogger{logger: logger}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open judgment cache: %w", err)
	}
	return &JudgmentCache{db: db}, nil
}

// Get returns the cached judgment for one (query, package) pair and whether
// one was present. A broken cache reads as a miss.
func (c *JudgmentCache) Get(query, name string) (relevant, ok bool) {
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(judgmentKey(query, name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			relevant = len(val) == 1 && val[0] == 1
			return nil
		})
	})
	if err != nil {
		return false, false
	}
	return relevant, true
}

// Put stores one judgment.
func (c *JudgmentCache) Put(query, name string, relevant bool) error {
	val := []byte{0}
	if relevant {
		val[0] = 1
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(judgmentKey(query, name), val)
	})
}

// Close releases the underlying store.
func (c *JudgmentCache) Close() error {
	return c.db.Close()
}

// judgmentKey joins the lowercased pair with a NUL so a query ending in a
// package-name prefix cannot collide with another pair.
func judgmentKey(query, name string) []byte {
	return []byte(strings.ToLower(query) + "\x00" + strings.ToLower(name))
}

// badgerLogger adapts badger's logger interface onto slog.
type badgerLogger struct {
	logger *slog.Logger
}

func (b *badgerLogger) Errorf(msg string, args ...any) {
	b.logger.Error(strings.TrimSpace(fmt.Sprintf(msg, args...)))
}

func (b *badgerLogger) Warningf(msg string, args ...any) {
	b.logger.Warn(strings.TrimSpace(fmt.Sprintf(msg, args...)))
}

func (b *badgerLogger) Infof(msg string, args ...any) {
	b.logger.Debug(strings.TrimSpace(fmt.Sprintf(msg, args...)))
}

func (b *badgerLogger) Debugf(msg string, args ...any) {
	b.logger.Debug(strings.TrimSpace(fmt.Sprintf(msg, args...)))
}
