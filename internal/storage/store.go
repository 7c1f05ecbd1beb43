package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Engine names accepted by NewByEngine.
const (
	EngineFile   = "file"
	EngineSQLite = "sqlite"
	EngineMemory = "memory"
)

// Common storage errors.
var (
	ErrInvalidKey        = errors.New("storage key cannot be empty")
	ErrUnsupportedEngine = errors.New("unsupported storage engine")
)

// Store is a durable string-keyed byte store.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) ([]byte, bool, error)
	// Set replaces the value for key.
	Set(key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
	// Keys lists the stored keys in no particular order.
	Keys() ([]string, error)
	// Close releases resources held by the engine.
	Close() error
}

// NewByEngine opens a Store of the named engine rooted at path. For the file
// engine path is a directory; for sqlite it is the database file.
func NewByEngine(engine, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineFile:
		return NewFileStore(path)
	case EngineSQLite:
		return NewSQLiteStore(path)
	case EngineMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEngine, engine)
	}
}

// Read decodes the value stored under key into a T. It never fails: a missing
// key, a read error or an undecodable value returns def. Corruption is logged
// at warn level on the optional logger.
func Read[T any](s Store, key string, def T, loggers ...zerolog.Logger) T {
	data, ok, err := s.Get(key)
	if err != nil {
		warn(loggers, key, err, "storage read failed, using default")
		return def
	}
	if !ok || len(data) == 0 {
		return def
	}

	var v T
	if unmarshalErr := json.Unmarshal(data, &v); unmarshalErr != nil {
		warn(loggers, key, unmarshalErr, "stored value is corrupted, using default")
		return def
	}
	return v
}

// Write serializes v as JSON and replaces the value stored under key.
func Write(s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %q: %w", key, err)
	}
	if setErr := s.Set(key, data); setErr != nil {
		return fmt.Errorf("writing %q: %w", key, setErr)
	}
	return nil
}

func warn(loggers []zerolog.Logger, key string, err error, msg string) {
	for _, l := range loggers {
		l.Warn().Str("key", key).Err(err).Msg(msg)
	}
}
