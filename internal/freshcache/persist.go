package freshcache

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iTrooz/cryo-dash/internal/cache"
)

// Persister is durable storage behind the in-memory entries.
// Load reports false for anything it cannot read back.
type Persister[T any] interface {
	Load(key string) (Entry[T], bool)
	Save(entry Entry[T]) error
	Delete(key string) error
}

// StorePersister keeps entries in a GenericCache as two records per key:
// the JSON value under <prefix><key> and the fetch time in Unix
// milliseconds under <prefix>timestamp_<key>.
type StorePersister[T any] struct {
	store  cache.GenericCache
	prefix string
}

// NewStorePersister creates a persister writing to store
func NewStorePersister[T any](store cache.GenericCache, prefix string) *StorePersister[T] {
	return &StorePersister[T]{
		store:  store,
		prefix: prefix,
	}
}

func (p *StorePersister[T]) valueKey(key string) string {
	return p.prefix + key
}

func (p *StorePersister[T]) timestampKey(key string) string {
	return p.prefix + "timestamp_" + key
}

// Load reads an entry back. Missing or corrupt records count as absent.
func (p *StorePersister[T]) Load(key string) (Entry[T], bool) {
	data, err := p.store.Get(p.valueKey(key))
	if err != nil {
		logrus.Warnf("Failed to read persisted value for %s: %v", key, err)
		return Entry[T]{}, false
	}
	stamp, err := p.store.Get(p.timestampKey(key))
	if err != nil {
		logrus.Warnf("Failed to read persisted timestamp for %s: %v", key, err)
		return Entry[T]{}, false
	}
	if data == nil || stamp == nil {
		return Entry[T]{}, false
	}

	millis, err := strconv.ParseInt(strings.TrimSpace(string(stamp)), 10, 64)
	if err != nil {
		logrus.Debugf("Ignoring persisted %s: bad timestamp %q", key, stamp)
		return Entry[T]{}, false
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		logrus.Debugf("Ignoring persisted %s: %v", key, err)
		return Entry[T]{}, false
	}

	return Entry[T]{Key: key, Value: value, FetchedAt: time.UnixMilli(millis)}, true
}

// Save writes the value first, then its timestamp
func (p *StorePersister[T]) Save(entry Entry[T]) error {
	data, err := json.Marshal(entry.Value)
	if err != nil {
		return fmt.Errorf("encoding value: %w", err)
	}
	if err := p.store.Set(p.valueKey(entry.Key), data); err != nil {
		return fmt.Errorf("writing value: %w", err)
	}

	stamp := strconv.FormatInt(entry.FetchedAt.UnixMilli(), 10)
	if err := p.store.Set(p.timestampKey(entry.Key), []byte(stamp)); err != nil {
		return fmt.Errorf("writing timestamp: %w", err)
	}
	return nil
}

// Delete removes both records for key
func (p *StorePersister[T]) Delete(key string) error {
	if err := p.store.Delete(p.valueKey(key)); err != nil {
		return fmt.Errorf("deleting value: %w", err)
	}
	if err := p.store.Delete(p.timestampKey(key)); err != nil {
		return fmt.Errorf("deleting timestamp: %w", err)
	}
	return nil
}
