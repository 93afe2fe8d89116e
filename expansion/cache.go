package expansion

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/hashicorp/golang-lru"
	"github.com/peterbourgon/diskv"
	"github.com/pkg/errors"
)

// ErrCacheMiss is returned by a HitsCacher when a key has not been stored.
var ErrCacheMiss = errors.New("cache miss")

// CachedHit is the persisted form of an expansion hit.
type CachedHit struct {
	Docno string
	Score float64
}

// HitsCacher models a way to cache (either persistent or not) the expansion documents retrieved for a document.
type HitsCacher interface {
	Get(key string) ([]CachedHit, error)
	Set(key string, hits []CachedHit) error
}

// BlockTransform determines how diskv should partition folders.
func BlockTransform(blockSize int) func(string) []string {
	return func(s string) []string {
		var (
			sliceSize = len(s) / blockSize
			pathSlice = make([]string, sliceSize)
		)
		for i := 0; i < sliceSize; i++ {
			from, to := i*blockSize, (i*blockSize)+blockSize
			pathSlice[i] = s[from:to]
		}
		return pathSlice
	}
}

// HitsToBytes encodes expansion hits to bytes.
func HitsToBytes(hits []CachedHit) ([]byte, error) {
	var buff bytes.Buffer
	enc := gob.NewEncoder(&buff)
	err := enc.Encode(hits)
	if err != nil {
		return nil, err
	}
	return buff.Bytes(), nil
}

func hashKey(key string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return fmt.Sprintf("%016x", h.Sum64())
}

type mapHitsCache struct {
	sync.RWMutex
	m map[string][]CachedHit
}

func (m *mapHitsCache) Get(key string) ([]CachedHit, error) {
	m.RLock()
	defer m.RUnlock()
	if hits, ok := m.m[key]; ok {
		return hits, nil
	}
	return nil, ErrCacheMiss
}

func (m *mapHitsCache) Set(key string, hits []CachedHit) error {
	m.Lock()
	m.m[key] = hits
	m.Unlock()
	return nil
}

// NewMapHitsCache creates a hits cache out of a regular go map.
func NewMapHitsCache() HitsCacher {
	return &mapHitsCache{m: make(map[string][]CachedHit)}
}

type lruHitsCache struct {
	*lru.Cache
}

func (l lruHitsCache) Get(key string) ([]CachedHit, error) {
	if v, ok := l.Cache.Get(key); ok {
		return v.([]CachedHit), nil
	}
	return nil, ErrCacheMiss
}

func (l lruHitsCache) Set(key string, hits []CachedHit) error {
	l.Cache.Add(key, hits)
	return nil
}

// NewLRUHitsCache creates a hits cache that keeps the size most recently used entries.
func NewLRUHitsCache(size int) (HitsCacher, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return lruHitsCache{c}, nil
}

type diskvHitsCache struct {
	*diskv.Diskv
}

func (d diskvHitsCache) Get(key string) ([]CachedHit, error) {
	b, err := d.Read(hashKey(key))
	if err != nil {
		return nil, ErrCacheMiss
	}
	dec := gob.NewDecoder(bytes.NewReader(b))
	var hits []CachedHit
	err = dec.Decode(&hits)
	if err != nil {
		return nil, err
	}
	return hits, nil
}

func (d diskvHitsCache) Set(key string, hits []CachedHit) error {
	b, err := HitsToBytes(hits)
	if err != nil {
		return err
	}
	return d.Write(hashKey(key), b)
}

// NewDiskvHitsCache creates a new on-disk cache with the specified diskv parameters.
func NewDiskvHitsCache(dv *diskv.Diskv) HitsCacher {
	return diskvHitsCache{dv}
}

// NewDiskHitsCache creates an on-disk cache rooted at dir.
func NewDiskHitsCache(dir string) HitsCacher {
	return NewDiskvHitsCache(diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    BlockTransform(4),
		CacheSizeMax: 4096 * 1024,
	}))
}
