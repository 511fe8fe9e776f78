package common

import (
	"errors"
	"math"

	lru "github.com/hashicorp/golang-lru"
	clog "github.com/kaiachain/chainetl/log"
)

// CacheType selects a Cache implementation, mirroring the teacher's
// common/cache.go CacheType enum.
type CacheType int

const (
	LRUCacheType CacheType = iota
	LRUShardCacheType
	ARCCacheType
)

var DefaultCacheType = LRUCacheType
var CacheScale = 100 // cache size = preset size * CacheScale / 100

var logger = clog.NewModuleLogger("common")

// CacheKey is implemented by lookup keys that can be sharded across
// multiple underlying LRUs, e.g. a classification key of
// (contract address, block number).
type CacheKey interface {
	ShardIndex(shardMask int) int
}

// Cache is the abstraction classifier.Store memoizes classification
// lookups through (package tokenmeta does not cache), as the teacher's chain
// database layer memoized account/trie lookups.
type Cache interface {
	Add(key CacheKey, value interface{}) (evicted bool)
	Get(key CacheKey) (value interface{}, ok bool)
	Contains(key CacheKey) bool
	Purge()
}

type lruCache struct{ lru *lru.Cache }

func (c *lruCache) Add(key CacheKey, value interface{}) bool { return c.lru.Add(key, value) }
func (c *lruCache) Get(key CacheKey) (interface{}, bool)     { return c.lru.Get(key) }
func (c *lruCache) Contains(key CacheKey) bool               { return c.lru.Contains(key) }
func (c *lruCache) Purge()                                   { c.lru.Purge() }

type arcCache struct{ arc *lru.ARCCache }

func (c *arcCache) Add(key CacheKey, value interface{}) bool {
	c.arc.Add(key, value)
	return true
}
func (c *arcCache) Get(key CacheKey) (interface{}, bool) { return c.arc.Get(key) }
func (c *arcCache) Contains(key CacheKey) bool           { return c.arc.Contains(key) }
func (c *arcCache) Purge()                               { c.arc.Purge() }

type lruShardCache struct {
	shards         []*lru.Cache
	shardIndexMask int
}

func (c *lruShardCache) Add(key CacheKey, val interface{}) bool {
	return c.shards[key.ShardIndex(c.shardIndexMask)].Add(key, val)
}
func (c *lruShardCache) Get(key CacheKey) (interface{}, bool) {
	return c.shards[key.ShardIndex(c.shardIndexMask)].Get(key)
}
func (c *lruShardCache) Contains(key CacheKey) bool {
	return c.shards[key.ShardIndex(c.shardIndexMask)].Contains(key)
}
func (c *lruShardCache) Purge() {
	for _, shard := range c.shards {
		s := shard
		go s.Purge()
	}
}

// CacheConfiger builds a concrete Cache, selected by which config type the
// caller constructs (LRUConfig, LRUShardConfig, ARCConfig).
type CacheConfiger interface {
	newCache() (Cache, error)
}

// NewCache builds a Cache from the given config, exactly as the teacher's
// common.NewCache(config) did.
func NewCache(config CacheConfiger) (Cache, error) {
	if config == nil {
		return nil, errors.New("cache config is nil")
	}
	return config.newCache()
}

type LRUConfig struct{ CacheSize int }

func (c LRUConfig) newCache() (Cache, error) {
	size := c.CacheSize * CacheScale / 100
	if size < 1 {
		size = 1
	}
	l, err := lru.New(size)
	return &lruCache{l}, err
}

type ARCConfig struct{ CacheSize int }

func (c ARCConfig) newCache() (Cache, error) {
	size := c.CacheSize * CacheScale / 100
	if size < 1 {
		size = 1
	}
	a, err := lru.NewARC(size)
	return &arcCache{a}, err
}

type LRUShardConfig struct {
	CacheSize int
	NumShards int
}

const (
	minShardSize = 10
	minNumShards = 2
)

func (c LRUShardConfig) newCache() (Cache, error) {
	cacheSize := c.CacheSize * CacheScale / 100
	if cacheSize < 1 {
		logger.Error("negative cache size", "cacheSize", cacheSize, "cacheScale", CacheScale)
		return nil, errors.New("must provide a positive cache size")
	}

	numShards := c.numShardsPowOf2()
	if c.NumShards != numShards {
		logger.Warn("numShards adjusted", "expected", c.NumShards, "actual", numShards)
	}

	shard := &lruShardCache{shards: make([]*lru.Cache, numShards), shardIndexMask: numShards - 1}
	shardSize := cacheSize / numShards
	if shardSize < 1 {
		shardSize = 1
	}
	for i := 0; i < numShards; i++ {
		l, err := lru.New(shardSize)
		if err != nil {
			return nil, err
		}
		shard.shards[i] = l
	}
	return shard, nil
}

func (c LRUShardConfig) numShardsPowOf2() int {
	maxNumShards := float64(c.CacheSize*CacheScale/100) / minShardSize
	numShards := int(math.Min(float64(c.NumShards), maxNumShards))
	if numShards < minNumShards {
		return minNumShards
	}
	prev := minNumShards
	for numShards > minNumShards {
		prev = numShards
		numShards = numShards & (numShards - 1)
	}
	return prev
}
