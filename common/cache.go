// Copyright 2024-2025
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Cache is a two-tier byte cache: an in-process LRU always, plus an optional
// shared redis tier when cache.redis is enabled. Values are lz4-compressed.
// The cache is constructed once at startup and handed to whichever component
// needs it; there is no package-level cache instance.
type Cache struct {
	local *lru.Cache
	rdb   *redis.Client
	ttl   time.Duration
}

// NewCache builds a cache from the cache.* configuration keys.
func NewCache() (*Cache, error) {
	local, err := lru.New(viper.GetInt("cache.local_size"))
	if err != nil {
		return nil, err
	}

	c := &Cache{
		local: local,
		ttl:   time.Duration(viper.GetInt("cache.ttl")) * time.Second,
	}

	if viper.GetBool("cache.redis") {
		opt, err := redis.ParseURL(viper.GetString("cache.redis_url"))
		if err != nil {
			log.Error().Err(err).Msg("could not parse redis URL")
			return nil, err
		}
		c.rdb = redis.NewClient(opt)
	}

	return c, nil
}

// Set stores a value in every configured tier.
func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	compressed, err := Compress(value)
	if err != nil {
		return err
	}
	c.local.Add(key, compressed)

	if c.rdb != nil {
		return c.rdb.Set(ctx, key, compressed, c.ttl).Err()
	}
	return nil
}

// Get returns the cached value for key; the second return reports a hit.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if v, ok := c.local.Get(key); ok {
		raw, err := Decompress(v.([]byte))
		if err != nil {
			log.Warn().Err(err).Str("Key", key).Msg("could not decompress cached value")
			return nil, false
		}
		return raw, true
	}

	if c.rdb != nil {
		val, err := c.rdb.GetEx(ctx, key, c.ttl).Bytes()
		if err != nil {
			return nil, false
		}
		raw, err := Decompress(val)
		if err != nil {
			log.Warn().Err(err).Str("Key", key).Msg("could not decompress cached value")
			return nil, false
		}
		return raw, true
	}

	return nil, false
}

// Remove drops key from every tier.
func (c *Cache) Remove(ctx context.Context, key string) {
	c.local.Remove(key)
	if c.rdb != nil {
		if err := c.rdb.Del(ctx, key).Err(); err != nil {
			log.Warn().Err(err).Str("Key", key).Msg("could not remove key from redis")
		}
	}
}
