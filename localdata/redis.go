// Copyright 2025-2026
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

package localdata

import (
	"context"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// RedisStore persists values in redis with an in-process LRU in front of it.
// The LRU only short-circuits reads; every write and delete goes through to
// redis so teardown is durable.
type RedisStore struct {
	rdb    *redis.Client
	cache  *lru.Cache
	prefix string
}

// NewRedisStore connects using viper configuration (localdata.redis_url,
// localdata.local_size). prefix namespaces keys per user so two accounts on
// one machine cannot see each other's values.
func NewRedisStore(prefix string) (*RedisStore, error) {
	opt, err := redis.ParseURL(viper.GetString("localdata.redis_url"))
	if err != nil {
		log.Error().Err(err).Msg("could not parse redis URL")
		return nil, err
	}

	size := viper.GetInt("localdata.local_size")
	if size <= 0 {
		size = 128
	}
	cache, err := lru.New(size)
	if err != nil {
		log.Error().Err(err).Msg("could not create LRU cache")
		return nil, err
	}

	return &RedisStore{
		rdb:    redis.NewClient(opt),
		cache:  cache,
		prefix: prefix,
	}, nil
}

func (s *RedisStore) key(key string) string {
	if s.prefix == "" {
		return "ssc:" + key
	}
	return "ssc:" + s.prefix + ":" + key
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	full := s.key(key)
	if v, ok := s.cache.Get(full); ok {
		return v.(string), true, nil
	}

	val, err := s.rdb.Get(ctx, full).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	s.cache.Add(full, val)
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	full := s.key(key)
	s.cache.Add(full, value)
	return s.rdb.Set(ctx, full, value, 0).Err()
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		fk := s.key(k)
		s.cache.Remove(fk)
		full = append(full, fk)
	}
	return s.rdb.Del(ctx, full...).Err()
}
