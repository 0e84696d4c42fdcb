// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package cache

import (
	"context"
	"encoding/json"
	"log"
	"path/filepath"
	"sync"
	"time"

	"candlecube/config"
	"candlecube/ohlcv"

	"github.com/lotodore/localcache"
	"github.com/zhangyunhao116/skipmap"
)

type localSeriesCache struct {
	data     *localcache.Cache
	memory   *skipmap.StringMap[ohlcv.Series]
	initLock sync.Mutex
}

func NewLocalSeriesCache() SeriesCache {
	c := localSeriesCache{
		memory: skipmap.NewString[ohlcv.Series](),
	}
	var err error
	c.data, err = localcache.New(filepath.Join(config.AppName, "series"))
	if err != nil {
		log.Fatalf("error initializing series cache: %v", err)
	}
	return &c
}

func (c *localSeriesCache) GetSeries(ctx context.Context, key string, load func(ctx context.Context) (ohlcv.Series, error)) (ohlcv.Series, error) {
	if series, exists := c.memory.Load(key); exists {
		return series, nil
	}
	// Stale entries of unchanged files age out, changed files get new keys.
	err := c.data.PurgeKey(key, time.Hour*72)
	if err != nil {
		log.Printf("error purging series cache %s, data may be outdated", key)
	}
	series := c.readSeriesFromCache(key)
	if series == nil {
		series, err = c.initSeriesCache(ctx, key, load)
		if err != nil {
			return nil, err
		}
	}
	c.memory.Store(key, series)
	return series, nil
}

func (c *localSeriesCache) readSeriesFromCache(key string) ohlcv.Series {
	rawSeries, err := c.data.ReadFile(key)
	if err == nil {
		var series ohlcv.Series
		err := json.Unmarshal(rawSeries, &series)
		if err == nil {
			return series
		}
		log.Printf("series cache %s contains invalid data", key)
		err = c.data.Remove(key)
		if err != nil {
			log.Printf("error deleting cache %s, series data may be invalid", key)
		}
	}
	return nil
}

func (c *localSeriesCache) initSeriesCache(ctx context.Context, key string, load func(ctx context.Context) (ohlcv.Series, error)) (ohlcv.Series, error) {
	c.initLock.Lock()
	defer c.initLock.Unlock()
	// retry reading cache within lock, to avoid loading the data twice.
	cachedSeries := c.readSeriesFromCache(key)
	if cachedSeries != nil {
		return cachedSeries, nil
	}
	series, err := load(ctx)
	if err != nil {
		return nil, err
	}
	seriesText, err := json.Marshal(&series)
	if err != nil {
		return nil, err
	}
	err = c.data.WriteFile(key, seriesText)
	if err != nil {
		return nil, err
	}
	return series, nil
}
