// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"candlecube/ohlcv"
)

// SeriesCache avoids re-parsing unchanged bar files on every start.
// The key identifies the source content; a changed file yields a new key.
type SeriesCache interface {
	GetSeries(ctx context.Context, key string, load func(ctx context.Context) (ohlcv.Series, error)) (ohlcv.Series, error)
}

// FileKey fingerprints a bar file by absolute path, size and modification
// time. Editing the file changes the key and invalidates cached data.
func FileKey(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%d", abs, fi.Size(), fi.ModTime().UnixNano())))
	return hex.EncodeToString(sum[:]), nil
}
