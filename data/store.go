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

package data

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

const indexFile = "index.json"

// Store persists token histories as flat JSON files, one per token, plus an
// index document. It intentionally mirrors a static-file layout a frontend
// can read directly; there is no database behind it.
type Store struct {
	dir string
}

// NewStore opens (creating if necessary) a JSON store rooted at dir.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create data directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// History loads the token's history file. A missing file maps to ErrNotFound
// so callers can distinguish "never downloaded" from a real failure.
func (s *Store) History(id string) (*TokenHistory, error) {
	raw, err := os.ReadFile(s.historyPath(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		return nil, err
	}

	var history TokenHistory
	if err := json.Unmarshal(raw, &history); err != nil {
		log.Warn().Err(err).Str("Token", id).Msg("could not parse token history file")
		return nil, fmt.Errorf("%s: %w", id, ErrCorruptData)
	}
	return &history, nil
}

// SaveHistory writes the token's history file.
func (s *Store) SaveHistory(history *TokenHistory) error {
	raw, err := json.Marshal(history)
	if err != nil {
		return err
	}
	return os.WriteFile(s.historyPath(history.CryptoID), raw, 0o644)
}

// Index loads the store's index document; ErrNotFound when it doesn't exist.
func (s *Store) Index() (*Index, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, indexFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var idx Index
	if err := json.Unmarshal(raw, &idx); err != nil {
		return nil, fmt.Errorf("index: %w", ErrCorruptData)
	}
	return &idx, nil
}

// SaveIndex writes the index document.
func (s *Store) SaveIndex(idx *Index) error {
	raw, err := json.Marshal(idx)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, indexFile), raw, 0o644)
}

func (s *Store) historyPath(id string) string {
	return filepath.Join(s.dir, id+".json")
}
