// Copyright © 2024 Kaleido, Inc.
//
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cachesystem implements the optional write-through cache account
// system: on STORE it persists the atom under its hid, on DELETE it removes it,
// and on Load it produces the full set of previously-cached atoms for one
// identity so that identity's account can re-inject them as STORE events
// before live subscription data. One sqlite database backs every tracked
// identity; rows are scoped by identity so one account's cache replay can
// never surface another account's atoms (spec §4.2, §6: "getAtoms(identity)").
package cachesystem

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/internal/errs"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/internal/log"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/atomtypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const SystemName = "cache"

// cachedAtom is the persisted row for one atom, keyed by (identity, hid) so the
// same physical atom can be cached independently for every local identity that
// observed it (e.g. both sides of a transfer).
type cachedAtom struct {
	Identity string `gorm:"primaryKey"`
	Hid      string `gorm:"primaryKey"`
	AtomJSON string
	StoredAt time.Time
}

func (cachedAtom) TableName() string { return "cached_atoms" }

// Store owns the single sqlite database backing every tracked identity's
// cache. Call System to get the per-identity account-system handle.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if necessary) a sqlite-backed cache database at path,
// using AutoMigrate rather than a full migration pipeline - this cache has a
// single table (rows upserted on STORE, removed on DELETE) with no versioned
// schema history to manage.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, i18n.NewError(ctx, errs.MsgCacheDBInitFailed, path)
	}
	if err := db.AutoMigrate(&cachedAtom{}); err != nil {
		return nil, i18n.NewError(ctx, errs.MsgCacheDBInitFailed, path)
	}
	return &Store{db: db}, nil
}

// System returns the cache account system scoped to one identity (typically an
// address's canonical string form). Every store/delete/load against the
// returned System is confined to rows written under that identity.
func (st *Store) System(identity string) *System {
	return &System{db: st.db, identity: identity}
}

// System is the cache account system for exactly one identity. If db is nil
// every operation is a no-op, matching the "no cache provider configured" case
// in the spec.
type System struct {
	db       *gorm.DB
	identity string
}

// NewNoop returns a cache system with no backing store - every operation is a no-op.
func NewNoop() *System {
	return &System{}
}

func (s *System) Name() string { return SystemName }

func (s *System) ProcessAtomUpdate(ctx context.Context, update atomtypes.AtomUpdate) error {
	if s.db == nil {
		return nil
	}
	switch update.Action {
	case atomtypes.ActionStore:
		return s.store(ctx, update.Atom)
	case atomtypes.ActionDelete:
		return s.delete(ctx, update.Atom)
	}
	return nil
}

func (s *System) store(ctx context.Context, atom atomtypes.Atom) error {
	b, err := json.Marshal(atom)
	if err != nil {
		return i18n.WrapError(ctx, err, errs.MsgCacheStoreFailed, atom.HidString(), err)
	}
	row := cachedAtom{Identity: s.identity, Hid: atom.HidString(), AtomJSON: string(b), StoredAt: time.Now()}
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return i18n.WrapError(ctx, err, errs.MsgCacheStoreFailed, atom.HidString(), err)
	}
	return nil
}

func (s *System) delete(ctx context.Context, atom atomtypes.Atom) error {
	if err := s.db.WithContext(ctx).Delete(&cachedAtom{}, "identity = ? AND hid = ?", s.identity, atom.HidString()).Error; err != nil {
		return i18n.WrapError(ctx, err, errs.MsgCacheDeleteFailed, atom.HidString(), err)
	}
	return nil
}

// Load produces every previously-cached atom for this identity, for replay.
// Replay must precede live subscription start - the caller is responsible for
// that ordering.
func (s *System) Load(ctx context.Context) ([]atomtypes.Atom, error) {
	if s.db == nil {
		return nil, nil
	}
	var rows []cachedAtom
	if err := s.db.WithContext(ctx).Where("identity = ?", s.identity).Order("stored_at asc").Find(&rows).Error; err != nil {
		return nil, i18n.WrapError(ctx, err, errs.MsgCacheLoadFailed, s.identity, err)
	}
	out := make([]atomtypes.Atom, 0, len(rows))
	for _, row := range rows {
		var atom atomtypes.Atom
		if err := json.Unmarshal([]byte(row.AtomJSON), &atom); err != nil {
			log.L(ctx).Warnf("cache: dropping unreadable cached atom %s for %s: %s", row.Hid, s.identity, err)
			continue
		}
		out = append(out, atom)
	}
	return out, nil
}
