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

package cachesystem

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/atomtypes"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/pldtypes"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.db")
	st, err := Open(context.Background(), path)
	require.NoError(t, err)
	return st
}

func openTestSystem(t *testing.T) *System {
	t.Helper()
	return openTestStore(t).System("acct-1")
}

func TestNoopSystemIgnoresEverything(t *testing.T) {
	s := NewNoop()
	require.NoError(t, s.ProcessAtomUpdate(context.Background(), atomtypes.AtomUpdate{Action: atomtypes.ActionStore}))
	loaded, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestStoreThenLoadReturnsAtom(t *testing.T) {
	s := openTestSystem(t)
	atom := atomtypes.Atom{Hid: pldtypes.MustParseHexBytes("0x01")}

	require.NoError(t, s.ProcessAtomUpdate(context.Background(), atomtypes.AtomUpdate{Action: atomtypes.ActionStore, Atom: atom}))

	loaded, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, atom.HidString(), loaded[0].HidString())
}

func TestDeleteRemovesCachedAtom(t *testing.T) {
	s := openTestSystem(t)
	atom := atomtypes.Atom{Hid: pldtypes.MustParseHexBytes("0x02")}
	ctx := context.Background()

	require.NoError(t, s.ProcessAtomUpdate(ctx, atomtypes.AtomUpdate{Action: atomtypes.ActionStore, Atom: atom}))
	require.NoError(t, s.ProcessAtomUpdate(ctx, atomtypes.AtomUpdate{Action: atomtypes.ActionDelete, Atom: atom}))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestStoreIsUpsertOnDuplicateHid(t *testing.T) {
	s := openTestSystem(t)
	atom := atomtypes.Atom{Hid: pldtypes.MustParseHexBytes("0x03")}
	ctx := context.Background()

	require.NoError(t, s.ProcessAtomUpdate(ctx, atomtypes.AtomUpdate{Action: atomtypes.ActionStore, Atom: atom}))
	require.NoError(t, s.ProcessAtomUpdate(ctx, atomtypes.AtomUpdate{Action: atomtypes.ActionStore, Atom: atom}))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestSystemName(t *testing.T) {
	assert.Equal(t, "cache", NewNoop().Name())
}

func TestLoadIsScopedPerIdentity(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	sysA := store.System("acct-a")
	sysB := store.System("acct-b")

	atomA := atomtypes.Atom{Hid: pldtypes.MustParseHexBytes("0x0a")}
	atomB := atomtypes.Atom{Hid: pldtypes.MustParseHexBytes("0x0b")}
	require.NoError(t, sysA.ProcessAtomUpdate(ctx, atomtypes.AtomUpdate{Action: atomtypes.ActionStore, Atom: atomA}))
	require.NoError(t, sysB.ProcessAtomUpdate(ctx, atomtypes.AtomUpdate{Action: atomtypes.ActionStore, Atom: atomB}))

	loadedA, err := sysA.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loadedA, 1)
	assert.Equal(t, atomA.HidString(), loadedA[0].HidString())

	loadedB, err := sysB.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loadedB, 1)
	assert.Equal(t, atomB.HidString(), loadedB[0].HidString())

	// deleting acct-a's atom never touches acct-b's cached copy.
	require.NoError(t, sysA.ProcessAtomUpdate(ctx, atomtypes.AtomUpdate{Action: atomtypes.ActionDelete, Atom: atomA}))
	loadedA, err = sysA.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loadedA)
	loadedB, err = sysB.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loadedB, 1)
}

func TestSameAtomCachedIndependentlyForTwoIdentities(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	sysA := store.System("acct-a")
	sysB := store.System("acct-b")
	shared := atomtypes.Atom{Hid: pldtypes.MustParseHexBytes("0x0c")}

	require.NoError(t, sysA.ProcessAtomUpdate(ctx, atomtypes.AtomUpdate{Action: atomtypes.ActionStore, Atom: shared}))
	require.NoError(t, sysB.ProcessAtomUpdate(ctx, atomtypes.AtomUpdate{Action: atomtypes.ActionStore, Atom: shared}))

	loadedA, err := sysA.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loadedA, 1)
	loadedB, err := sysB.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loadedB, 1)
}
