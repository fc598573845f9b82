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

package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/atomtypes"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/pldtypes"
)

type recordingSystem struct {
	name    string
	calls   []atomtypes.AtomUpdate
	failErr error
	panics  bool
}

func (r *recordingSystem) Name() string { return r.name }

func (r *recordingSystem) ProcessAtomUpdate(_ context.Context, update atomtypes.AtomUpdate) error {
	if r.panics {
		panic("boom")
	}
	r.calls = append(r.calls, update)
	return r.failErr
}

func TestDispatchInvokesSystemsInRegistrationOrder(t *testing.T) {
	a := New(pldtypes.RandAddress())
	var order []string
	first := &recordingSystem{name: "first"}
	second := &recordingSystem{name: "second"}
	require.NoError(t, a.Register(context.Background(), first))
	require.NoError(t, a.Register(context.Background(), second))

	update := atomtypes.AtomUpdate{Action: atomtypes.ActionStore}
	require.NoError(t, a.Dispatch(context.Background(), update))

	for _, s := range a.Systems() {
		order = append(order, s.Name())
	}
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Len(t, first.calls, 1)
	assert.Len(t, second.calls, 1)
}

func TestRegisterDuplicateNameFails(t *testing.T) {
	a := New(pldtypes.RandAddress())
	require.NoError(t, a.Register(context.Background(), &recordingSystem{name: "dup"}))
	err := a.Register(context.Background(), &recordingSystem{name: "dup"})
	assert.Error(t, err)
}

// A system's error must never starve later-registered systems of an update:
// a transient cache fault, for example, must not silently corrupt the
// transfer system's balance bookkeeping by dropping the atom for it too.
func TestDispatchContinuesPastFailingSystem(t *testing.T) {
	a := New(pldtypes.RandAddress())
	failing := &recordingSystem{name: "failing", failErr: assert.AnError}
	next := &recordingSystem{name: "next"}
	require.NoError(t, a.Register(context.Background(), failing))
	require.NoError(t, a.Register(context.Background(), next))

	update := atomtypes.AtomUpdate{Action: atomtypes.ActionStore}
	err := a.Dispatch(context.Background(), update)
	assert.Error(t, err)
	assert.Len(t, next.calls, 1, "a later system must still see the update despite an earlier system's error")
}

// Same guarantee when the earlier system panics rather than returning an
// error: invoke's recover() must not unwind Dispatch's loop.
func TestDispatchContinuesPastPanickingSystem(t *testing.T) {
	a := New(pldtypes.RandAddress())
	panics := &recordingSystem{name: "panics", panics: true}
	next := &recordingSystem{name: "next"}
	require.NoError(t, a.Register(context.Background(), panics))
	require.NoError(t, a.Register(context.Background(), next))

	update := atomtypes.AtomUpdate{Action: atomtypes.ActionStore}
	err := a.Dispatch(context.Background(), update)
	assert.Error(t, err)
	assert.Len(t, next.calls, 1, "a later system must still see the update despite an earlier system's panic")
}
