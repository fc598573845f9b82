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

package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/pldtypes"
)

func TestAddAndGet(t *testing.T) {
	m := NewManager()
	addr := pldtypes.RandAddress()
	id := &Identity{Name: "alice", Address: addr}
	m.Add(id)

	got, err := m.Get(context.Background(), addr)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Name)
}

func TestGetUnknownAddressErrors(t *testing.T) {
	m := NewManager()
	_, err := m.Get(context.Background(), pldtypes.RandAddress())
	assert.Error(t, err)
}

func TestAllReturnsEveryRegisteredIdentity(t *testing.T) {
	m := NewManager()
	m.Add(&Identity{Name: "a", Address: pldtypes.RandAddress()})
	m.Add(&Identity{Name: "b", Address: pldtypes.RandAddress()})

	assert.Len(t, m.All(), 2)
}
