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

package tokendef

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/pldtypes"
)

func TestRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	def := Definition{Reference: "xrd", DisplayName: "Radix", Granularity: pldtypes.NewPLDBigInt(1)}
	require.NoError(t, r.Register(def))

	assert.True(t, r.Has("xrd"))
	got, err := r.Get(context.Background(), "xrd")
	require.NoError(t, err)
	assert.Equal(t, "Radix", got.DisplayName)
}

func TestRegisterZeroGranularityRejected(t *testing.T) {
	r := NewRegistry()
	err := r.Register(Definition{Reference: "bad", Granularity: pldtypes.NewPLDBigInt(0)})
	assert.Error(t, err)
	assert.False(t, r.Has("bad"))
}

func TestRegisterNilGranularityRejected(t *testing.T) {
	r := NewRegistry()
	err := r.Register(Definition{Reference: "bad"})
	assert.Error(t, err)
}

func TestGetUnknownClassErrors(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get(context.Background(), "unknown")
	assert.Error(t, err)
}

func TestSubunitFactorIsTenToEighteen(t *testing.T) {
	assert.Equal(t, "1000000000000000000", SubunitFactor.String())
}
