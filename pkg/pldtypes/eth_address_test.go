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

package pldtypes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEthAddressRoundTrip(t *testing.T) {
	a := RandAddress()
	parsed, err := ParseEthAddress(a.String())
	require.NoError(t, err)
	assert.True(t, a.Equals(parsed))
}

func TestEthAddressEqualsNilSafety(t *testing.T) {
	a := RandAddress()
	assert.False(t, a.Equals(nil))
	assert.False(t, (*EthAddress)(nil).Equals(a))
	assert.True(t, (*EthAddress)(nil).Equals(nil))
}

func TestEthAddressJSONRoundTrip(t *testing.T) {
	a := RandAddress()
	b, err := json.Marshal(a)
	require.NoError(t, err)

	var out EthAddress
	require.NoError(t, json.Unmarshal(b, &out))
	assert.True(t, a.Equals(&out))
}

func TestEthAddressIsZero(t *testing.T) {
	var a EthAddress
	assert.True(t, a.IsZero())
	assert.True(t, (*EthAddress)(nil).IsZero())
	assert.False(t, RandAddress().IsZero())
}

func TestParseEthAddressInvalid(t *testing.T) {
	_, err := ParseEthAddress("not-an-address")
	assert.Error(t, err)
}
