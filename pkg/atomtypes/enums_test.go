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

package atomtypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/pldtypes"
)

func TestSpinValidation(t *testing.T) {
	v, err := SpinUp.Validate()
	require.NoError(t, err)
	assert.Equal(t, SpinType("UP"), v)

	_, err = pldtypes.Enum[SpinType]("SIDEWAYS").Validate()
	assert.Error(t, err)
}

func TestSubmissionStateTerminal(t *testing.T) {
	assert.False(t, IsTerminal(SubmissionCreated))
	assert.False(t, IsTerminal(SubmissionSubmitting))
	assert.False(t, IsTerminal(SubmissionSubmitted))
	assert.True(t, IsTerminal(SubmissionStored))
	assert.True(t, IsTerminal(SubmissionCollision))
	assert.True(t, IsTerminal(SubmissionIllegalState))
	assert.True(t, IsTerminal(SubmissionUnsuitablePeer))
	assert.True(t, IsTerminal(SubmissionValidationError))
}

func TestSubmissionStateTerminalFailure(t *testing.T) {
	assert.False(t, IsTerminalFailure(SubmissionStored))
	assert.True(t, IsTerminalFailure(SubmissionCollision))
	assert.True(t, IsTerminalFailure(SubmissionValidationError))
}
