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
	"time"

	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/pldtypes"
)

// ProcessedData carries optional auxiliary data resolved out-of-band for an atom,
// such as a decrypted message payload.
type ProcessedData struct {
	DecryptionState pldtypes.Enum[DecryptionStateType] `json:"decryptionState"`
	Message         string                             `json:"message,omitempty"`
}

// Atom is a durable, content-addressed bundle of spun particles. Hid is the
// primary key throughout the projection core.
type Atom struct {
	Hid            pldtypes.HexBytes `json:"hid"`
	Timestamp      time.Time         `json:"timestamp"`
	SpunParticles  []SpunParticle    `json:"spunParticles"`
	ProcessedData  *ProcessedData    `json:"processedData,omitempty"`
}

func (a Atom) HidString() string {
	return a.Hid.HexString0xPrefix()
}

// HidBase58 renders the atom's hid in the conventional display form.
func (a Atom) HidBase58() string {
	return a.Hid.Base58String()
}

// HasTokenBearingParticle reports whether any spun particle carries a token
// amount. A fee particle is token-bearing too - it is only excluded from
// balance accounting, not from this filter (spec §3, §4.3). Updates for atoms
// with no token-bearing particle at all are ignored by the transfer account
// system.
func (a Atom) HasTokenBearingParticle() bool {
	for _, sp := range a.SpunParticles {
		if sp.Particle.Amount != nil {
			return true
		}
	}
	return false
}

// AtomUpdate is the tagged event the node connection emits per subscription:
// STORE asserts the atom is newly visible, DELETE retracts a previously stored atom.
type AtomUpdate struct {
	Action pldtypes.Enum[AtomActionType] `json:"action"`
	Atom   Atom                          `json:"atom"`
}
