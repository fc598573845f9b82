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

import "github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/pldtypes"

// TokenClassReference identifies a token class by its issuing address and symbol.
type TokenClassReference struct {
	Issuer *pldtypes.EthAddress `json:"issuer"`
	Symbol string               `json:"symbol"`
}

func (t TokenClassReference) String() string {
	if t.Issuer == nil {
		return t.Symbol
	}
	return t.Issuer.String() + "/" + t.Symbol
}

func (t TokenClassReference) Equals(o TokenClassReference) bool {
	return t.Symbol == o.Symbol && t.Issuer.Equals(o.Issuer)
}

// Particle is a value object carried within an atom. Token-bearing particles
// carry amount, owner, and token-class reference; a fee particle is a distinct
// variant excluded from balance accounting.
type Particle struct {
	ID                  string                                   `json:"id"`
	Address             *pldtypes.EthAddress                     `json:"address"`
	Amount              *pldtypes.PLDBigInt                      `json:"amount"`
	TokenClassReference TokenClassReference                      `json:"tokenClassReference"`
	Granularity         *pldtypes.PLDBigInt                      `json:"granularity"`
	Type                pldtypes.Enum[ParticleClassType]         `json:"type"`
	Nonce               uint64                                   `json:"nonce"`
	Planck              uint64                                   `json:"planck"`
	IsFee               bool                                     `json:"isFee"`
}

// SpunParticle pairs a particle with its spin: UP (created, becomes unspent) or
// DOWN (consumed, being spent).
type SpunParticle struct {
	Spin     pldtypes.Enum[SpinType] `json:"spin"`
	Particle Particle                `json:"particle"`
}

func (s SpunParticle) IsUp() bool {
	return s.Spin == SpinUp
}

func (s SpunParticle) IsDown() bool {
	return s.Spin == SpinDown
}
