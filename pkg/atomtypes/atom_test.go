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
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/pldtypes"
)

func TestHasTokenBearingParticle(t *testing.T) {
	addr := pldtypes.RandAddress()
	feeOnly := Atom{
		SpunParticles: []SpunParticle{
			{Spin: SpinDown, Particle: Particle{Address: addr, Amount: pldtypes.NewPLDBigInt(1), IsFee: true}},
		},
	}
	assert.True(t, feeOnly.HasTokenBearingParticle(), "a fee particle is token-bearing, only excluded from balance accounting")

	withTransfer := Atom{
		SpunParticles: []SpunParticle{
			{Spin: SpinUp, Particle: Particle{Address: addr, Amount: pldtypes.NewPLDBigInt(100)}},
		},
	}
	assert.True(t, withTransfer.HasTokenBearingParticle())

	noParticles := Atom{}
	assert.False(t, noParticles.HasTokenBearingParticle())
}

func TestSpunParticleSpinChecks(t *testing.T) {
	up := SpunParticle{Spin: SpinUp}
	down := SpunParticle{Spin: SpinDown}
	assert.True(t, up.IsUp())
	assert.False(t, up.IsDown())
	assert.True(t, down.IsDown())
	assert.False(t, down.IsUp())
}

func TestAtomHidDisplayForms(t *testing.T) {
	a := Atom{Hid: pldtypes.MustParseHexBytes("0xdeadbeef")}
	assert.Equal(t, "0xdeadbeef", a.HidString())
	assert.NotEmpty(t, a.HidBase58())
}

func TestTokenClassReferenceEquality(t *testing.T) {
	issuer := pldtypes.RandAddress()
	a := TokenClassReference{Issuer: issuer, Symbol: "XRD"}
	b := TokenClassReference{Issuer: issuer, Symbol: "XRD"}
	c := TokenClassReference{Issuer: issuer, Symbol: "OTHER"}
	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}
