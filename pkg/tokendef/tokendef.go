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

// Package tokendef resolves token-class references to the definitions needed to
// present a balance in decimal units: symbol, granularity, and display name.
package tokendef

import (
	"context"
	"math/big"
	"sync"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/internal/errs"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/pldtypes"
)

// SubunitFactor is the fixed conversion between a token's smallest denomination
// and one whole unit: 1 token = 10^18 subunits.
var SubunitFactor = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// SubunitFactorFloat is SubunitFactor as a big.Float, for decimal division.
var SubunitFactorFloat = new(big.Float).SetInt(SubunitFactor)

// Definition describes one token class.
type Definition struct {
	Reference   string
	DisplayName string
	Granularity *pldtypes.PLDBigInt
}

// Registry is a simple in-memory map of known token classes, populated by the
// application from configuration or discovery - the core does not fetch
// definitions itself.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

func NewRegistry() *Registry {
	return &Registry{defs: map[string]Definition{}}
}

func (r *Registry) Register(def Definition) error {
	if def.Granularity == nil || def.Granularity.Int().Sign() <= 0 {
		return i18n.NewError(context.Background(), errs.MsgTokenGranularityZero)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[def.Reference] = def
	return nil
}

func (r *Registry) Has(reference string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.defs[reference]
	return ok
}

func (r *Registry) Get(ctx context.Context, reference string) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[reference]
	if !ok {
		return Definition{}, i18n.NewError(ctx, errs.MsgTokenUnknownClass, reference)
	}
	return def, nil
}
