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

// Package account implements the per-address dispatch pipeline: a named,
// ordered list of account systems, each folding the atom-update stream into
// its own state, invoked sequentially and serialized per account.
package account

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/internal/errs"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/internal/log"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/atomtypes"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/pldtypes"
)

// System is a named, stateful fold over an account's atom-update stream. It
// exposes exactly one operation on the dispatch path; anything else (snapshot
// queries, observation streams) is consumer-side and never feeds back into
// the pipeline.
type System interface {
	Name() string
	ProcessAtomUpdate(ctx context.Context, update atomtypes.AtomUpdate) error
}

// Account owns one address's state, mutated only by its own dispatch pipeline
// (single-writer). Systems are invoked sequentially, in registration order, and
// each must complete before the next update is admitted.
type Account struct {
	Address *pldtypes.EthAddress

	mu      sync.Mutex
	systems []System
	byName  map[string]struct{}
}

func New(address *pldtypes.EthAddress) *Account {
	return &Account{
		Address: address,
		byName:  map[string]struct{}{},
	}
}

// Register adds a system to the end of the dispatch order. Registering two
// systems under the same name is an error - names must be unique per account.
func (a *Account) Register(ctx context.Context, s System) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.byName[s.Name()]; exists {
		return i18n.NewError(ctx, errs.MsgAccountSystemDuplicateName, s.Name())
	}
	a.byName[s.Name()] = struct{}{}
	a.systems = append(a.systems, s)
	return nil
}

// Systems returns the registered systems in dispatch order.
func (a *Account) Systems() []System {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]System, len(a.systems))
	copy(out, a.systems)
	return out
}

// Dispatch runs update through every registered system in order, serialized
// under the account's own lock - there is no per-particle parallelism, and no
// suspension inside the fold itself; systems suspend only at their own I/O
// boundaries (cache reads/writes).
//
// One system's error or panic never stops the others from seeing update: a
// transient fault in a system registered earlier (e.g. cache) must not starve
// a system registered later (e.g. transfer) of the update, or the two would
// silently drift out of sync. Every system is invoked regardless of the
// others' outcome; their errors are logged individually and joined into the
// return value so a caller can still detect that something failed.
func (a *Account) Dispatch(ctx context.Context, update atomtypes.AtomUpdate) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var failures []error
	for _, s := range a.systems {
		if err := a.invoke(ctx, s, update); err != nil {
			log.L(ctx).Errorf("account system %s failed processing update for %s: %s", s.Name(), a.Address, err)
			failures = append(failures, err)
		}
	}
	return errors.Join(failures...)
}

func (a *Account) invoke(ctx context.Context, s System, update atomtypes.AtomUpdate) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = i18n.NewError(ctx, errs.MsgAccountSystemPanic, s.Name(), r)
		}
	}()
	if err := s.ProcessAtomUpdate(ctx, update); err != nil {
		return i18n.WrapError(ctx, err, errs.MsgAccountSystemFailed, s.Name(), err)
	}
	return nil
}

func (a *Account) String() string {
	return fmt.Sprintf("Account[%s]", a.Address)
}
