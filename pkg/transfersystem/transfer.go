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

// Package transfersystem implements the UTXO-style projection: unspent/spent
// consumable sets, per-token-class balances, and transaction history, derived
// from an account's atom-update stream.
package transfersystem

import (
	"context"
	"math/big"
	"sync"

	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/atomtypes"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/eventstream"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/pldtypes"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/tokendef"
)

const SystemName = "transfer"

// System is the UTXO projection account system: it owns unspentConsumables,
// spentConsumables, per-token balance, and transaction history for one address.
type System struct {
	address *pldtypes.EthAddress
	tokens  *tokendef.Registry

	mu                 sync.Mutex
	transactions       map[string]*Transaction // keyed by hid hex string, insertion order tracked separately
	order              []string
	balance            map[string]*pldtypes.PLDBigInt
	unspentConsumables map[string]atomtypes.Particle
	spentConsumables   map[string]atomtypes.Particle

	txStream      *eventstream.Multicast[TransactionEvent]
	balanceStream *eventstream.LastValue[map[string]*pldtypes.PLDBigInt]
}

func New(address *pldtypes.EthAddress, tokens *tokendef.Registry) *System {
	s := &System{
		address:            address,
		tokens:             tokens,
		transactions:       map[string]*Transaction{},
		balance:            map[string]*pldtypes.PLDBigInt{},
		unspentConsumables: map[string]atomtypes.Particle{},
		spentConsumables:   map[string]atomtypes.Particle{},
		txStream:           eventstream.NewMulticast[TransactionEvent](64),
		balanceStream:      eventstream.NewLastValue[map[string]*pldtypes.PLDBigInt](8),
	}
	s.balanceStream.Emit(s.snapshotBalance())
	return s
}

func (s *System) Name() string { return SystemName }

// ProcessAtomUpdate implements account.System.
func (s *System) ProcessAtomUpdate(_ context.Context, update atomtypes.AtomUpdate) error {
	if !update.Atom.HasTokenBearingParticle() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	switch update.Action {
	case atomtypes.ActionStore:
		s.applyStore(update.Atom)
	case atomtypes.ActionDelete:
		s.applyDelete(update.Atom)
	}
	return nil
}

func (s *System) applyStore(atom atomtypes.Atom) {
	hidKey := atom.HidString()
	if _, exists := s.transactions[hidKey]; exists {
		return // idempotent: duplicate STORE is a no-op
	}

	tx := newTransaction(atom)
	for _, sp := range atom.SpunParticles {
		p := sp.Particle
		switch {
		case p.IsFee:
			// POW fee assumption: no token movement recorded.
		case p.Address.Equals(s.address):
			delta := new(big.Int).Set(p.Amount.Int())
			if sp.IsDown() {
				delta.Neg(delta)
				s.spentConsumables[p.ID] = p
				delete(s.unspentConsumables, p.ID)
			} else {
				if _, alreadySpent := s.spentConsumables[p.ID]; !alreadySpent {
					s.unspentConsumables[p.ID] = p
				}
			}
			tx.addBalance(p.TokenClassReference.String(), (*pldtypes.PLDBigInt)(delta))
		default:
			tx.Participants[p.Address.String()] = p.Address
		}
	}

	s.transactions[hidKey] = tx
	s.order = append(s.order, hidKey)
	for k, v := range tx.Balance {
		s.addAccountBalance(k, v)
	}

	s.balanceStream.Emit(s.snapshotBalance())
	s.txStream.Emit(TransactionEvent{Action: atomtypes.ActionStore, Hid: atom.Hid, Transaction: tx})
}

func (s *System) applyDelete(atom atomtypes.Atom) {
	hidKey := atom.HidString()
	tx, exists := s.transactions[hidKey]
	if !exists {
		return // orphan DELETE is a no-op
	}

	for _, sp := range atom.SpunParticles {
		p := sp.Particle
		switch {
		case p.IsFee:
		case p.Address.Equals(s.address):
			if sp.IsDown() {
				// inverse of STORE's DOWN: move back from spent to unspent
				s.unspentConsumables[p.ID] = p
				delete(s.spentConsumables, p.ID)
			} else {
				// inverse of STORE's UP: remove from unspent, leaving spent as it was
				delete(s.unspentConsumables, p.ID)
			}
		default:
			// participants recomputed identically; harmless, kept for the emitted event
		}
	}

	delete(s.transactions, hidKey)
	for i, h := range s.order {
		if h == hidKey {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	for k, v := range tx.Balance {
		neg := new(big.Int).Neg(v.Int())
		s.addAccountBalance(k, (*pldtypes.PLDBigInt)(neg))
	}

	s.balanceStream.Emit(s.snapshotBalance())
	s.txStream.Emit(TransactionEvent{Action: atomtypes.ActionDelete, Hid: atom.Hid, Transaction: tx})
}

func (s *System) addAccountBalance(tokenClass string, delta *pldtypes.PLDBigInt) {
	cur, ok := s.balance[tokenClass]
	if !ok {
		cur = pldtypes.NewPLDBigInt(0)
	}
	cur.Int().Add(cur.Int(), delta.Int())
	s.balance[tokenClass] = cur
}

func (s *System) snapshotBalance() map[string]*pldtypes.PLDBigInt {
	out := make(map[string]*pldtypes.PLDBigInt, len(s.balance))
	for k, v := range s.balance {
		out[k] = (*pldtypes.PLDBigInt)(new(big.Int).Set(v.Int()))
	}
	return out
}

// GetUnspentConsumables returns a snapshot of the unspent particle set. Stable
// ordering is not guaranteed; callers that need determinism must sort.
func (s *System) GetUnspentConsumables() []atomtypes.Particle {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]atomtypes.Particle, 0, len(s.unspentConsumables))
	for _, p := range s.unspentConsumables {
		out = append(out, p)
	}
	return out
}

// GetBalance returns a snapshot of the raw subunit balance map.
func (s *System) GetBalance() map[string]*pldtypes.PLDBigInt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotBalance()
}

// GetTokenUnitsBalance materializes the balance as decimal units, dividing
// subunits by the fixed 10^18 subunit factor with truncation toward zero.
// Token classes not resolvable through the registry are omitted.
func (s *System) GetTokenUnitsBalance() map[string]*big.Float {
	s.mu.Lock()
	balances := s.snapshotBalance()
	s.mu.Unlock()

	out := map[string]*big.Float{}
	for k, v := range balances {
		if !s.tokens.Has(k) {
			continue
		}
		f := new(big.Float).SetMode(big.ToZero).SetInt(v.Int())
		f.Quo(f, tokendef.SubunitFactorFloat)
		out[k] = f
	}
	return out
}

// GetAllTransactions replays all currently-known transactions in insertion
// order onto out as STORE events, then subscribes out to the live stream so
// late subscribers never miss history. Call in a goroutine if the consumer end
// is not drained concurrently.
func (s *System) GetAllTransactions() (<-chan TransactionEvent, func()) {
	s.mu.Lock()
	history := make([]TransactionEvent, 0, len(s.order))
	for _, hidKey := range s.order {
		history = append(history, TransactionEvent{
			Action:      atomtypes.ActionStore,
			Hid:         s.transactions[hidKey].Hid,
			Transaction: s.transactions[hidKey],
		})
	}
	live, unsub := s.txStream.Subscribe()
	s.mu.Unlock()

	out := make(chan TransactionEvent, len(history)+cap(live))
	for _, ev := range history {
		out <- ev
	}
	go func() {
		for ev := range live {
			out <- ev
		}
		close(out)
	}()
	return out, unsub
}

// SubscribeBalance returns a channel that immediately receives the current
// balance, then every subsequent update.
func (s *System) SubscribeBalance() (<-chan map[string]*pldtypes.PLDBigInt, func()) {
	return s.balanceStream.Subscribe()
}

// SubscribeTransactions returns a channel that receives only live transaction
// events (no history replay) - use GetAllTransactions for the replay+live view.
func (s *System) SubscribeTransactions() (<-chan TransactionEvent, func()) {
	return s.txStream.Subscribe()
}
