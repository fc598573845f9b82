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

// Package identity is a registry of local identities known to the client.
// It is not part of the atom-update fold - key generation, ECIES decryption,
// and remote signing are external collaborators this module only names an
// interface for (spec §6), never implements.
package identity

import (
	"context"
	"sync"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/internal/errs"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/pldtypes"
)

// Identity is a named local identity, addressed by its public address. The
// signing key itself is never held here - Signer is an optional remote
// collaborator reached over its own websocket channel.
type Identity struct {
	Name    string
	Address *pldtypes.EthAddress
}

// Signer is the remote identity collaborator described in spec §6:
// register/sign_atom/decrypt_ecies_payload/get_public_key over its own
// websocket channel. The core is indifferent to how it is implemented.
type Signer interface {
	Register(ctx context.Context, name string) (*Identity, error)
	SignAtom(ctx context.Context, address *pldtypes.EthAddress, atomHid pldtypes.HexBytes) ([]byte, error)
	DecryptECIESPayload(ctx context.Context, address *pldtypes.EthAddress, payload []byte) ([]byte, error)
	GetPublicKey(ctx context.Context, address *pldtypes.EthAddress) ([]byte, error)
}

// Manager is an in-memory registry of identities known to this client.
type Manager struct {
	mu   sync.RWMutex
	byAddr map[string]*Identity
}

func NewManager() *Manager {
	return &Manager{byAddr: map[string]*Identity{}}
}

func (m *Manager) Add(id *Identity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byAddr[id.Address.String()] = id
}

func (m *Manager) Get(ctx context.Context, address *pldtypes.EthAddress) (*Identity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byAddr[address.String()]
	if !ok {
		return nil, i18n.NewError(ctx, errs.MsgAddressInvalid, address.String())
	}
	return id, nil
}

func (m *Manager) All() []*Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Identity, 0, len(m.byAddr))
	for _, id := range m.byAddr {
		out = append(out, id)
	}
	return out
}
