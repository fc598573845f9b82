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

package transfersystem

import (
	"time"

	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/atomtypes"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/pldtypes"
)

// Transaction is the per-atom, per-account projection: the net signed effect of
// one atom on one account's balances, plus the other addresses it touched.
type Transaction struct {
	Hid          pldtypes.HexBytes                          `json:"hid"`
	Timestamp    time.Time                                  `json:"timestamp"`
	Message      string                                     `json:"message"`
	Balance      map[string]*pldtypes.PLDBigInt              `json:"balance"`
	Participants map[string]*pldtypes.EthAddress             `json:"participants"`
	Fee          *pldtypes.PLDBigInt                         `json:"fee"`
}

func newTransaction(atom atomtypes.Atom) *Transaction {
	msg := ""
	if atom.ProcessedData != nil && atom.ProcessedData.DecryptionState != atomtypes.CannotDecrypt {
		msg = atom.ProcessedData.Message
	}
	return &Transaction{
		Hid:          atom.Hid,
		Timestamp:    atom.Timestamp,
		Message:      msg,
		Balance:      map[string]*pldtypes.PLDBigInt{},
		Participants: map[string]*pldtypes.EthAddress{},
		Fee:          pldtypes.NewPLDBigInt(0),
	}
}

func (t *Transaction) addBalance(tokenClass string, delta *pldtypes.PLDBigInt) {
	cur, ok := t.Balance[tokenClass]
	if !ok {
		cur = pldtypes.NewPLDBigInt(0)
	}
	cur.Int().Add(cur.Int(), delta.Int())
	t.Balance[tokenClass] = cur
}

// TransactionEvent is the event pushed on the transaction stream.
type TransactionEvent struct {
	Action      pldtypes.Enum[atomtypes.AtomActionType] `json:"action"`
	Hid         pldtypes.HexBytes                       `json:"hid"`
	Transaction *Transaction                            `json:"transaction"`
}
