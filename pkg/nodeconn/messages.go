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

package nodeconn

import (
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/atomtypes"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/pldtypes"
)

// atomsSubscribeParams is the payload of Atoms.subscribe.
type atomsSubscribeParams struct {
	SubscriberID int64        `json:"subscriberId"`
	Query        atomsQuery   `json:"query"`
}

type atomsQuery struct {
	DestinationAddress string `json:"destinationAddress"`
}

// atomsCancelParams is the payload of Atoms.cancel.
type atomsCancelParams struct {
	SubscriberID int64 `json:"subscriberId"`
}

// atomsSubscribeUpdateNotification is the server-pushed payload of Atoms.subscribeUpdate.
type atomsSubscribeUpdateNotification struct {
	SubscriberID int64            `json:"subscriberId"`
	Atoms        []wireAtom       `json:"atoms"`
}

// wireAtom is the wire shape of an atom as received over Atoms.subscribeUpdate;
// atom (de)serialization itself is an external collaborator this module does
// not own (spec §1), so this is deliberately the minimal shape the node
// connection needs to build an atomtypes.Atom and check its hid.
type wireAtom struct {
	Hid           pldtypes.HexBytes        `json:"hid"`
	Timestamp     int64                    `json:"timestamp"`
	SpunParticles []atomtypes.SpunParticle `json:"spunParticles"`
	ProcessedData *atomtypes.ProcessedData `json:"processedData,omitempty"`
}

// submitAtomAndSubscribeParams is the payload of Universe.submitAtomAndSubscribe.
type submitAtomAndSubscribeParams struct {
	SubscriberID int64          `json:"subscriberId"`
	Atom         atomtypes.Atom `json:"atom"`
}

// atomSubmissionStateNotification is the server-pushed payload of AtomSubmissionState.onNext.
type atomSubmissionStateNotification struct {
	SubscriberID int64  `json:"subscriberId"`
	Value        string `json:"value"`
	Message      string `json:"message,omitempty"`
}

// networkGetSelfParams is the payload of the periodic keepalive call.
type networkGetSelfParams struct {
	ID string `json:"id"`
}
