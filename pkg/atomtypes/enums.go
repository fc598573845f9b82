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

type SpinType string

func (t SpinType) Options() []string {
	return []string{"UP", "DOWN"}
}

const (
	SpinUp   pldtypes.Enum[SpinType] = "UP"
	SpinDown pldtypes.Enum[SpinType] = "DOWN"
)

type ParticleClassType string

func (t ParticleClassType) Options() []string {
	return []string{"MINT", "TRANSFER", "BURN"}
}

const (
	ParticleMint     pldtypes.Enum[ParticleClassType] = "MINT"
	ParticleTransfer pldtypes.Enum[ParticleClassType] = "TRANSFER"
	ParticleBurn     pldtypes.Enum[ParticleClassType] = "BURN"
)

type DecryptionStateType string

func (t DecryptionStateType) Options() []string {
	return []string{"DECRYPTED", "ENCRYPTED_NOT_OWNED", "CANNOT_DECRYPT"}
}

const (
	Decrypted          pldtypes.Enum[DecryptionStateType] = "DECRYPTED"
	EncryptedNotOwned  pldtypes.Enum[DecryptionStateType] = "ENCRYPTED_NOT_OWNED"
	CannotDecrypt      pldtypes.Enum[DecryptionStateType] = "CANNOT_DECRYPT"
)

type AtomActionType string

func (t AtomActionType) Options() []string {
	return []string{"STORE", "DELETE"}
}

const (
	ActionStore  pldtypes.Enum[AtomActionType] = "STORE"
	ActionDelete pldtypes.Enum[AtomActionType] = "DELETE"
)

type SubmissionStateType string

func (t SubmissionStateType) Options() []string {
	return []string{
		"CREATED", "SUBMITTING", "SUBMITTED", "STORED",
		"COLLISION", "ILLEGAL_STATE", "UNSUITABLE_PEER", "VALIDATION_ERROR",
	}
}

const (
	SubmissionCreated          pldtypes.Enum[SubmissionStateType] = "CREATED"
	SubmissionSubmitting       pldtypes.Enum[SubmissionStateType] = "SUBMITTING"
	SubmissionSubmitted        pldtypes.Enum[SubmissionStateType] = "SUBMITTED"
	SubmissionStored           pldtypes.Enum[SubmissionStateType] = "STORED"
	SubmissionCollision        pldtypes.Enum[SubmissionStateType] = "COLLISION"
	SubmissionIllegalState     pldtypes.Enum[SubmissionStateType] = "ILLEGAL_STATE"
	SubmissionUnsuitablePeer   pldtypes.Enum[SubmissionStateType] = "UNSUITABLE_PEER"
	SubmissionValidationError  pldtypes.Enum[SubmissionStateType] = "VALIDATION_ERROR"
)

// IsTerminalFailure reports whether a submission state is one of the terminal
// failure outcomes that decrements the connection's active-work refcount.
func IsTerminalFailure(s pldtypes.Enum[SubmissionStateType]) bool {
	switch s {
	case SubmissionCollision, SubmissionIllegalState, SubmissionUnsuitablePeer, SubmissionValidationError:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether a submission state ends the state machine, success or failure.
func IsTerminal(s pldtypes.Enum[SubmissionStateType]) bool {
	return s == SubmissionStored || IsTerminalFailure(s)
}
