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

package rpcclient

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/internal/errs"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/pldtypes"
)

type RPCCode int64

const (
	RPCCodeParseError     RPCCode = -32700
	RPCCodeInvalidRequest RPCCode = -32600
	RPCCodeInternalError  RPCCode = -32603
)

type Byteable interface {
	Bytes() []byte
}

func NewRPCErrorResponse(err error, id Byteable, code RPCCode) *RPCResponse {
	var byteID []byte
	if id != nil {
		byteID = id.Bytes()
	}
	return &RPCResponse{
		JSONRpc: "2.0",
		ID:      pldtypes.RawJSON(byteID),
		Error: &RPCError{
			Code:    int64(code),
			Message: err.Error(),
		},
	}
}

type ErrorRPC interface {
	error
	RPCError() *RPCError
}

// SubscriptionConfig names the five methods a subscription-style RPC exchange uses:
// the call that establishes it, the call that tears it down, and the notification
// method the backend pushes updates on. AckMethod/NackMethod are only used by backends
// that require explicit flow-control acknowledgement of each notification.
type SubscriptionConfig struct {
	SubscribeMethod    string
	UnsubscribeMethod  string
	NotificationMethod string
	AckMethod          string
	NackMethod         string
}

// AtomSubscribeConfig is the subscription shape used to watch a node for atom updates
// against a destination address: Atoms.subscribe to open, Atoms.cancel to close, with
// Atoms.subscribeUpdate as the server-pushed notification method.
func AtomSubscribeConfig() SubscriptionConfig {
	return SubscriptionConfig{
		SubscribeMethod:    "Atoms.subscribe",
		UnsubscribeMethod:  "Atoms.cancel",
		NotificationMethod: "Atoms.subscribeUpdate",
	}
}

type RPCRequest struct {
	JSONRpc string             `json:"jsonrpc"`
	ID      pldtypes.RawJSON   `json:"id"`
	Method  string             `json:"method"`
	Params  []pldtypes.RawJSON `json:"params,omitempty"`
}

type RPCError struct {
	Code    int64            `json:"code"`
	Message string           `json:"message"`
	Data    pldtypes.RawJSON `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return e.Message
}

func (e *RPCError) RPCError() *RPCError {
	return e
}

type RPCResponse struct {
	JSONRpc string           `json:"jsonrpc"`
	ID      pldtypes.RawJSON `json:"id"`
	Result  pldtypes.RawJSON `json:"result,omitempty"`
	Error   *RPCError        `json:"error,omitempty"`
	// Only for subscription notifications
	Method string           `json:"method,omitempty"`
	Params pldtypes.RawJSON `json:"params,omitempty"`
}

func (r *RPCResponse) Message() string {
	if r.Error != nil {
		return r.Error.Error()
	}
	return ""
}

var requestCounter int64

func allocateRequestID(req *RPCRequest) string {
	reqID := fmt.Sprintf(`%.9d`, atomic.AddInt64(&requestCounter, 1))
	req.ID = pldtypes.RawJSON(`"` + reqID + `"`)
	return reqID
}

func RPCErrorResponse(err error, id pldtypes.RawJSON, code RPCCode) *RPCResponse {
	return &RPCResponse{
		JSONRpc: "2.0",
		ID:      id,
		Error: &RPCError{
			Code:    int64(code),
			Message: err.Error(),
		},
	}
}

// BuildRequest assembles an RPCRequest with a fresh allocated ID, marshaling
// each positional param.
func BuildRequest(ctx context.Context, method string, params []interface{}) (*RPCRequest, ErrorRPC) {
	req := &RPCRequest{
		JSONRpc: "2.0",
		Method:  method,
		Params:  make([]pldtypes.RawJSON, len(params)),
	}
	allocateRequestID(req)
	for i, param := range params {
		b, err := json.Marshal(param)
		if err != nil {
			return nil, NewRPCError(ctx, RPCCodeInvalidRequest, errs.MsgRPCClientInvalidParam, i, method, err)
		}
		req.Params[i] = pldtypes.RawJSON(b)
	}
	return req, nil
}

func NewRPCError(ctx context.Context, code RPCCode, msg i18n.ErrorMessageKey, inserts ...interface{}) *RPCError {
	return &RPCError{Code: int64(code), Message: i18n.NewError(ctx, msg, inserts...).Error()}
}

func WrapRPCError(code RPCCode, err error) *RPCError {
	return &RPCError{Code: int64(code), Message: err.Error()}
}
