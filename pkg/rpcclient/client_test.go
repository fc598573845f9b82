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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/internal/errs"
)

func TestBuildRequestMarshalsParamsAndAllocatesID(t *testing.T) {
	req, rpcErr := BuildRequest(context.Background(), "Atoms.subscribe", []interface{}{
		map[string]interface{}{"subscriberId": 1},
	})
	require.Nil(t, rpcErr)
	assert.Equal(t, "Atoms.subscribe", req.Method)
	assert.Equal(t, "2.0", req.JSONRpc)
	assert.NotEmpty(t, req.ID)
	require.Len(t, req.Params, 1)
	assert.Contains(t, string(req.Params[0]), `"subscriberId":1`)
}

func TestBuildRequestAllocatesDistinctIDs(t *testing.T) {
	req1, _ := BuildRequest(context.Background(), "m", nil)
	req2, _ := BuildRequest(context.Background(), "m", nil)
	assert.NotEqual(t, string(req1.ID), string(req2.ID))
}

func TestBuildRequestRejectsUnmarshalableParam(t *testing.T) {
	_, rpcErr := BuildRequest(context.Background(), "m", []interface{}{make(chan int)})
	require.NotNil(t, rpcErr)
	assert.NotNil(t, rpcErr.RPCError())
}

func TestRPCErrorImplementsError(t *testing.T) {
	err := NewRPCError(context.Background(), RPCCodeInternalError, errs.MsgRPCClientInvalidParam, 0, "m", "boom")
	assert.Equal(t, int64(RPCCodeInternalError), err.Code)
	assert.NotEmpty(t, err.Error())
}

func TestAtomSubscribeConfig(t *testing.T) {
	cfg := AtomSubscribeConfig()
	assert.Equal(t, "Atoms.subscribe", cfg.SubscribeMethod)
	assert.Equal(t, "Atoms.cancel", cfg.UnsubscribeMethod)
	assert.Equal(t, "Atoms.subscribeUpdate", cfg.NotificationMethod)
}
