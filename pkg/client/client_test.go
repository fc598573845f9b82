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

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/internal/confutil"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/atomtypes"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/pldconf"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/pldtypes"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/rpcclient"
)

// newAckingWSServer starts a real websocket server that acknowledges every RPC
// request it receives with an empty-result response carrying the same ID -
// enough for a node connection to open and subscribe against.
func newAckingWSServer(t *testing.T) (url string, close func()) {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		go func() {
			for {
				_, msg, err := conn.ReadMessage()
				if err != nil {
					return
				}
				var req rpcclient.RPCRequest
				if err := json.Unmarshal(msg, &req); err != nil {
					continue
				}
				resp := rpcclient.RPCResponse{JSONRpc: "2.0", ID: req.ID}
				b, _ := json.Marshal(resp)
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					return
				}
			}
		}()
	}))
	url = "ws" + strings.TrimPrefix(srv.URL, "http")
	return url, srv.Close
}

func testClientConfig(url string) *pldconf.ClientConfig {
	conf := *pldconf.ClientConfigDefaults
	conf.Node.URL = url
	conf.Node.HeartbeatInterval = confutil.P("1h")
	return &conf
}

func TestOpenAndTrackAddressDeliversNoErrorAndTracksBalance(t *testing.T) {
	url, closeServer := newAckingWSServer(t)
	defer closeServer()

	c, err := New(context.Background(), testClientConfig(url), nil)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Open())

	addr := pldtypes.RandAddress()
	transfer, err := c.TrackAddress(context.Background(), addr, true)
	require.NoError(t, err)
	require.NotNil(t, transfer)

	assert.Empty(t, transfer.GetBalance())
}

// Two addresses tracked on the same Client must never see each other's cached
// history replayed into their own pipeline, even though they share one cache
// database and one Client instance.
func TestTrackAddressCacheReplayIsScopedPerAddress(t *testing.T) {
	url, closeServer := newAckingWSServer(t)
	defer closeServer()

	conf := testClientConfig(url)
	conf.Cache.Enabled = true
	conf.Cache.DB.SQLite.DSN = filepath.Join(t.TempDir(), "cache.db")

	c, err := New(context.Background(), conf, nil)
	require.NoError(t, err)
	defer c.Close()
	require.NoError(t, c.Open())

	addrA := pldtypes.RandAddress()
	addrB := pldtypes.RandAddress()

	transferA, err := c.TrackAddress(context.Background(), addrA, true)
	require.NoError(t, err)
	historyA, unsubA := transferA.GetAllTransactions()
	defer unsubA()

	// Seed B's cache directly with an atom crediting B, as if B had been
	// tracked and cached on a prior run of the process.
	cacheB := c.cacheSystemFor(addrB.String())
	seeded := atomtypes.Atom{
		Hid: pldtypes.MustParseHexBytes("0x0b0b"),
		SpunParticles: []atomtypes.SpunParticle{
			{Spin: atomtypes.SpinUp, Particle: atomtypes.Particle{ID: "seed-1", Address: addrB, Amount: pldtypes.NewPLDBigInt(42)}},
		},
	}
	require.NoError(t, cacheB.ProcessAtomUpdate(context.Background(), atomtypes.AtomUpdate{Action: atomtypes.ActionStore, Atom: seeded}))

	// B is tracked fresh on the very same Client/cache database: it must
	// replay its own seeded atom...
	transferB, err := c.TrackAddress(context.Background(), addrB, false)
	require.NoError(t, err)
	require.Contains(t, transferB.GetBalance(), atomtypes.TokenClassReference{}.String())
	assert.Equal(t, int64(42), transferB.GetBalance()[atomtypes.TokenClassReference{}.String()].Int64())

	// ...and A, already tracked, must never have received it.
	select {
	case ev := <-historyA:
		t.Fatalf("A's pipeline received an atom that was only ever cached for B: %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
	assert.Empty(t, transferA.GetBalance())
}

func TestSubmitAtomReachesSubmittedOverRealSocket(t *testing.T) {
	url, closeServer := newAckingWSServer(t)
	defer closeServer()

	c, err := New(context.Background(), testClientConfig(url), nil)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Open())

	events, err := c.SubmitAtom(context.Background(), atomtypes.Atom{})
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.NotEmpty(t, ev.State)
	case <-time.After(3 * time.Second):
		t.Fatal("expected a submission event from the real socket")
	}
}
