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

// Package nodeconn implements the node connection state machine: a single
// multiplexed RPC session over one websocket that hosts many subscriptions,
// tracks per-atom submission lifecycles, reference-counts active work, and
// collapses into clean teardown on socket loss. There is no auto-reconnection:
// a dropped socket is surfaced as a closed event, never retried internally.
package nodeconn

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/internal/errs"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/internal/log"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/atomtypes"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/eventstream"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/pldconf"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/pldtypes"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/rpcclient"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/wsclient"
)

const (
	openTimeout      = 5 * time.Second
	submitTimeout    = 5 * time.Second
	keepaliveInterval = 10 * time.Second
	idleGrace        = 5 * time.Second
)

// HidComputer recomputes an atom's content hash for the transport-vs-recomputed
// comparison in spec §4.4. Atom hashing is an external collaborator this
// package does not implement; if nil, hash verification is skipped.
type HidComputer func(atomtypes.Atom) pldtypes.HexBytes

// SubmissionEvent is one value on a submission's state stream.
type SubmissionEvent struct {
	State   pldtypes.Enum[atomtypes.SubmissionStateType]
	Message string
}

type subscription struct {
	address *pldtypes.EthAddress
	updates *eventstream.Multicast[atomtypes.AtomUpdate]
}

type submission struct {
	state *eventstream.LastValue[SubmissionEvent]
}

// Connection is one node connection: one websocket, many multiplexed
// subscriptions and submissions.
type Connection struct {
	ctx    context.Context
	cancel context.CancelFunc
	ws     wsclient.WSClient
	hasher HidComputer

	mu               sync.Mutex
	closed           bool
	pending          map[string]chan *rpcclient.RPCResponse
	subs             map[int64]*subscription
	subsByAddress    map[string]int64
	submissions      map[int64]*submission
	nextSubscriberID int64

	refCount     int
	idleTimer    *time.Timer
	closedStream *eventstream.Multicast[struct{}]
	stopKeepalive chan struct{}
}

// New constructs a node connection over a not-yet-connected websocket client.
// hasher may be nil, in which case incoming atoms are never hash-checked.
func New(ctx context.Context, ws wsclient.WSClient, hasher HidComputer) *Connection {
	cctx, cancel := context.WithCancel(ctx)
	return &Connection{
		ctx:           cctx,
		cancel:        cancel,
		ws:            ws,
		hasher:        hasher,
		pending:       map[string]chan *rpcclient.RPCResponse{},
		subs:          map[int64]*subscription{},
		subsByAddress: map[string]int64{},
		submissions:   map[int64]*submission{},
		closedStream:  eventstream.NewMulticast[struct{}](1),
	}
}

// NewFromConfig builds the underlying websocket client from config and wraps it.
func NewFromConfig(ctx context.Context, conf *pldconf.WSClientConfig, hasher HidComputer) (*Connection, error) {
	ws, err := wsclient.New(ctx, conf, nil, nil)
	if err != nil {
		return nil, err
	}
	return New(ctx, ws, hasher), nil
}

// Open dials the socket, resolving once it reports ready or after the 5s open
// timeout (on timeout the socket is closed and a closed event is emitted). On
// success it starts the keepalive and the incoming-message pump.
func (c *Connection) Open() error {
	done := make(chan error, 1)
	go func() { done <- c.ws.Connect() }()

	select {
	case err := <-done:
		if err != nil {
			return err
		}
	case <-time.After(openTimeout):
		c.ws.Close()
		c.closedStream.Emit(struct{}{})
		return i18n.NewError(c.ctx, errs.MsgNodeConnOpenTimeout, openTimeout)
	}

	go c.pump()
	c.startKeepalive()
	return nil
}

// pump reads inbound frames until the receive channel closes (socket dropped),
// then tears every subscription and submission down.
func (c *Connection) pump() {
	for msg := range c.ws.Receive() {
		c.handleMessage(msg)
	}
	c.teardown()
}

func (c *Connection) handleMessage(msg []byte) {
	var res rpcclient.RPCResponse
	if err := json.Unmarshal(msg, &res); err != nil {
		log.L(c.ctx).Warnf("nodeconn: unparseable message: %s", err)
		return
	}

	if res.Method != "" {
		c.handleNotification(res.Method, res.Params)
		return
	}

	c.mu.Lock()
	ch, ok := c.pending[string(res.ID)]
	if ok {
		delete(c.pending, string(res.ID))
	}
	c.mu.Unlock()
	if ok {
		ch <- &res
	}
}

func (c *Connection) handleNotification(method string, params pldtypes.RawJSON) {
	switch method {
	case "Atoms.subscribeUpdate":
		c.handleAtomsSubscribeUpdate(params)
	case "AtomSubmissionState.onNext":
		c.handleSubmissionStateOnNext(params)
	default:
		log.L(c.ctx).Debugf("nodeconn: ignoring unknown notification method %s", method)
	}
}

func (c *Connection) handleAtomsSubscribeUpdate(params pldtypes.RawJSON) {
	var n atomsSubscribeUpdateNotification
	if err := json.Unmarshal(params, &n); err != nil {
		log.L(c.ctx).Warnf("nodeconn: malformed Atoms.subscribeUpdate: %s", err)
		return
	}

	c.mu.Lock()
	sub, ok := c.subs[n.SubscriberID]
	c.mu.Unlock()
	if !ok {
		log.L(c.ctx).Warnf("nodeconn: subscribeUpdate for unknown subscriber %d", n.SubscriberID)
		return
	}

	for _, wa := range n.Atoms {
		atom := atomtypes.Atom{
			Hid:           wa.Hid,
			Timestamp:     time.Unix(0, wa.Timestamp*int64(time.Millisecond)),
			SpunParticles: wa.SpunParticles,
			ProcessedData: wa.ProcessedData,
		}
		if c.hasher != nil {
			if recomputed := c.hasher(atom); !bytes.Equal(recomputed, atom.Hid) {
				log.L(c.ctx).Warnf("nodeconn: hid mismatch transported=%s recomputed=%s", atom.HidString(), recomputed.HexString0xPrefix())
			}
		}
		sub.updates.Emit(atomtypes.AtomUpdate{Action: atomtypes.ActionStore, Atom: atom})
	}
}

func (c *Connection) handleSubmissionStateOnNext(params pldtypes.RawJSON) {
	var n atomSubmissionStateNotification
	if err := json.Unmarshal(params, &n); err != nil {
		log.L(c.ctx).Warnf("nodeconn: malformed AtomSubmissionState.onNext: %s", err)
		return
	}

	c.mu.Lock()
	sub, ok := c.submissions[n.SubscriberID]
	c.mu.Unlock()
	if !ok {
		return
	}

	state := pldtypes.Enum[atomtypes.SubmissionStateType](n.Value)
	sub.state.Emit(SubmissionEvent{State: state, Message: n.Message})
	if atomtypes.IsTerminal(state) {
		// Remove it now so a later teardown can't find this already-terminal
		// submission, clobber its cached state with ILLEGAL_STATE, and
		// decrement the refcount a second time for it.
		c.mu.Lock()
		delete(c.submissions, n.SubscriberID)
		c.mu.Unlock()
		c.decrementRefCount()
	}
}

func (c *Connection) startKeepalive() {
	c.stopKeepalive = make(chan struct{})
	ticker := time.NewTicker(keepaliveInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_ = c.call(c.ctx, "Network.getSelf", networkGetSelfParams{ID: uuid.NewString()}, nil)
			case <-c.stopKeepalive:
				return
			}
		}
	}()
}

// Subscribe allocates a fresh subscriber id, indexes it by address, and calls
// Atoms.subscribe. first marks the very first bootstrap subscription as not
// counted toward the active-work refcount - a documented quirk preserving a
// baseline of 1 (spec §9).
func (c *Connection) Subscribe(ctx context.Context, address *pldtypes.EthAddress, first bool) (<-chan atomtypes.AtomUpdate, func(), error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, nil, i18n.NewError(ctx, errs.MsgNodeConnNotOpen)
	}
	id := c.nextSubscriberID
	c.nextSubscriberID++
	sub := &subscription{address: address, updates: eventstream.NewMulticast[atomtypes.AtomUpdate](64)}
	c.subs[id] = sub
	c.subsByAddress[address.String()] = id
	c.mu.Unlock()

	err := c.call(ctx, "Atoms.subscribe", atomsSubscribeParams{
		SubscriberID: id,
		Query:        atomsQuery{DestinationAddress: address.String()},
	}, nil)
	if err != nil {
		c.mu.Lock()
		delete(c.subs, id)
		delete(c.subsByAddress, address.String())
		c.mu.Unlock()
		sub.updates.CloseAll()
		return nil, nil, i18n.WrapError(ctx, err, errs.MsgNodeConnSubscribeFailed, address.String(), err)
	}

	if !first {
		c.incrementRefCount()
	}

	ch, unsub := sub.updates.Subscribe()
	return ch, unsub, nil
}

// Unsubscribe calls Atoms.cancel for the subscriber bound to address, removes
// the index entry, and decrements the refcount unconditionally on both success
// and failure paths.
func (c *Connection) Unsubscribe(ctx context.Context, address *pldtypes.EthAddress) error {
	c.mu.Lock()
	id, ok := c.subsByAddress[address.String()]
	if !ok {
		c.mu.Unlock()
		return nil
	}
	sub := c.subs[id]
	delete(c.subs, id)
	delete(c.subsByAddress, address.String())
	c.mu.Unlock()

	err := c.call(ctx, "Atoms.cancel", atomsCancelParams{SubscriberID: id}, nil)
	sub.updates.CloseAll()
	c.decrementRefCount()
	if err != nil {
		return i18n.WrapError(ctx, err, errs.MsgNodeConnUnsubscribeFailed, address.String(), err)
	}
	return nil
}

// UnsubscribeAll unsubscribes every indexed address and forces the refcount to 0.
func (c *Connection) UnsubscribeAll(ctx context.Context) {
	c.mu.Lock()
	addrs := make([]*pldtypes.EthAddress, 0, len(c.subs))
	for _, s := range c.subs {
		addrs = append(addrs, s.address)
	}
	c.mu.Unlock()

	for _, a := range addrs {
		_ = c.Unsubscribe(ctx, a)
	}

	c.mu.Lock()
	c.refCount = 0
	c.mu.Unlock()
}

// SubmitAtom allocates a subscriber id, opens a submission state stream
// initialized to CREATED, and issues Universe.submitAtomAndSubscribe with a 5s
// timeout. On call success the state advances to SUBMITTED; on failure or
// timeout the stream errors and the socket is closed.
func (c *Connection) SubmitAtom(ctx context.Context, atom atomtypes.Atom) (<-chan SubmissionEvent, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, i18n.NewError(ctx, errs.MsgNodeConnNotOpen)
	}
	id := c.nextSubscriberID
	c.nextSubscriberID++
	sub := &submission{state: eventstream.NewLastValue[SubmissionEvent](8)}
	c.submissions[id] = sub
	c.mu.Unlock()

	sub.state.Emit(SubmissionEvent{State: atomtypes.SubmissionCreated})

	callCtx, cancel := context.WithTimeout(ctx, submitTimeout)
	defer cancel()
	err := c.call(callCtx, "Universe.submitAtomAndSubscribe", submitAtomAndSubscribeParams{
		SubscriberID: id,
		Atom:         atom,
	}, nil)

	c.incrementRefCount()

	if err != nil {
		sub.state.Emit(SubmissionEvent{State: atomtypes.SubmissionValidationError, Message: err.Error()})
		c.mu.Lock()
		delete(c.submissions, id)
		c.mu.Unlock()
		c.decrementRefCount()
		c.Close()
		return nil, i18n.WrapError(ctx, err, errs.MsgNodeConnSubmitFailed, err)
	}

	sub.state.Emit(SubmissionEvent{State: atomtypes.SubmissionSubmitted})
	ch, _ := sub.state.Subscribe()
	return ch, nil
}

func (c *Connection) incrementRefCount() {
	c.mu.Lock()
	c.refCount++
	if c.idleTimer != nil {
		c.idleTimer.Stop()
		c.idleTimer = nil
	}
	c.mu.Unlock()
}

func (c *Connection) decrementRefCount() {
	c.mu.Lock()
	c.refCount--
	if c.refCount <= 0 {
		c.refCount = 0
		c.armIdleTimer()
	}
	c.mu.Unlock()
}

// armIdleTimer must be called with mu held. When the refcount is still 0 at
// expiry, Close is invoked; re-activation during the grace window cancels it.
func (c *Connection) armIdleTimer() {
	if c.idleTimer != nil {
		c.idleTimer.Stop()
	}
	c.idleTimer = time.AfterFunc(idleGrace, func() {
		c.mu.Lock()
		stillIdle := c.refCount == 0
		c.mu.Unlock()
		if stillIdle {
			c.Close()
		}
	})
}

// Close closes the socket immediately. All pending subscription and submission
// streams are errored/closed, the keepalive is stopped, and a closed event is emitted.
func (c *Connection) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.ws.Close()
}

func (c *Connection) teardown() {
	c.mu.Lock()
	c.closed = true
	subs := c.subs
	c.subs = map[int64]*subscription{}
	c.subsByAddress = map[string]int64{}
	submissions := c.submissions
	c.submissions = map[int64]*submission{}
	pending := c.pending
	c.pending = map[string]chan *rpcclient.RPCResponse{}
	if c.idleTimer != nil {
		c.idleTimer.Stop()
	}
	c.mu.Unlock()

	if c.stopKeepalive != nil {
		close(c.stopKeepalive)
	}

	socketClosedErr := i18n.NewError(c.ctx, errs.MsgNodeConnSocketClosed)
	for _, ch := range pending {
		close(ch)
	}
	for _, s := range subs {
		s.updates.CloseAll()
	}
	for _, s := range submissions {
		s.state.Emit(SubmissionEvent{State: atomtypes.SubmissionIllegalState, Message: socketClosedErr.Error()})
		c.decrementRefCount()
	}

	c.closedStream.Emit(struct{}{})
	c.cancel()
}

// Closed returns a channel that receives one value when the connection closes.
func (c *Connection) Closed() (<-chan struct{}, func()) {
	return c.closedStream.Subscribe()
}

// call sends an RPC request and blocks for its response or ctx expiry.
func (c *Connection) call(ctx context.Context, method string, params interface{}, result interface{}) error {
	req, rpcErr := rpcclient.BuildRequest(ctx, method, []interface{}{params})
	if rpcErr != nil {
		return rpcErr
	}

	respCh := make(chan *rpcclient.RPCResponse, 1)
	c.mu.Lock()
	c.pending[string(req.ID)] = respCh
	c.mu.Unlock()

	reqBytes, err := json.Marshal(req)
	if err != nil {
		return i18n.WrapError(ctx, err, errs.MsgRPCClientRequestFailed, err)
	}
	if err := c.ws.Send(ctx, reqBytes); err != nil {
		return i18n.WrapError(ctx, err, errs.MsgRPCClientRequestFailed, err)
	}

	select {
	case res, ok := <-respCh:
		if !ok {
			return i18n.NewError(ctx, errs.MsgNodeConnSocketClosed)
		}
		if res.Error != nil {
			return i18n.NewError(ctx, errs.MsgRPCClientRequestFailed, res.Error.Error())
		}
		if result != nil && len(res.Result) > 0 {
			if err := json.Unmarshal(res.Result, result); err != nil {
				return i18n.WrapError(ctx, err, errs.MsgRPCClientResultParseFailed, result, err)
			}
		}
		return nil
	case <-ctx.Done():
		return i18n.NewError(ctx, errs.MsgNodeConnCallTimeout, submitTimeout)
	}
}
