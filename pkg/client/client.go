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

// Package client wires the account dispatch pipeline to a node connection: the
// application-facing entry point that composes every other package in this
// module into a runnable ledger projection.
package client

import (
	"context"

	"github.com/uiuxdeveloper-io/radixdlt-go-client/internal/log"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/account"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/atomtypes"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/cachesystem"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/nodeconn"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/pldconf"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/pldtypes"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/tokendef"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/transfersystem"
)

// Client owns one node connection and the accounts projected against it.
type Client struct {
	conn       *nodeconn.Connection
	tokens     *tokendef.Registry
	cacheStore *cachesystem.Store // nil when no cache provider is configured

	accounts map[string]*account.Account
}

func New(ctx context.Context, conf *pldconf.ClientConfig, hasher nodeconn.HidComputer) (*Client, error) {
	conn, err := nodeconn.NewFromConfig(ctx, &conf.Node, hasher)
	if err != nil {
		return nil, err
	}

	var cacheStore *cachesystem.Store
	if conf.Cache.Enabled {
		cacheStore, err = cachesystem.Open(ctx, conf.Cache.DB.SQLite.DSN)
		if err != nil {
			return nil, err
		}
	}

	return &Client{
		conn:       conn,
		tokens:     tokendef.NewRegistry(),
		cacheStore: cacheStore,
		accounts:   map[string]*account.Account{},
	}, nil
}

// cacheSystemFor returns the cache account system scoped to one identity - a
// real per-identity handle on the shared store when a cache is configured,
// a no-op otherwise. Every tracked address gets its own handle so one
// account's replay can never surface another account's cached atoms.
func (c *Client) cacheSystemFor(identity string) *cachesystem.System {
	if c.cacheStore == nil {
		return cachesystem.NewNoop()
	}
	return c.cacheStore.System(identity)
}

func (c *Client) Tokens() *tokendef.Registry { return c.tokens }

// Open dials the node connection.
func (c *Client) Open() error {
	return c.conn.Open()
}

// Close tears down the node connection and every account's dispatch pipeline.
func (c *Client) Close() {
	c.conn.Close()
}

// TrackAddress registers the standard account-system pipeline (cache then
// transfer, in that order per spec §4.1) for address, replays any cached
// history, subscribes on the node connection, and returns the transfer system
// so the caller can read balances/transactions.
func (c *Client) TrackAddress(ctx context.Context, address *pldtypes.EthAddress, first bool) (*transfersystem.System, error) {
	key := address.String()
	acc, exists := c.accounts[key]
	if !exists {
		acc = account.New(address)
		cache := c.cacheSystemFor(key)
		if err := acc.Register(ctx, cache); err != nil {
			return nil, err
		}
		transfer := transfersystem.New(address, c.tokens)
		if err := acc.Register(ctx, transfer); err != nil {
			return nil, err
		}
		c.accounts[key] = acc

		history, err := cache.Load(ctx)
		if err != nil {
			return nil, err
		}
		for _, atom := range history {
			if err := acc.Dispatch(ctx, atomtypes.AtomUpdate{Action: atomtypes.ActionStore, Atom: atom}); err != nil {
				log.L(ctx).Warnf("client: replaying cached atom %s for %s: %s", atom.HidString(), key, err)
			}
		}
	}

	updates, _, err := c.conn.Subscribe(ctx, address, first)
	if err != nil {
		return nil, err
	}
	go func() {
		for update := range updates {
			if err := acc.Dispatch(ctx, update); err != nil {
				log.L(ctx).Errorf("client: dispatching update for %s: %s", key, err)
			}
		}
	}()

	var transfer *transfersystem.System
	for _, s := range acc.Systems() {
		if t, ok := s.(*transfersystem.System); ok {
			transfer = t
		}
	}
	return transfer, nil
}

// SubmitAtom submits an atom for inclusion and returns its submission-state stream.
func (c *Client) SubmitAtom(ctx context.Context, atom atomtypes.Atom) (<-chan nodeconn.SubmissionEvent, error) {
	return c.conn.SubmitAtom(ctx, atom)
}
