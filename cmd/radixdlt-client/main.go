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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/internal/log"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/client"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/pldconf"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/pldtypes"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/pkg/retry"
)

var configFile string

func main() {
	root := &cobra.Command{
		Use:   "radixdlt-client",
		Short: "Ledger projection client for a distributed-ledger light client",
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to a YAML config file")
	root.AddCommand(connectCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func connectCmd() *cobra.Command {
	var addressStr string
	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Open a node connection and track balance/transaction events for an address",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			conf := *pldconf.ClientConfigDefaults
			if configFile != "" {
				if err := pldconf.ReadAndParseYAMLFile(ctx, configFile, &conf); err != nil {
					return err
				}
			}
			log.InitConfig(&conf.Log)

			address, err := pldtypes.ParseEthAddress(addressStr)
			if err != nil {
				return err
			}

			c, err := client.New(ctx, &conf, nil)
			if err != nil {
				return err
			}

			startupRetry := retry.NewRetryLimited(&conf.Startup.NodeConnectRetry)
			if err := startupRetry.Do(ctx, func(_ int) (bool, error) {
				return true, c.Open()
			}); err != nil {
				return err
			}
			defer c.Close()

			transfer, err := c.TrackAddress(ctx, address, true)
			if err != nil {
				return err
			}

			balances, unsubBal := transfer.SubscribeBalance()
			defer unsubBal()
			txs, unsubTx := transfer.SubscribeTransactions()
			defer unsubTx()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			for {
				select {
				case b := <-balances:
					fmt.Printf("balance: %v\n", b)
				case t := <-txs:
					fmt.Printf("transaction: %s hid=%s %v\n", t.Action, t.Hid.Base58String(), t.Transaction.Balance)
				case <-sigCh:
					return nil
				case <-ctx.Done():
					return nil
				}
			}
		},
	}
	cmd.Flags().StringVar(&addressStr, "address", "", "address to track")
	_ = cmd.MarkFlagRequired("address")
	return cmd
}
