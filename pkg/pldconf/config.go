/*
 * Copyright © 2024 Kaleido, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
 * the License. You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
 * an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
 * specific language governing permissions and limitations under the License.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package pldconf

import (
	"context"
	"os"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/internal/errs"

	"sigs.k8s.io/yaml" // supports JSON tags, unlike gopkg.in/yaml.v2/v3
)

// ClientConfig is the top level configuration for a ledger projection client: how to
// reach a node, whether to mirror projected state to a cache database, and how to log.
type ClientConfig struct {
	Log     LogConfig     `json:"log"`
	Node    WSClientConfig `json:"node"`
	Cache   CacheConfig   `json:"cache"`
	Startup StartupConfig `json:"startup"`
}

// CacheConfig controls the optional write-through cache account system. When
// Enabled is false (the default) no database is opened and a no-op cache system is registered instead.
type CacheConfig struct {
	Enabled bool     `json:"enabled"`
	DB      DBConfig `json:"db"`
}

var ClientConfigDefaults = &ClientConfig{
	Log:     *LogDefaults,
	Node:    *DefaultWSConfig,
	Startup: StartupConfigDefaults,
}

func ReadAndParseYAMLFile(ctx context.Context, filePath string, config interface{}) error {
	// Note we use the YAML parser (like Kubernetes) that handles json tags
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return i18n.NewError(ctx, errs.MsgConfigFileMissing, filePath)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return i18n.NewError(ctx, errs.MsgConfigFileRead, filePath, err.Error())
	}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return i18n.NewError(ctx, errs.MsgConfigFileParse, err.Error())
	}

	return nil
}
