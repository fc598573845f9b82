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

package pldtypes

import (
	"bytes"
	"context"
	"database/sql/driver"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/uiuxdeveloper-io/radixdlt-go-client/internal/errs"
)

// RawJSON is a []byte that passes through JSON encoding untouched, used for RPC
// payloads whose shape is not known until dispatch (params, results, notification data).
type RawJSON []byte

func (r RawJSON) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte(`null`), nil
	}
	return []byte(r), nil
}

func (r *RawJSON) UnmarshalJSON(b []byte) error {
	if r == nil {
		return i18n.NewError(context.Background(), errs.MsgTypesUnmarshalNil)
	}
	*r = append((*r)[0:0], b...)
	return nil
}

func (r RawJSON) Bytes() []byte {
	return []byte(r)
}

func (r RawJSON) String() string {
	return string(r)
}

// Equals does a byte-for-byte compare, not a semantic JSON compare
func (r RawJSON) Equals(r2 RawJSON) bool {
	return bytes.Equal(r, r2)
}

func (r RawJSON) Value() (driver.Value, error) {
	if r == nil {
		return nil, nil
	}
	return []byte(r), nil
}

func (r *RawJSON) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*r = RawJSON(v)
		return nil
	case []byte:
		*r = append((*r)[0:0], v...)
		return nil
	case nil:
		*r = nil
		return nil
	default:
		return i18n.NewError(context.Background(), errs.MsgTypesScanFail, src, r)
	}
}
