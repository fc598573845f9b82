// Copyright © 2024 Kaleido, Inc.
//
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errs

import (
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"golang.org/x/text/language"
)

var rde = func(key, translation string, statusHint ...int) i18n.ErrorMessageKey {
	return i18n.FFE(language.AmericanEnglish, key, translation, statusHint...)
}

var (
	// Types RD0100XX
	MsgContextCanceled     = rde("RD010000", "Context canceled")
	MsgTypesUnmarshalNil   = rde("RD010001", "UnmarshalJSON on nil pointer")
	MsgTypesScanFail       = rde("RD010002", "Unable to scan type %T into type %T")
	MsgTypesEnumInvalid    = rde("RD010003", "Value must be one of %s")
	MsgTypesInvalidHex     = rde("RD010004", "Invalid hex: %s")
	MsgTypesRestoreFailed  = rde("RD010005", "Failed to restore type '%T' into '%T'")
	MsgTypesTimeParseFail  = rde("RD010006", "Cannot parse time as RFC3339, Unix, or UnixNano: '%s'", 400)
	MsgTypeRestoreFailed   = rde("RD010011", "Failed to restore type '%T' into '%T'")
	MsgTypesEnumValueInvalid = rde("RD010012", "Value must be one of %s")
	MsgTypesInvalidHexInteger = rde("RD010013", "Invalid hex integer: %s")
	MsgTypesInvalidUint64  = rde("RD010014", "Invalid uint64: %s")
	MsgTypesInvalidDBInt64 = rde("RD010015", "Invalid stored value for uint64: %s")
	MsgTypesInvalidNameSafeCharAlphaBoxed = rde("RD010016", "Field '%s' exceeds maximum length %d, or contains invalid characters: %s")
	MsgBigIntParseFailed   = rde("RD010007", "Failed to parse JSON value '%s' into BigInt")
	MsgBigIntTooLarge      = rde("RD010008", "Byte length of serialized integer is too large %d (max=%d)")
	MsgAddressInvalid      = rde("RD010009", "Invalid address: %s")
	MsgAddressWrongLength  = rde("RD010010", "Address must be exactly %d bytes (got %d)")

	// WSClient RD0101XX
	MsgWSClientInvalidWebSocketURL = rde("RD010100", "Invalid WebSocket URL: %s")
	MsgWSClientSendTimedOut        = rde("RD010101", "Websocket send timed out")
	MsgWSClientClosing             = rde("RD010102", "Websocket closing")
	MsgWSClientConnectFailed       = rde("RD010103", "Websocket connect failed")
	MsgWSClientHeartbeatTimeout    = rde("RD010104", "Websocket heartbeat timed out after %.2fms", 500)

	// NodeConnection RD0102XX
	MsgNodeConnOpenTimeout       = rde("RD010200", "Timed out waiting for node connection to open after %s")
	MsgNodeConnNotOpen           = rde("RD010201", "Node connection is not open")
	MsgNodeConnSocketClosed      = rde("RD010202", "Socket closed")
	MsgNodeConnSubscribeFailed   = rde("RD010203", "Failed to subscribe to atom updates for address %s: %s")
	MsgNodeConnUnsubscribeFailed = rde("RD010204", "Failed to unsubscribe address %s: %s")
	MsgNodeConnSubmitTimeout     = rde("RD010205", "Timed out submitting atom after %s")
	MsgNodeConnSubmitFailed      = rde("RD010206", "Failed to submit atom: %s")
	MsgNodeConnSubmissionFailed  = rde("RD010207", "%s: %s")
	MsgNodeConnUnknownSubscriber = rde("RD010208", "No subscriber registered with id %d")
	MsgNodeConnCallTimeout       = rde("RD010209", "Timed out waiting for RPC response after %s")

	// Account / dispatch RD0103XX
	MsgAccountSystemDuplicateName = rde("RD010300", "An account system named '%s' is already registered on this account")
	MsgAccountSystemPanic         = rde("RD010301", "Account system '%s' panicked while processing atom update: %v")
	MsgAccountSystemFailed        = rde("RD010302", "Account system '%s' failed to process atom update: %s")

	// Cache account system RD0104XX
	MsgCacheStoreFailed  = rde("RD010400", "Failed to write atom %s to cache: %s")
	MsgCacheDeleteFailed = rde("RD010401", "Failed to remove atom %s from cache: %s")
	MsgCacheLoadFailed   = rde("RD010402", "Failed to load cached atoms for account %s: %s")
	MsgCacheDBInitFailed = rde("RD010403", "Failed to initialize cache database at '%s'")

	// Config RD0105XX
	MsgConfigFileMissing = rde("RD010500", "Configuration file is missing: %s")
	MsgConfigFileRead    = rde("RD010501", "Failed to read configuration file '%s': %s")
	MsgConfigFileParse   = rde("RD010502", "Failed to parse configuration file: %s")

	// RPC RD0106XX
	MsgRPCClientRequestFailed     = rde("RD010600", "Backend RPC request failed: %s")
	MsgRPCClientResultParseFailed = rde("RD010601", "Failed to parse result (expected=%T): %s")
	MsgRPCClientInvalidParam      = rde("RD010602", "Invalid parameter at position %d for method %s: %s")
	MsgRPCHashMismatch            = rde("RD010603", "Atom hid mismatch: transported=%s recomputed=%s")

	// Token definitions RD0107XX
	MsgTokenUnknownClass    = rde("RD010700", "Unknown token class reference: %s")
	MsgTokenGranularityZero = rde("RD010701", "Token granularity must be greater than zero")

	// TLS RD0108XX
	MsgTLSInvalidCAFile           = rde("RD010800", "Invalid CA certificates")
	MsgTLSConfigFailed            = rde("RD010801", "Failed to initialize TLS configuration")
	MsgTLSInvalidKeyPairFiles     = rde("RD010802", "Invalid certificate and key pair")
	MsgTLSInvalidTLSDnMatcherAttr = rde("RD010803", "Unknown DN attribute '%s'")
	MsgTLSInvalidTLSDnMatcherRegexp = rde("RD010804", "Invalid regexp '%s' for DN attribute '%s': %s")
	MsgTLSInvalidTLSDnChain       = rde("RD010805", "Cannot match subject distinguished name with no verified certificate chain")
	MsgTLSInvalidTLSDnMismatch    = rde("RD010806", "Certificate subject does not meet requirements")
)
