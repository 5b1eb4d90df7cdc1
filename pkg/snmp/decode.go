/*
 * Copyright 2026 Nile Network Navigator Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package snmp

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math"

	"github.com/gosnmp/gosnmp"
)

var errUnexpectedValueType = errors.New("unexpected value type for PDU")

// DecodeValue converts a PDU value according to its ASN.1 tag: printable
// octet strings become text, integer-family types become int64, object
// identifiers stay dotted strings, and everything else becomes a hex string.
func DecodeValue(pdu gosnmp.SnmpPDU) (interface{}, error) {
	switch pdu.Type {
	case gosnmp.OctetString:
		raw, ok := pdu.Value.([]byte)
		if !ok {
			return nil, fmt.Errorf("%w: %s", errUnexpectedValueType, pdu.Type)
		}

		if isPrintable(raw) {
			return string(raw), nil
		}

		return "0x" + hex.EncodeToString(raw), nil
	case gosnmp.Integer:
		return gosnmp.ToBigInt(pdu.Value).Int64(), nil
	case gosnmp.Counter32, gosnmp.Gauge32, gosnmp.TimeTicks, gosnmp.Uinteger32:
		return gosnmp.ToBigInt(pdu.Value).Int64(), nil
	case gosnmp.Counter64:
		v, ok := pdu.Value.(uint64)
		if !ok {
			return nil, fmt.Errorf("%w: %s", errUnexpectedValueType, pdu.Type)
		}

		if v > math.MaxInt64 {
			return int64(math.MaxInt64), nil
		}

		return int64(v), nil
	case gosnmp.ObjectIdentifier, gosnmp.IPAddress:
		v, ok := pdu.Value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s", errUnexpectedValueType, pdu.Type)
		}

		return v, nil
	case gosnmp.Null, gosnmp.NoSuchObject, gosnmp.NoSuchInstance, gosnmp.EndOfMibView:
		return nil, nil
	default:
		if raw, ok := pdu.Value.([]byte); ok {
			return "0x" + hex.EncodeToString(raw), nil
		}

		return nil, fmt.Errorf("%w: %s", errUnexpectedValueType, pdu.Type)
	}
}

// isPrintable reports whether raw looks like display text rather than an
// opaque byte blob.
func isPrintable(raw []byte) bool {
	for _, b := range raw {
		if b >= 0x20 && b < 0x7f {
			continue
		}

		if b == '\t' || b == '\n' || b == '\r' {
			continue
		}

		return false
	}

	return true
}
