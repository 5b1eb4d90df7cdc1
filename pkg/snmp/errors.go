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

import "errors"

var (
	// ErrConnectFailed occurs when a transport session cannot be established.
	ErrConnectFailed = errors.New("SNMP connect failed")
	// ErrRequestTimeout occurs when a GET or walk exceeds its deadline.
	ErrRequestTimeout = errors.New("SNMP request timeout")

	ErrUnsupportedVersion = errors.New("unsupported SNMP version")
	ErrGetFailed          = errors.New("SNMP GET failed")
	ErrWalkFailed         = errors.New("SNMP walk failed")
	ErrPDUError           = errors.New("SNMP error status in response")
)
