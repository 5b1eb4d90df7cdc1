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

package discovery

import "errors"

var (
	ErrNoTarget        = errors.New("no target or session supplied")
	ErrNoFactory       = errors.New("client factory is required")
	ErrIdentityFailed  = errors.New("device identity query failed")
	ErrVlanWalkFailed  = errors.New("VLAN table walk failed")
	ErrHostUnreachable = errors.New("host did not answer ICMP echo")
)
