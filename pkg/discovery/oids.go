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

// System group (SNMPv2-MIB).
const (
	oidSysDescr    = ".1.3.6.1.2.1.1.1.0"
	oidSysObjectID = ".1.3.6.1.2.1.1.2.0"
	oidSysName     = ".1.3.6.1.2.1.1.5.0"
	oidSysLocation = ".1.3.6.1.2.1.1.6.0"
)

// Entity and interfaces MIBs, used for identity refinement.
const (
	oidEntPhysicalModelName = ".1.3.6.1.2.1.47.1.1.1.1.13"
	oidIfType               = ".1.3.6.1.2.1.2.2.1.3"
)

// Cisco VTP VLAN table (CISCO-VTP-MIB). Row index is <domain>.<vlanId>.
const (
	oidVtpVlanState = ".1.3.6.1.4.1.9.9.46.1.3.1.1.2"
	oidVtpVlanName  = ".1.3.6.1.4.1.9.9.46.1.3.1.1.4"
)

// Bridge MIB forwarding database. Row index is the six MAC octets.
const oidDot1dTpFdbPort = ".1.3.6.1.2.1.17.4.3.1.2"

// IANA ifType values consulted by the interface-mix refinement.
const (
	ifTypeEthernetCsmacd = 6
	ifTypePPP            = 23
	ifTypeTunnel         = 131
)
