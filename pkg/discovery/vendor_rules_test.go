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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManufacturerFor(t *testing.T) {
	tests := []struct {
		name        string
		sysObjectID string
		expected    string
	}{
		{name: "cisco catalyst", sysObjectID: ".1.3.6.1.4.1.9.1.516", expected: "Cisco"},
		{name: "cisco without leading dot", sysObjectID: "1.3.6.1.4.1.9.1.516", expected: "Cisco"},
		{name: "juniper", sysObjectID: ".1.3.6.1.4.1.2636.1.1.1.2.31", expected: "Juniper"},
		{name: "fortinet", sysObjectID: ".1.3.6.1.4.1.12356.101.1.1", expected: "Fortinet"},
		{name: "palo alto", sysObjectID: ".1.3.6.1.4.1.25461.2.3.1", expected: "Palo Alto"},
		{name: "unknown vendor", sysObjectID: ".1.3.6.1.4.1.99999.1", expected: ""},
		{name: "empty", sysObjectID: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, manufacturerFor(tt.sysObjectID))
		})
	}
}

func TestModelFor(t *testing.T) {
	tests := []struct {
		name         string
		manufacturer string
		sysDescr     string
		expected     string
	}{
		{
			name:         "cisco catalyst",
			manufacturer: "Cisco",
			sysDescr:     "Cisco IOS Software, C3750 Software (C3750-IPSERVICESK9-M)",
			expected:     "C3750",
		},
		{
			name:         "cisco ws prefix",
			manufacturer: "Cisco",
			sysDescr:     "Cisco Catalyst WS-C2960X-24TS-L running IOS",
			expected:     "WS-C2960X-24TS-L",
		},
		{
			name:         "juniper ex",
			manufacturer: "Juniper",
			sysDescr:     "Juniper Networks, Inc. EX4300-48T Ethernet Switch",
			expected:     "EX4300-48T",
		},
		{
			name:         "generic fallback for unmatched vendor",
			manufacturer: "Extreme",
			sysDescr:     "ExtremeXOS on Summit X460-48T",
			expected:     "X460-48T",
		},
		{
			name:         "no match",
			manufacturer: "",
			sysDescr:     "Generic Firewall Appliance",
			expected:     "",
		},
		{
			name:         "empty descr",
			manufacturer: "Cisco",
			sysDescr:     "",
			expected:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, modelFor(tt.manufacturer, tt.sysDescr))
		})
	}
}

func TestDeviceTypeFor(t *testing.T) {
	tests := []struct {
		name        string
		sysObjectID string
		sysDescr    string
		expected    string
	}{
		{
			name:        "catalyst product oid wins",
			sysObjectID: ".1.3.6.1.4.1.9.1.516",
			sysDescr:    "something that says router",
			expected:    TypeSwitch,
		},
		{
			name:        "fortinet firewall oid",
			sysObjectID: ".1.3.6.1.4.1.12356.101.1.1",
			expected:    TypeFirewall,
		},
		{
			name:     "firewall keyword",
			sysDescr: "Generic Firewall Appliance",
			expected: TypeFirewall,
		},
		{
			name:     "nexus keyword",
			sysDescr: "Cisco Nexus Operating System (NX-OS)",
			expected: TypeSwitch,
		},
		{
			name:     "router keyword",
			sysDescr: "Edge router platform",
			expected: TypeRouter,
		},
		{
			name:     "access point keyword",
			sysDescr: "Indoor Access Point 802.11ax",
			expected: TypeAP,
		},
		{
			name:     "controller keyword",
			sysDescr: "Mobility Controller",
			expected: TypeController,
		},
		{
			name:     "no signal defaults to other",
			sysDescr: "Embedded management agent",
			expected: TypeOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, deviceTypeFor(tt.sysObjectID, tt.sysDescr))
		})
	}
}
