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
	"regexp"
	"strings"
)

// Device type categories.
const (
	TypeSwitch     = "Switch"
	TypeRouter     = "Router"
	TypeAP         = "AP"
	TypeFirewall   = "Firewall"
	TypeController = "Controller"
	TypeOther      = "Other"
)

// vendorRule maps an enterprise OID prefix to a manufacturer name. Rules are
// evaluated longest-prefix-wins, so overlapping prefixes are safe.
type vendorRule struct {
	prefix       string
	manufacturer string
}

var vendorRules = []vendorRule{
	{"1.3.6.1.4.1.9.", "Cisco"},
	{"1.3.6.1.4.1.2636.", "Juniper"},
	{"1.3.6.1.4.1.14823.", "Aruba"},
	{"1.3.6.1.4.1.11.", "HP"},
	{"1.3.6.1.4.1.171.", "D-Link"},
	{"1.3.6.1.4.1.1916.", "Extreme"},
	{"1.3.6.1.4.1.45.", "Avaya"},
	{"1.3.6.1.4.1.890.", "Zyxel"},
	{"1.3.6.1.4.1.3375.", "F5"},
	{"1.3.6.1.4.1.12356.", "Fortinet"},
	{"1.3.6.1.4.1.14988.", "Mikrotik"},
	{"1.3.6.1.4.1.25461.", "Palo Alto"},
	{"1.3.6.1.4.1.1588.", "Brocade"},
}

// manufacturerFor resolves a manufacturer from sysObjectID by longest
// matching vendor prefix. Empty result means unknown.
func manufacturerFor(sysObjectID string) string {
	oid := strings.TrimPrefix(sysObjectID, ".")

	best := ""
	bestLen := 0

	for _, r := range vendorRules {
		if strings.HasPrefix(oid, r.prefix) && len(r.prefix) > bestLen {
			best = r.manufacturer
			bestLen = len(r.prefix)
		}
	}

	return best
}

// Per-family model patterns over sysDescr, first match wins. The generic
// fallback picks up UPPER-UPPER tokens like "EX4300-48T" for vendors
// without a dedicated pattern.
var modelRules = map[string]*regexp.Regexp{
	"Cisco":   regexp.MustCompile(`\b((?:WS-C|ME-|IE-|N[1-9]K-C|C|ISR|ASR|ASA)\d{3,4}[A-Za-z0-9/+-]*)\b`),
	"Juniper": regexp.MustCompile(`\b((?:EX|QFX|MX|SRX|ACX|PTX)\d{3,5}[A-Za-z0-9-]*)\b`),
	"HP":      regexp.MustCompile(`\b((?:ProCurve\s+)?(?:J[A-Z0-9]{5}[A-Z]?|\d{4}[A-Za-z]{0,3}-\d{2}[A-Za-z0-9]*))\b`),
	"Aruba":   regexp.MustCompile(`\b((?:ArubaOS?\s+)?(?:\d{4}M?|CX\s?\d{4})[A-Za-z0-9-]*)\b`),
}

var genericModelPattern = regexp.MustCompile(`\b([A-Z][A-Z0-9]+-[A-Z0-9][A-Z0-9-]*)\b`)

// modelFor extracts a model token from sysDescr using the manufacturer's
// pattern when one exists, falling back to the generic token pattern.
// Empty result means no match.
func modelFor(manufacturer, sysDescr string) string {
	if sysDescr == "" {
		return ""
	}

	if re, ok := modelRules[manufacturer]; ok {
		if m := re.FindStringSubmatch(sysDescr); m != nil {
			return m[1]
		}
	}

	if m := genericModelPattern.FindStringSubmatch(sysDescr); m != nil {
		return m[1]
	}

	return ""
}

// typeOidRule classifies a device type from a sub-OID fragment of
// sysObjectID.
type typeOidRule struct {
	fragment   string
	deviceType string
}

// Known product sub-OIDs. Matched by substring against sysObjectID so they
// work regardless of a leading dot.
var typeOidRules = []typeOidRule{
	{"1.3.6.1.4.1.9.1.516", TypeSwitch},   // Catalyst 3750
	{"1.3.6.1.4.1.9.1.717", TypeSwitch},   // Catalyst 2960
	{"1.3.6.1.4.1.9.1.1208", TypeSwitch},  // Catalyst 3850
	{"1.3.6.1.4.1.9.1.122", TypeRouter},   // Cisco 2600 family
	{"1.3.6.1.4.1.9.1.1045", TypeRouter},  // ISR 2901
	{"1.3.6.1.4.1.9.1.525", TypeAP},       // Aironet 1200
	{"1.3.6.1.4.1.9.1.745", TypeFirewall}, // ASA 5510
	{"1.3.6.1.4.1.2636.1.1.1.2.31", TypeSwitch},
	{"1.3.6.1.4.1.2636.1.1.1.2.11", TypeRouter},
	{"1.3.6.1.4.1.12356.101.1", TypeFirewall},
	{"1.3.6.1.4.1.25461.2.3", TypeFirewall},
	{"1.3.6.1.4.1.14823.1.1", TypeController},
	{"1.3.6.1.4.1.14823.1.2", TypeAP},
}

// typeKeywordRule classifies a device type from a case-insensitive keyword
// in sysDescr.
type typeKeywordRule struct {
	keyword    string
	deviceType string
}

var typeKeywordRules = []typeKeywordRule{
	{"switch", TypeSwitch},
	{"catalyst", TypeSwitch},
	{"nexus", TypeSwitch},
	{"router", TypeRouter},
	{"isr", TypeRouter},
	{"asr", TypeRouter},
	{"wireless", TypeAP},
	{"access point", TypeAP},
	{"aironet", TypeAP},
	{"firewall", TypeFirewall},
	{"asa", TypeFirewall},
	{"fortigate", TypeFirewall},
	{"controller", TypeController},
}

// deviceTypeFor classifies device type: product sub-OID match first, then
// keyword scan over sysDescr, defaulting to Other.
func deviceTypeFor(sysObjectID, sysDescr string) string {
	if sysObjectID != "" {
		for _, r := range typeOidRules {
			if strings.Contains(sysObjectID, r.fragment) {
				return r.deviceType
			}
		}
	}

	descr := strings.ToLower(sysDescr)
	for _, r := range typeKeywordRules {
		if strings.Contains(descr, r.keyword) {
			return r.deviceType
		}
	}

	return TypeOther
}
