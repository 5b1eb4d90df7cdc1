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

// Classifier assigns a coarse device category to a MAC address vendor
// prefix (the first three octets).
type Classifier interface {
	Classify(oui [3]byte) string
}

// HashClassifier is a placeholder Classifier: it buckets the OUI into a
// small fixed category set by a hash of its octets. It is NOT a real OUI
// database and its labels carry no vendor meaning; swap in a table-backed
// Classifier for real classification.
type HashClassifier struct{}

var hashCategories = []string{
	"Workstation",
	"Phone",
	"Printer",
	"Camera",
	"IoT",
	"Unknown",
}

// Classify maps the OUI to one of the fixed categories. The mapping is
// stable for a given OUI across runs.
func (HashClassifier) Classify(oui [3]byte) string {
	h := int(oui[0])*31*31 + int(oui[1])*31 + int(oui[2])
	return hashCategories[h%len(hashCategories)]
}
