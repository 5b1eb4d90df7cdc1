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

package api

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// parseVlanIDs parses a comma-separated VLAN id list from a query string.
func parseVlanIDs(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid vlan id %q", part)
		}

		ids = append(ids, id)
	}

	return ids, nil
}

// ndjsonEncoder returns a writer function emitting one JSON document per
// line.
func ndjsonEncoder(w io.Writer) func(v interface{}) error {
	enc := json.NewEncoder(w)

	return func(v interface{}) error {
		return enc.Encode(v)
	}
}
