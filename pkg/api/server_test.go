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
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jaswanthk93/nile-network-navigator-sub001/pkg/discovery"
	"github.com/jaswanthk93/nile-network-navigator-sub001/pkg/session"
	"github.com/jaswanthk93/nile-network-navigator-sub001/pkg/snmp"
)

func newTestServer(t *testing.T) (*Server, *snmp.MockClientFactory) {
	t.Helper()

	ctrl := gomock.NewController(t)
	factory := snmp.NewMockClientFactory(ctrl)

	registry := session.NewRegistry(session.Config{}, factory, nil)

	engine, err := discovery.NewEngine(discovery.Config{}, factory, registry, nil)
	require.NoError(t, err)

	return NewServer(engine, registry, nil), factory
}

func walkChan(items ...snmp.WalkItem) <-chan snmp.WalkItem {
	ch := make(chan snmp.WalkItem, len(items))

	for _, item := range items {
		ch <- item
	}

	close(ch)

	return ch
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	return w
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	srv, factory := newTestServer(t)

	conn := snmp.NewMockConn(gomock.NewController(t))
	conn.EXPECT().Close().Return(nil)
	factory.EXPECT().NewConn("192.0.2.1", gomock.Any()).Return(conn, nil)

	w := doRequest(t, srv, http.MethodPost, "/api/sessions", `{"target":"192.0.2.1"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.SessionID)

	w = doRequest(t, srv, http.MethodGet, "/api/sessions/count", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":1}`, w.Body.String())

	w = doRequest(t, srv, http.MethodDelete, "/api/sessions/"+created.SessionID, "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, srv, http.MethodDelete, "/api/sessions/"+created.SessionID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateSessionRequiresTarget(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(t, srv, http.MethodPost, "/api/sessions", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeviceIdentityEndpoint(t *testing.T) {
	srv, factory := newTestServer(t)

	conn := snmp.NewMockConn(gomock.NewController(t))
	factory.EXPECT().NewConn("192.0.2.10", gomock.Any()).Return(conn, nil)

	conn.EXPECT().Get(gomock.Any()).Return([]snmp.VarBind{
		{OID: ".1.3.6.1.2.1.1.1.0", Value: "Generic Firewall Appliance"},
		{OID: ".1.3.6.1.2.1.1.2.0"},
		{OID: ".1.3.6.1.2.1.1.5.0", Value: "fw-01"},
		{OID: ".1.3.6.1.2.1.1.6.0"},
	}, nil)
	conn.EXPECT().Close().Return(nil)

	w := doRequest(t, srv, http.MethodGet, "/api/devices/192.0.2.10/identity", "")
	require.Equal(t, http.StatusOK, w.Code)

	var info discovery.DeviceInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "Firewall", info.DeviceType)
	assert.Equal(t, "fw-01", info.SysName)
}

func TestDeviceVlansEndpoint(t *testing.T) {
	srv, factory := newTestServer(t)

	conn := snmp.NewMockConn(gomock.NewController(t))
	factory.EXPECT().NewConn("192.0.2.1", gomock.Any()).Return(conn, nil)

	conn.EXPECT().Walk(gomock.Any(), gomock.Any()).Return(walkChan(
		snmp.WalkItem{OID: ".1.3.6.1.4.1.9.9.46.1.3.1.1.2.1.10", Value: int64(1)},
	))
	conn.EXPECT().Walk(gomock.Any(), gomock.Any()).Return(walkChan(
		snmp.WalkItem{OID: ".1.3.6.1.4.1.9.9.46.1.3.1.1.4.1.10", Value: "MGMT"},
	))
	conn.EXPECT().Close().Return(nil)

	w := doRequest(t, srv, http.MethodGet, "/api/devices/192.0.2.1/vlans", "")
	require.Equal(t, http.StatusOK, w.Code)

	var result discovery.VlanDiscoveryResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Len(t, result.Vlans, 1)
	assert.Equal(t, "MGMT", result.Vlans[0].Name)
}

func TestDeviceMacsStreamsNDJSON(t *testing.T) {
	srv, factory := newTestServer(t)

	ctrl := gomock.NewController(t)

	for range []int{10, 20} {
		conn := snmp.NewMockConn(ctrl)
		conn.EXPECT().Walk(gomock.Any(), gomock.Any()).Return(walkChan(
			snmp.WalkItem{OID: ".1.3.6.1.2.1.17.4.3.1.2.10.11.12.13.14.15", Value: int64(3)},
		))
		conn.EXPECT().Close().Return(nil)
		factory.EXPECT().NewConn("192.0.2.1", gomock.Any()).Return(conn, nil)
	}

	w := doRequest(t, srv, http.MethodGet, "/api/devices/192.0.2.1/macs?vlan_ids=10,20", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/x-ndjson", w.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 3)

	var first discovery.MacSweepEvent
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NotNil(t, first.Chunk)
	assert.Equal(t, 10, first.Chunk.VlanID)
	require.Len(t, first.Chunk.Records, 1)
	assert.Equal(t, "0A:0B:0C:0D:0E:0F", first.Chunk.Records[0].MacAddress)

	var last discovery.MacSweepEvent
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &last))
	require.NotNil(t, last.Summary)
	assert.Equal(t, []int{10, 20}, last.Summary.VlanIDs)
	assert.True(t, last.Summary.Success)
}

func TestDeviceMacsRejectsBadVlanList(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(t, srv, http.MethodGet, "/api/devices/192.0.2.1/macs?vlan_ids=10,abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMacSweepRequiresTarget(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(t, srv, http.MethodPost, "/api/macs", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseVlanIDs(t *testing.T) {
	ids, err := parseVlanIDs("10, 20,30")
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20, 30}, ids)

	_, err = parseVlanIDs("10,x")
	assert.Error(t, err)
}
