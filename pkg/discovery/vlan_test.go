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
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jaswanthk93/nile-network-navigator-sub001/pkg/snmp"
)

func TestDiscoverVlansValidation(t *testing.T) {
	engine, factory := newTestEngine(t)

	conn := snmp.NewMockConn(gomock.NewController(t))
	factory.EXPECT().NewConn("192.0.2.1", gomock.Any()).Return(conn, nil)

	conn.EXPECT().Walk(gomock.Any(), oidVtpVlanState).Return(walkChan(
		snmp.WalkItem{OID: oidVtpVlanState + ".1.10", Value: int64(1)},
		snmp.WalkItem{OID: oidVtpVlanState + ".1.20", Value: int64(2)},
		snmp.WalkItem{OID: oidVtpVlanState + ".1.4095", Value: int64(1)},
	))
	conn.EXPECT().Walk(gomock.Any(), oidVtpVlanName).Return(walkChan(
		snmp.WalkItem{OID: oidVtpVlanName + ".1.10", Value: "MGMT"},
	))
	conn.EXPECT().Close().Return(nil)

	result, err := engine.DiscoverVlans(context.Background(), TargetRequest{Target: "192.0.2.1"})
	require.NoError(t, err)

	require.Len(t, result.Vlans, 1)
	assert.Equal(t, 10, result.Vlans[0].VlanID)
	assert.Equal(t, "MGMT", result.Vlans[0].Name)
	assert.Equal(t, "active", result.Vlans[0].State)
	assert.Equal(t, []string{"192.0.2.1"}, result.Vlans[0].UsedBy)

	require.Len(t, result.InvalidVlans, 2)
	assert.Equal(t, InvalidVlan{VlanID: 20, Reason: ReasonInactive}, result.InvalidVlans[0])
	assert.Equal(t, InvalidVlan{VlanID: 4095, Reason: ReasonInvalidRange}, result.InvalidVlans[1])

	assert.Equal(t, 1, result.ActiveCount)
	assert.Equal(t, 1, result.InactiveCount)
	assert.Equal(t, 3, result.TotalDiscovered)
}

func TestDiscoverVlansDeduplicatesIDs(t *testing.T) {
	engine, factory := newTestEngine(t)

	conn := snmp.NewMockConn(gomock.NewController(t))
	factory.EXPECT().NewConn("192.0.2.1", gomock.Any()).Return(conn, nil)

	// The second varbind for VLAN 10 reports it inactive; the first
	// observation wins.
	conn.EXPECT().Walk(gomock.Any(), oidVtpVlanState).Return(walkChan(
		snmp.WalkItem{OID: oidVtpVlanState + ".1.10", Value: int64(1)},
		snmp.WalkItem{OID: oidVtpVlanState + ".1.10", Value: int64(2)},
	))
	conn.EXPECT().Walk(gomock.Any(), oidVtpVlanName).Return(walkChan())
	conn.EXPECT().Close().Return(nil)

	result, err := engine.DiscoverVlans(context.Background(), TargetRequest{Target: "192.0.2.1"})
	require.NoError(t, err)

	require.Len(t, result.Vlans, 1)
	assert.Empty(t, result.InvalidVlans)
}

func TestDiscoverVlansPlaceholderNames(t *testing.T) {
	engine, factory := newTestEngine(t)

	conn := snmp.NewMockConn(gomock.NewController(t))
	factory.EXPECT().NewConn("192.0.2.1", gomock.Any()).Return(conn, nil)

	conn.EXPECT().Walk(gomock.Any(), oidVtpVlanState).Return(walkChan(
		snmp.WalkItem{OID: oidVtpVlanState + ".1.30", Value: int64(1)},
		snmp.WalkItem{OID: oidVtpVlanState + ".1.40", Value: int64(1)},
	))
	// VLAN 30 decodes to whitespace, VLAN 40 has no name row at all; both
	// keep the synthesized placeholder.
	conn.EXPECT().Walk(gomock.Any(), oidVtpVlanName).Return(walkChan(
		snmp.WalkItem{OID: oidVtpVlanName + ".1.30", Value: "   "},
	))
	conn.EXPECT().Close().Return(nil)

	result, err := engine.DiscoverVlans(context.Background(), TargetRequest{Target: "192.0.2.1"})
	require.NoError(t, err)

	require.Len(t, result.Vlans, 2)
	assert.Equal(t, "VLAN30", result.Vlans[0].Name)
	assert.Equal(t, "VLAN40", result.Vlans[1].Name)
}

func TestDiscoverVlansSkipsNameWalkWithoutCandidates(t *testing.T) {
	engine, factory := newTestEngine(t)

	conn := snmp.NewMockConn(gomock.NewController(t))
	factory.EXPECT().NewConn("192.0.2.1", gomock.Any()).Return(conn, nil)

	conn.EXPECT().Walk(gomock.Any(), oidVtpVlanState).Return(walkChan(
		snmp.WalkItem{OID: oidVtpVlanState + ".1.20", Value: int64(2)},
	))
	conn.EXPECT().Close().Return(nil)

	result, err := engine.DiscoverVlans(context.Background(), TargetRequest{Target: "192.0.2.1"})
	require.NoError(t, err)

	assert.Empty(t, result.Vlans)
	require.Len(t, result.InvalidVlans, 1)
	assert.Equal(t, ReasonInactive, result.InvalidVlans[0].Reason)
}

func TestDiscoverVlansWalkFailureIsFatal(t *testing.T) {
	engine, factory := newTestEngine(t)

	conn := snmp.NewMockConn(gomock.NewController(t))
	factory.EXPECT().NewConn("192.0.2.1", gomock.Any()).Return(conn, nil)

	conn.EXPECT().Walk(gomock.Any(), oidVtpVlanState).Return(walkChan(
		snmp.WalkItem{OID: oidVtpVlanState + ".1.10", Value: int64(1)},
		snmp.WalkItem{Err: errors.New("request timeout")},
	))
	conn.EXPECT().Close().Return(nil)

	_, err := engine.DiscoverVlans(context.Background(), TargetRequest{Target: "192.0.2.1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVlanWalkFailed)
}

func TestDiscoverVlansSkipsItemScopedErrors(t *testing.T) {
	engine, factory := newTestEngine(t)

	conn := snmp.NewMockConn(gomock.NewController(t))
	factory.EXPECT().NewConn("192.0.2.1", gomock.Any()).Return(conn, nil)

	conn.EXPECT().Walk(gomock.Any(), oidVtpVlanState).Return(walkChan(
		snmp.WalkItem{OID: oidVtpVlanState + ".1.10", Err: errors.New("bad varbind")},
		snmp.WalkItem{OID: oidVtpVlanState + ".1.20", Value: int64(1)},
	))
	conn.EXPECT().Walk(gomock.Any(), oidVtpVlanName).Return(walkChan())
	conn.EXPECT().Close().Return(nil)

	result, err := engine.DiscoverVlans(context.Background(), TargetRequest{Target: "192.0.2.1"})
	require.NoError(t, err)

	require.Len(t, result.Vlans, 1)
	assert.Equal(t, 20, result.Vlans[0].VlanID)
}

func TestDiscoverVlansConnectFailure(t *testing.T) {
	engine, factory := newTestEngine(t)

	factory.EXPECT().NewConn("192.0.2.1", gomock.Any()).Return(nil, errors.New("no route to host"))

	_, err := engine.DiscoverVlans(context.Background(), TargetRequest{Target: "192.0.2.1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVlanWalkFailed)
}

func TestDiscoverVlansIdempotent(t *testing.T) {
	engine, factory := newTestEngine(t)

	stateItems := func() <-chan snmp.WalkItem {
		return walkChan(
			snmp.WalkItem{OID: oidVtpVlanState + ".1.10", Value: int64(1)},
			snmp.WalkItem{OID: oidVtpVlanState + ".1.20", Value: int64(1)},
		)
	}
	nameItems := func() <-chan snmp.WalkItem {
		return walkChan(
			snmp.WalkItem{OID: oidVtpVlanName + ".1.10", Value: "MGMT"},
			snmp.WalkItem{OID: oidVtpVlanName + ".1.20", Value: "USERS"},
		)
	}

	for i := 0; i < 2; i++ {
		conn := snmp.NewMockConn(gomock.NewController(t))
		factory.EXPECT().NewConn("192.0.2.1", gomock.Any()).Return(conn, nil)
		conn.EXPECT().Walk(gomock.Any(), oidVtpVlanState).Return(stateItems())
		conn.EXPECT().Walk(gomock.Any(), oidVtpVlanName).Return(nameItems())
		conn.EXPECT().Close().Return(nil)
	}

	first, err := engine.DiscoverVlans(context.Background(), TargetRequest{Target: "192.0.2.1"})
	require.NoError(t, err)

	second, err := engine.DiscoverVlans(context.Background(), TargetRequest{Target: "192.0.2.1"})
	require.NoError(t, err)

	assert.Equal(t, first.Vlans, second.Vlans)
}
