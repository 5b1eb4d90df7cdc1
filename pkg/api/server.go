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

// Package api exposes the discovery engines over HTTP. MAC sweeps stream
// newline-delimited JSON so callers see per-VLAN progress.
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jaswanthk93/nile-network-navigator-sub001/pkg/discovery"
	"github.com/jaswanthk93/nile-network-navigator-sub001/pkg/logger"
	"github.com/jaswanthk93/nile-network-navigator-sub001/pkg/session"
	"github.com/jaswanthk93/nile-network-navigator-sub001/pkg/snmp"
)

// Server routes discovery requests to the engine and session registry.
type Server struct {
	engine   *discovery.Engine
	registry *session.Registry
	router   *gin.Engine
	log      logger.Logger
}

// NewServer wires the HTTP routes.
func NewServer(engine *discovery.Engine, registry *session.Registry, log logger.Logger) *Server {
	if log == nil {
		log = logger.NewTestLogger()
	}

	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:   engine,
		registry: registry,
		router:   gin.New(),
		log:      log.WithComponent("api"),
	}

	s.router.Use(gin.Recovery())

	api := s.router.Group("/api")
	{
		api.POST("/sessions", s.createSession)
		api.DELETE("/sessions/:id", s.deleteSession)
		api.GET("/sessions/count", s.sessionCount)

		api.GET("/devices/:target/identity", s.deviceIdentity)
		api.GET("/devices/:target/vlans", s.deviceVlans)
		api.GET("/devices/:target/macs", s.deviceMacs)
		api.POST("/macs", s.macSweep)
	}

	return s
}

// Handler exposes the router for serving and for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	s.log.Info().Str("addr", addr).Msg("HTTP API listening")

	return s.router.Run(addr)
}

type connectRequest struct {
	Target    string       `json:"target" binding:"required"`
	Community string       `json:"community"`
	Version   snmp.Version `json:"version"`
	Port      uint16       `json:"port"`
}

func (s *Server) createSession(c *gin.Context) {
	var req connectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Community == "" {
		req.Community = snmp.DefaultCommunity
	}

	if req.Version == "" {
		req.Version = snmp.DefaultVersion
	}

	id, err := s.registry.Connect(req.Target, req.Community, req.Version, req.Port)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session_id": id})
}

func (s *Server) deleteSession(c *gin.Context) {
	if err := s.registry.Disconnect(c.Param("id")); err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, session.ErrSessionNotFound) {
			status = http.StatusNotFound
		}

		c.JSON(status, gin.H{"error": err.Error()})

		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) sessionCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"count": s.registry.Count()})
}

func targetRequestFromQuery(c *gin.Context) discovery.TargetRequest {
	return discovery.TargetRequest{
		Target:    c.Param("target"),
		Community: c.Query("community"),
		Version:   snmp.Version(c.Query("version")),
	}
}

func (s *Server) deviceIdentity(c *gin.Context) {
	info, err := s.engine.IdentifyDevice(c.Request.Context(), targetRequestFromQuery(c))
	if err != nil {
		c.JSON(discoveryStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, info)
}

func (s *Server) deviceVlans(c *gin.Context) {
	result, err := s.engine.DiscoverVlans(c.Request.Context(), targetRequestFromQuery(c))
	if err != nil {
		c.JSON(discoveryStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) deviceMacs(c *gin.Context) {
	req := discovery.MacSweepRequest{
		Target:    c.Param("target"),
		SessionID: c.Query("session_id"),
		Community: c.Query("community"),
		Version:   snmp.Version(c.Query("version")),
	}

	if raw := c.Query("vlan_ids"); raw != "" {
		ids, err := parseVlanIDs(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		req.VlanIDs = ids
	}

	if raw := c.Query("vlan_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vlan_id"})
			return
		}

		req.VlanID = id
	}

	s.streamMacSweep(c, req)
}

func (s *Server) macSweep(c *gin.Context) {
	var req discovery.MacSweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.streamMacSweep(c, req)
}

// streamMacSweep writes one JSON object per line: a chunk per VLAN, then
// the terminal summary.
func (s *Server) streamMacSweep(c *gin.Context, req discovery.MacSweepRequest) {
	events, err := s.engine.DiscoverMacAddresses(c.Request.Context(), req)
	if err != nil {
		c.JSON(discoveryStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "application/x-ndjson")
	c.Status(http.StatusOK)

	enc := ndjsonEncoder(c.Writer)

	for ev := range events {
		if err := enc(ev); err != nil {
			s.log.Warn().Err(err).Msg("MAC stream write failed, abandoning sweep")
			return
		}

		c.Writer.Flush()
	}
}

// discoveryStatus maps engine errors to HTTP statuses.
func discoveryStatus(err error) int {
	switch {
	case errors.Is(err, discovery.ErrNoTarget):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, snmp.ErrRequestTimeout), errors.Is(err, discovery.ErrHostUnreachable):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
