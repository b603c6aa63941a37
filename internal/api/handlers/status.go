// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/autobrr/sweeparr/internal/cleaner"
	"github.com/autobrr/sweeparr/internal/database"
	"github.com/autobrr/sweeparr/internal/types"
)

const defaultHistoryLimit = 50

// StatusHandler serves the read-only status surface of the daemon
type StatusHandler struct {
	stats *cleaner.StatsRegistry
	db    *database.DB
}

func NewStatusHandler(stats *cleaner.StatsRegistry, db *database.DB) *StatusHandler {
	return &StatusHandler{
		stats: stats,
		db:    db,
	}
}

// GetHealth handles GET /health
func (h *StatusHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetStatus handles GET /api/status and returns the last cycle stats for
// every backend
func (h *StatusHandler) GetStatus(c *gin.Context) {
	backends := h.stats.Snapshot()
	if backends == nil {
		backends = []types.CycleStats{}
	}
	c.JSON(http.StatusOK, gin.H{"backends": backends})
}

// GetHistory handles GET /api/history?limit=N and returns the most recent
// remediations
func (h *StatusHandler) GetHistory(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	records, err := h.db.ListRemediations(c.Request.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch remediation history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch history"})
		return
	}
	if records == nil {
		records = []types.RemediationRecord{}
	}

	c.JSON(http.StatusOK, gin.H{"history": records})
}
