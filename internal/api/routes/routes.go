// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/autobrr/sweeparr/internal/api/handlers"
	"github.com/autobrr/sweeparr/internal/api/middleware"
	"github.com/autobrr/sweeparr/internal/cleaner"
	"github.com/autobrr/sweeparr/internal/database"
)

// SetupRoutes configures the status API routes
func SetupRoutes(r *gin.Engine, stats *cleaner.StatsRegistry, db *database.DB) {
	r.Use(middleware.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.SetupCORS())

	status := handlers.NewStatusHandler(stats, db)

	r.GET("/health", status.GetHealth)

	api := r.Group("/api")
	{
		api.GET("/status", status.GetStatus)
		api.GET("/history", status.GetHistory)
	}
}
