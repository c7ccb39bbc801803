package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nawrasbh/storefront/internal/analytics"
	"github.com/nawrasbh/storefront/internal/httpx"
)

func recordEventHandler(repo analytics.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var e analytics.Event
		if err := c.ShouldBindJSON(&e); err != nil || strings.TrimSpace(e.Name) == "" {
			httpx.Error(c, http.StatusBadRequest, "event name is required")
			return
		}
		if err := repo.Insert(c.Request.Context(), &e); err != nil {
			httpx.Error(c, http.StatusInternalServerError, "could not record event")
			return
		}
		c.JSON(http.StatusCreated, e)
	}
}

func listEventsHandler(repo analytics.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		out, err := repo.List(c.Request.Context(), limit, offset)
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "could not list events")
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": out, "limit": limit, "offset": offset})
	}
}

func eventsSummaryHandler(repo analytics.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))
		out, err := repo.Summary(c.Request.Context(), days)
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "could not build summary")
			return
		}
		c.JSON(http.StatusOK, gin.H{"days": days, "items": out})
	}
}
