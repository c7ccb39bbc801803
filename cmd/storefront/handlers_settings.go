package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nawrasbh/storefront/internal/httpx"
	"github.com/nawrasbh/storefront/internal/settings"
)

func getSettingHandler(repo settings.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := repo.Get(c.Request.Context(), c.Param("key"))
		if err != nil {
			if errors.Is(err, settings.ErrNotFound) {
				httpx.Error(c, http.StatusNotFound, "setting not found")
				return
			}
			httpx.Error(c, http.StatusInternalServerError, "could not load setting")
			return
		}
		c.Data(http.StatusOK, "application/json", raw)
	}
}

func putSettingHandler(repo settings.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil || !json.Valid(body) {
			httpx.Error(c, http.StatusBadRequest, "body must be valid JSON")
			return
		}
		key := c.Param("key")
		// The delivery config is structural; reject payloads it cannot parse
		// into so the checkout never sees a half-formed fee table.
		if key == settings.KeyDelivery {
			var cfg settings.DeliveryConfig
			if err := json.Unmarshal(body, &cfg); err != nil {
				httpx.Error(c, http.StatusBadRequest, "invalid delivery settings")
				return
			}
		}
		if err := repo.Put(c.Request.Context(), key, body); err != nil {
			httpx.Error(c, http.StatusInternalServerError, "could not save setting")
			return
		}
		c.Data(http.StatusOK, "application/json", body)
	}
}
