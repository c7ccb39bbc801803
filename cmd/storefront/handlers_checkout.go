package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nawrasbh/storefront/internal/checkout"
	"github.com/nawrasbh/storefront/internal/httpx"
	"github.com/nawrasbh/storefront/internal/orders"
)

func checkoutHandler(svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkout.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid JSON body")
			return
		}
		o, err := svc.PlaceOrder(c.Request.Context(), &req)
		if err != nil {
			var refErr *checkout.InvalidReferenceError
			var stockErr *checkout.InsufficientStockError
			switch {
			case errors.Is(err, checkout.ErrInvalidInput),
				errors.As(err, &refErr),
				errors.As(err, &stockErr),
				errors.Is(err, orders.ErrInsufficientStock):
				httpx.Error(c, http.StatusBadRequest, err.Error())
			default:
				// Persistence failed mid-flight; do not leak storage detail.
				httpx.Error(c, http.StatusInternalServerError, "could not place order")
			}
			return
		}
		c.JSON(http.StatusCreated, o)
	}
}
