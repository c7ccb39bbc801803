package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nawrasbh/storefront/internal/httpx"
	"github.com/nawrasbh/storefront/internal/orders"
)

func listOrdersHandler(repo orders.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := repo.ListOrders(c.Request.Context())
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "could not list orders")
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": out})
	}
}

func getOrderHandler(repo orders.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := repo.GetOrder(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, orders.ErrNotFound) {
				httpx.Error(c, http.StatusNotFound, "order not found")
				return
			}
			httpx.Error(c, http.StatusInternalServerError, "could not load order")
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func updateOrderHandler(repo orders.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req orders.UpdateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.Status != "" && !orders.ValidStatus(req.Status) {
			httpx.Error(c, http.StatusBadRequest, "unknown status")
			return
		}
		if req.DeliveryType != "" && !orders.ValidDeliveryType(req.DeliveryType) {
			httpx.Error(c, http.StatusBadRequest, "unknown delivery type")
			return
		}
		for _, it := range req.Items {
			if it.Quantity < 1 {
				httpx.Error(c, http.StatusBadRequest, "item quantity must be at least 1")
				return
			}
		}
		o, err := repo.UpdateOrder(c.Request.Context(), c.Param("id"), &req)
		if err != nil {
			if errors.Is(err, orders.ErrNotFound) {
				httpx.Error(c, http.StatusNotFound, "order not found")
				return
			}
			httpx.Error(c, http.StatusInternalServerError, "could not update order")
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func deleteOrderHandler(repo orders.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.DeleteOrder(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "could not delete order")
			return
		}
		if !ok {
			httpx.Error(c, http.StatusNotFound, "order not found")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listCustomersHandler(repo orders.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := repo.ListCustomers(c.Request.Context())
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "could not list customers")
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": out})
	}
}

func getCustomerHandler(repo orders.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		cust, err := repo.GetCustomer(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, http.StatusNotFound, "customer not found")
			return
		}
		c.JSON(http.StatusOK, cust)
	}
}

func createCustomerHandler(repo orders.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var d orders.CustomerDraft
		if err := c.ShouldBindJSON(&d); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid JSON body")
			return
		}
		cust := &orders.Customer{
			ID:      uuid.NewString(),
			Name:    strings.TrimSpace(d.Name),
			Phone:   strings.TrimSpace(d.Phone),
			Address: d.ComposedAddress(),
		}
		if cust.Name == "" || cust.Phone == "" || cust.Address == "" {
			httpx.Error(c, http.StatusBadRequest, "name, phone and address are required")
			return
		}
		if err := repo.CreateCustomer(c.Request.Context(), cust); err != nil {
			httpx.Error(c, http.StatusInternalServerError, "could not create customer")
			return
		}
		c.JSON(http.StatusCreated, cust)
	}
}

func updateCustomerHandler(repo orders.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var d orders.CustomerDraft
		if err := c.ShouldBindJSON(&d); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid JSON body")
			return
		}
		cust := &orders.Customer{
			ID:      c.Param("id"),
			Name:    strings.TrimSpace(d.Name),
			Phone:   strings.TrimSpace(d.Phone),
			Address: d.ComposedAddress(),
		}
		if err := repo.UpdateCustomer(c.Request.Context(), cust); err != nil {
			if errors.Is(err, orders.ErrCustomerNotFound) {
				httpx.Error(c, http.StatusNotFound, "customer not found")
				return
			}
			httpx.Error(c, http.StatusInternalServerError, "could not update customer")
			return
		}
		out, err := repo.GetCustomer(c.Request.Context(), cust.ID)
		if err != nil {
			c.JSON(http.StatusOK, cust)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// Deleting a customer cascades to their orders at the storage layer.
func deleteCustomerHandler(repo orders.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.DeleteCustomer(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "could not delete customer")
			return
		}
		if !ok {
			httpx.Error(c, http.StatusNotFound, "customer not found")
			return
		}
		c.Status(http.StatusNoContent)
	}
}
