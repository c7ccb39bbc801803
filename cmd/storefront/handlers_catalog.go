package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nawrasbh/storefront/internal/catalog"
	"github.com/nawrasbh/storefront/internal/httpx"
)

func listProductsHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := repo.ListProducts(c.Request.Context())
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "could not list products")
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": out})
	}
}

func getProductHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := repo.GetProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				httpx.Error(c, http.StatusNotFound, "product not found")
				return
			}
			httpx.Error(c, http.StatusInternalServerError, "could not load product")
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func createProductHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var d catalog.ProductDraft
		if err := c.ShouldBindJSON(&d); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := d.Validate(); err != nil {
			httpx.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		p := d.ToProduct()
		p.ID = uuid.NewString()
		if err := repo.CreateProduct(c.Request.Context(), p); err != nil {
			if errors.Is(err, catalog.ErrCategoryNotFound) {
				httpx.Error(c, http.StatusBadRequest, "unknown category")
				return
			}
			httpx.Error(c, http.StatusInternalServerError, "could not create product")
			return
		}
		created, err := repo.GetProduct(c.Request.Context(), p.ID)
		if err != nil {
			c.JSON(http.StatusCreated, p)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func updateProductHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var d catalog.ProductDraft
		if err := c.ShouldBindJSON(&d); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := d.ValidatePartial(); err != nil {
			httpx.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		p, err := repo.UpdateProduct(c.Request.Context(), c.Param("id"), &d)
		if err != nil {
			switch {
			case errors.Is(err, catalog.ErrNotFound):
				httpx.Error(c, http.StatusNotFound, "product not found")
			case errors.Is(err, catalog.ErrCategoryNotFound):
				httpx.Error(c, http.StatusBadRequest, "unknown category")
			default:
				httpx.Error(c, http.StatusInternalServerError, "could not update product")
			}
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func deleteProductHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.DeleteProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "could not delete product")
			return
		}
		if !ok {
			httpx.Error(c, http.StatusNotFound, "product not found")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

type categoryDraft struct {
	Name          string `json:"name"`
	NameLocalized string `json:"name_localized"`
}

func listCategoriesHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := repo.ListCategories(c.Request.Context())
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "could not list categories")
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": out})
	}
}

func getCategoryHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		cat, err := repo.GetCategory(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, http.StatusNotFound, "category not found")
			return
		}
		c.JSON(http.StatusOK, cat)
	}
}

func createCategoryHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var d categoryDraft
		if err := c.ShouldBindJSON(&d); err != nil || strings.TrimSpace(d.Name) == "" {
			httpx.Error(c, http.StatusBadRequest, "name is required")
			return
		}
		cat := &catalog.Category{
			ID:            uuid.NewString(),
			Name:          strings.TrimSpace(d.Name),
			NameLocalized: strings.TrimSpace(d.NameLocalized),
		}
		if err := repo.CreateCategory(c.Request.Context(), cat); err != nil {
			httpx.Error(c, http.StatusInternalServerError, "could not create category")
			return
		}
		c.JSON(http.StatusCreated, cat)
	}
}

func updateCategoryHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var d categoryDraft
		if err := c.ShouldBindJSON(&d); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid JSON body")
			return
		}
		cat := &catalog.Category{ID: c.Param("id"), Name: d.Name, NameLocalized: d.NameLocalized}
		if err := repo.UpdateCategory(c.Request.Context(), cat); err != nil {
			if errors.Is(err, catalog.ErrCategoryNotFound) {
				httpx.Error(c, http.StatusNotFound, "category not found")
				return
			}
			httpx.Error(c, http.StatusInternalServerError, "could not update category")
			return
		}
		out, err := repo.GetCategory(c.Request.Context(), cat.ID)
		if err != nil {
			c.JSON(http.StatusOK, cat)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func deleteCategoryHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.DeleteCategory(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "could not delete category")
			return
		}
		if !ok {
			httpx.Error(c, http.StatusNotFound, "category not found")
			return
		}
		c.Status(http.StatusNoContent)
	}
}
