package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nawrasbh/storefront/internal/admin"
	"github.com/nawrasbh/storefront/internal/httpx"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type updateEmailRequest struct {
	Email string `json:"email"`
}

func adminLoginHandler(svc *admin.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Password == "" {
			httpx.Error(c, http.StatusBadRequest, "password is required")
			return
		}
		ok, err := svc.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "login failed")
			return
		}
		if !ok {
			// Same answer for a wrong email and a wrong password.
			httpx.Error(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func adminChangePasswordHandler(svc *admin.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req changePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid JSON body")
			return
		}
		err := svc.ChangePassword(c.Request.Context(), req.CurrentPassword, req.NewPassword)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"ok": true})
		case errors.Is(err, admin.ErrWeakPassword):
			httpx.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, admin.ErrUnauthorized):
			httpx.Error(c, http.StatusUnauthorized, "current password does not match")
		default:
			httpx.Error(c, http.StatusInternalServerError, "could not change password")
		}
	}
}

func adminUpdateEmailHandler(svc *admin.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateEmailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid JSON body")
			return
		}
		err := svc.UpdateEmail(c.Request.Context(), req.Email)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"ok": true})
		case errors.Is(err, admin.ErrBadEmail):
			httpx.Error(c, http.StatusBadRequest, err.Error())
		default:
			httpx.Error(c, http.StatusInternalServerError, "could not update email")
		}
	}
}
