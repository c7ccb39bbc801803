package httpx

import "github.com/gin-gonic/gin"

// HTTPError represents a standard error in JSON.
type HTTPError struct {
	// Error message
	// example: not found
	Error string `json:"error"`
}

func Error(c *gin.Context, code int, msg string) {
	c.JSON(code, HTTPError{Error: msg})
}
