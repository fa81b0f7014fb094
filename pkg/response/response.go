package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body is the standard API response envelope. Reason carries the machine-
// readable rejection tag on registration outcomes ("full", "invalid", ...) so
// clients can branch without parsing the localized error text.
type Body struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Reason  string      `json:"reason,omitempty"`
}

// OK sends a 200 JSON response with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

// Created sends a 201 JSON response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Body{Success: true, Data: data})
}

// Accepted sends 202 for work handed to the background worker.
func Accepted(c *gin.Context, data interface{}) {
	c.JSON(http.StatusAccepted, Body{Success: true, Data: data})
}

// BadRequest sends 400 with error message.
func BadRequest(c *gin.Context, err string) {
	c.JSON(http.StatusBadRequest, Body{Success: false, Error: err})
}

// Unauthorized sends 401. Data may carry the login entry point.
func Unauthorized(c *gin.Context, err string, data interface{}) {
	c.JSON(http.StatusUnauthorized, Body{Success: false, Error: err, Data: data})
}

// NotFound sends 404.
func NotFound(c *gin.Context, err string) {
	c.JSON(http.StatusNotFound, Body{Success: false, Error: err})
}

// Conflict sends 409 with a rejection reason tag, e.g. a full event.
func Conflict(c *gin.Context, reason, err string, data interface{}) {
	c.JSON(http.StatusConflict, Body{Success: false, Error: err, Reason: reason, Data: data})
}

// Rejected sends 400 with a rejection reason tag (validation failures).
func Rejected(c *gin.Context, reason, err string) {
	c.JSON(http.StatusBadRequest, Body{Success: false, Error: err, Reason: reason})
}

// BadGateway sends 502 for upstream platform failures.
func BadGateway(c *gin.Context, err string) {
	c.JSON(http.StatusBadGateway, Body{Success: false, Error: err})
}

// ServiceUnavailable sends 503 for features whose backing service is not
// configured or reachable.
func ServiceUnavailable(c *gin.Context, err string) {
	c.JSON(http.StatusServiceUnavailable, Body{Success: false, Error: err})
}

// Internal sends 500.
func Internal(c *gin.Context, err string) {
	c.JSON(http.StatusInternalServerError, Body{Success: false, Error: err})
}
