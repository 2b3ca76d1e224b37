package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/edu-registry-api/pkg/errors"
)

// Envelope is the uniform response contract shared by every endpoint.
type Envelope struct {
	Code    int         `json:"code"`
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// JSON sends a success envelope with the given HTTP code.
func JSON(c *gin.Context, code int, message string, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.JSON(code, Envelope{Code: code, Status: "success", Message: message, Data: data})
}

// OK responds with HTTP 200.
func OK(c *gin.Context, message string, data interface{}) {
	JSON(c, http.StatusOK, message, data)
}

// Created responds with HTTP 201.
func Created(c *gin.Context, message string, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusCreated, Envelope{Code: http.StatusCreated, Status: "ok", Message: message, Data: data})
}

// Error converts any error into the common envelope.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, Envelope{Code: appErr.Status, Status: "error", Message: appErr.Message, Data: nil})
}

// File streams a binary export with a download filename.
func File(c *gin.Context, filename string, payload []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/octet-stream", payload)
}
