package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// MessageResponse acknowledgement body
type MessageResponse struct {
	Message string `json:"message" example:"Despesa criada com sucesso!"`
}

// ErrorResponse error body
type ErrorResponse struct {
	Error string `json:"error" example:"Descrição e valor são obrigatórios."`
}

// Created 201 acknowledgement
func Created(c *gin.Context, message string) {
	c.JSON(http.StatusCreated, MessageResponse{Message: message})
}

// OK 200 acknowledgement
func OK(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageResponse{Message: message})
}

// Error error response
func Error(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Error: message})
}

// BadRequest 400 error response
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// NotFound 404 error response
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// InternalError 500 error response. message must be generic; log the cause instead.
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// MethodNotAllowed answers 405 and advertises the allowed methods in the Allow header
func MethodNotAllowed(allowed ...string) gin.HandlerFunc {
	allow := strings.Join(allowed, ", ")
	return func(c *gin.Context) {
		c.Header("Allow", allow)
		Error(c, http.StatusMethodNotAllowed, fmt.Sprintf("Método %s não permitido.", c.Request.Method))
	}
}
