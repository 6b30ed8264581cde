package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-formschema/pkg/component"
)

// Response is the JSON envelope of every API answer.
type Response struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      any         `json:"data,omitempty"`
	Errors    []ErrorItem `json:"errors,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// ErrorItem is one field message.
type ErrorItem struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

var now = time.Now

func success(c *gin.Context, code int, data any) {
	c.JSON(code, Response{
		Code:      code,
		Message:   "success",
		Data:      data,
		Timestamp: now().Format(time.RFC3339),
	})
}

func failure(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:      code,
		Message:   message,
		Timestamp: now().Format(time.RFC3339),
	})
}

// invalid answers 422 with one item per field message, fields in lexical
// order.
func invalid(c *gin.Context, result component.ValidationResult) {
	c.JSON(http.StatusUnprocessableEntity, Response{
		Code:      http.StatusUnprocessableEntity,
		Message:   "validation failed",
		Errors:    errorItems(result),
		Timestamp: now().Format(time.RFC3339),
	})
}

func errorItems(result component.ValidationResult) []ErrorItem {
	var items []ErrorItem
	for _, field := range result.Fields() {
		for _, message := range result.Errors[field] {
			items = append(items, ErrorItem{Field: field, Message: message})
		}
	}
	return items
}
