package response

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/pkg/logger"
	"Inkwell/internal/service"
	"errors"
	log "log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const (
	Ok                  = 200
	BadRequest          = service.BadRequest
	Unauthorized        = service.Unauthorized
	Forbidden           = service.Forbidden
	NotFound            = service.NotFound
	Unprocessable       = service.Unprocessable
	InternalServerError = service.InternalServerError
	ServiceUnavailable  = service.ServiceUnavailable
)

// Success wraps data in the standard envelope.
func Success(ctx *gin.Context, data interface{}) {
	ctx.Set(logger.BizCodeKey, Ok)
	ctx.JSON(http.StatusOK, dto.Response{
		Code:    Ok,
		Message: "success",
		Data:    data,
	})
}

// Fail reports a business failure. The transport status stays 200; the code carries the outcome.
func Fail(c *gin.Context, businessCode int, message string) {
	c.Set(logger.BizCodeKey, businessCode)
	c.JSON(http.StatusOK, dto.Response{
		Code:    businessCode,
		Message: message,
		Data:    nil,
	})
}

// Error maps err onto a business code. Unmapped errors are logged and reported as 500
// without leaking their text.
func Error(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		Fail(c, BadRequest, "invalid parameters")
		return
	}

	var unmarshalTypeError *json.UnmarshalTypeError
	if errors.As(err, &unmarshalTypeError) {
		Fail(c, BadRequest, "malformed json")
		return
	}

	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		Fail(c, BadRequest, "invalid parameters")
		return
	}

	code, ok := service.CodeOf(err)
	if !ok {
		log.ErrorContext(c.Request.Context(), "unhandled error", "err", err)
		Fail(c, InternalServerError, service.UnExpectedError.Error())
		return
	}
	Fail(c, code, err.Error())
}

