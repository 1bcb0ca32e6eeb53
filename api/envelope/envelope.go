// Package envelope defines the JSON body every endpoint answers with.
package envelope

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Code is a stable machine-readable result code carried in every response.
type Code int

const (
	CodeOK             Code = 0
	CodeValidation     Code = 1001
	CodeNotFound       Code = 1002
	CodeAlreadyExists  Code = 1003
	CodeUnauthorized   Code = 1004
	CodeAdminDisabled  Code = 1005
	CodeRateLimited    Code = 1006
	CodeSeedInProgress Code = 1007
	CodeNoRoute        Code = 1008
	CodeForbidden      Code = 1009
	CodeInternal       Code = 1500
)

// Response is the {data, code, msg} envelope.
type Response struct {
	Data any    `json:"data,omitempty"`
	Code Code   `json:"code"`
	Msg  string `json:"msg"`
}

var statusByCode = map[Code]int{
	CodeOK:             http.StatusOK,
	CodeValidation:     http.StatusBadRequest,
	CodeNotFound:       http.StatusNotFound,
	CodeAlreadyExists:  http.StatusConflict,
	CodeUnauthorized:   http.StatusUnauthorized,
	CodeAdminDisabled:  http.StatusServiceUnavailable,
	CodeRateLimited:    http.StatusTooManyRequests,
	CodeSeedInProgress: http.StatusConflict,
	CodeNoRoute:        http.StatusNotFound,
	CodeForbidden:      http.StatusForbidden,
	CodeInternal:       http.StatusInternalServerError,
}

// Status returns the HTTP status paired with code.
func (code Code) Status() int {
	if s, ok := statusByCode[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// OK writes a successful envelope. A nil data is omitted from the body.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Data: data, Code: CodeOK})
}

// Fail writes a failure envelope and aborts the handler chain.
func Fail(c *gin.Context, code Code, msg string) {
	c.AbortWithStatusJSON(code.Status(), Response{Code: code, Msg: msg})
}
