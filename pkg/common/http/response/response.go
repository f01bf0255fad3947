package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response codes carried in the envelope.
const (
	CodeSuccess        = 20000
	CodeParamInvalid   = 40001
	CodeQueueClosed    = 40901
	CodeInternalServer = 50000
)

var httpStatus = map[int]int{
	CodeSuccess:        http.StatusOK,
	CodeParamInvalid:   http.StatusBadRequest,
	CodeQueueClosed:    http.StatusConflict,
	CodeInternalServer: http.StatusInternalServerError,
}

// Response is the JSON envelope of every endpoint.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func SuccessResponse(c *gin.Context, code int, data any) {
	c.JSON(statusOf(code), Response{Code: code, Message: "success", Data: data})
}

func ErrorResponse(c *gin.Context, code int, err error) {
	msg := http.StatusText(statusOf(code))
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(statusOf(code), Response{Code: code, Message: msg})
}

func statusOf(code int) int {
	if s, ok := httpStatus[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}
