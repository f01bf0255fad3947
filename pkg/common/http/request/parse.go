package request

import (
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// ParseRequest binds an optional JSON body into T and runs the `binding`
// tag validation. An empty body yields the zero T.
func ParseRequest[T any](c *gin.Context) (*T, error) {
	var req T
	if c.Request.ContentLength == 0 {
		return &req, nil
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, errors.Wrap(err, "invalid request")
	}
	return &req, nil
}
