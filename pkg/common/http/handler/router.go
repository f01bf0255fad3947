package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-sharedqueue/pkg/datastructs/queue"
)

// QueueAdmin is the part of the queue exposed over HTTP.
type QueueAdmin interface {
	Stats() queue.Stats
	Close()
}

// Empty is the request of endpoints without input.
type Empty struct{}

// ShutdownRequest is the optional body of POST /shutdown.
type ShutdownRequest struct {
	Reason string `json:"reason" binding:"max=200"`
}

// ShutdownResponse reports the queue state once closed.
type ShutdownResponse struct {
	Remaining int `json:"remaining"`
}

// NewRouter exposes health, queue statistics and a graceful shutdown
// trigger that closes the queue so consumers drain and exit.
func NewRouter(admin QueueAdmin, log *zap.Logger) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), accessLog(log))

	r.GET("/healthz", Wrap[Empty, string](func(context.Context, *Empty) (string, error) {
		return "ok", nil
	}))

	r.GET("/stats", Wrap[Empty, queue.Stats](func(context.Context, *Empty) (queue.Stats, error) {
		return admin.Stats(), nil
	}))

	r.POST("/shutdown", Wrap[ShutdownRequest, ShutdownResponse](func(_ context.Context, req *ShutdownRequest) (ShutdownResponse, error) {
		if admin.Stats().Closed {
			return ShutdownResponse{}, queue.ErrQueueClosed
		}
		log.Info("shutdown requested", zap.String("reason", req.Reason))
		admin.Close()
		return ShutdownResponse{Remaining: admin.Stats().Len}, nil
	}))

	return r
}

func accessLog(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
