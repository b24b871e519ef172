package server

import (
	"github.com/gin-gonic/gin"

	"github.com/shouni/go-social-kit/pkg/i18n"
)

type alertEvent struct {
	Message string `json:"message"`
}

func setEventStreamHeaders(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
}

// handleEvents は状態のスナップショットと失敗通知を SSE で配信します。
// 接続直後に現在のスナップショットを1件送ります。
func (s *Server) handleEvents(c *gin.Context) {
	msgs := i18n.For(s.resolveLanguage(c))

	updates, unsubscribe := s.store.Subscribe()
	defer unsubscribe()
	alerts, stopAlerts := s.alerts.subscribe()
	defer stopAlerts()

	setEventStreamHeaders(c)
	c.SSEvent("snapshot", s.store.Snapshot())
	c.Writer.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.closing:
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			c.SSEvent("snapshot", snap)
		case _, ok := <-alerts:
			if !ok {
				return
			}
			c.SSEvent("alert", alertEvent{Message: msgs.AlertFailed})
		}
		c.Writer.Flush()
	}
}
