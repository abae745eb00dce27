// Slack Events API endpoint.
//
// This file exposes POST /slack/events, the push half of the archive. The
// handler is transport-thin: it decodes the payload, answers the one-time
// url_verification handshake, classifies real callbacks into queue tasks, and
// acknowledges. Slack retries deliveries that do not get a fast 2xx and
// disables the subscription after repeated failures, so the handler always
// answers 200 for event callbacks; enqueue failures are logged and left for
// the next full reconciliation pass to repair.
package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nvoss/slack-archive-backend/internal/domain"
	"github.com/nvoss/slack-archive-backend/internal/http/middleware"
	"github.com/nvoss/slack-archive-backend/internal/slack"
)

// TaskEnqueuer is the queue surface the webhook handler needs.
type TaskEnqueuer interface {
	Enqueue(ctx context.Context, task domain.Task) error
}

// SlackEvents handles one Events API delivery.
//
// Outcomes:
//   - url_verification → 200 text/plain, body is the challenge echoed verbatim
//   - message / team_join callback → task enqueued, 200 empty body
//   - anything else (unknown events, malformed bodies) → 200 empty body
func (h *Handlers) SlackEvents(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusOK)
		return
	}

	payload, err := slack.ParseWebhook(body)
	if err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Msg("malformed events payload")
		c.Status(http.StatusOK)
		return
	}

	if payload.IsVerification() {
		c.String(http.StatusOK, "%s", payload.Challenge)
		return
	}

	task := slack.Classify(payload)
	if task.Kind == domain.TaskNone {
		c.Status(http.StatusOK)
		return
	}

	if err := h.queue.Enqueue(c.Request.Context(), task); err != nil {
		middleware.LoggerFrom(c).Error().Err(err).
			Str("kind", string(task.Kind)).
			Msg("enqueue webhook task failed")
	}
	c.Status(http.StatusOK)
}
