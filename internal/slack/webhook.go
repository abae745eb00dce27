package slack

import (
	"encoding/json"

	"github.com/nvoss/slack-archive-backend/internal/domain"
)

// Events API outer payload types the ingestor understands.
const (
	payloadEventCallback   = "event_callback"
	payloadURLVerification = "url_verification"
)

// WebhookPayload is the outer shape of an Events API POST body.
type WebhookPayload struct {
	Type      string          `json:"type"`
	Challenge string          `json:"challenge"`
	Event     json.RawMessage `json:"event"`
}

// ParseWebhook decodes the raw POST body. A malformed body is an error; the
// HTTP layer still answers 200 so Slack does not disable the subscription.
func ParseWebhook(body []byte) (WebhookPayload, error) {
	var p WebhookPayload
	err := json.Unmarshal(body, &p)
	return p, err
}

// IsVerification reports whether the payload is the one-time subscription
// handshake; the response body must then echo Challenge verbatim.
func (p WebhookPayload) IsVerification() bool {
	return p.Type == payloadURLVerification
}

// Classify turns an Events API payload into a queued-task action. The closed
// set of outcomes:
//
//   - a message event that is not a join notice   → message task
//   - a team_join event                           → member task
//   - anything else (non-callbacks, join notices,
//     unhandled event types)                      → TaskNone
//
// The ignore branch is explicit: new event types Slack may add are dropped
// here, never half-handled downstream.
func Classify(p WebhookPayload) domain.Task {
	if p.Type != payloadEventCallback || len(p.Event) == 0 {
		return domain.Task{Kind: domain.TaskNone}
	}

	var header struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(p.Event, &header); err != nil {
		return domain.Task{Kind: domain.TaskNone}
	}

	switch header.Type {
	case "message":
		var m domain.Message
		if err := json.Unmarshal(p.Event, &m); err != nil {
			return domain.Task{Kind: domain.TaskNone}
		}
		if domain.IsJoinNotice(m.Text) {
			return domain.Task{Kind: domain.TaskNone}
		}
		m.Raw = append(json.RawMessage(nil), p.Event...)
		return domain.MessageTask(m)

	case "team_join":
		var ev struct {
			User json.RawMessage `json:"user"`
		}
		if err := json.Unmarshal(p.Event, &ev); err != nil || len(ev.User) == 0 {
			return domain.Task{Kind: domain.TaskNone}
		}
		var u domain.Member
		if err := json.Unmarshal(ev.User, &u); err != nil {
			return domain.Task{Kind: domain.TaskNone}
		}
		u.Raw = append(json.RawMessage(nil), ev.User...)
		return domain.MemberTask(u)

	default:
		return domain.Task{Kind: domain.TaskNone}
	}
}
