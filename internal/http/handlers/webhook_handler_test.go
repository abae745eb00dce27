package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/nvoss/slack-archive-backend/internal/domain"
)

// stubQueue records enqueued tasks and can be made to fail.
type stubQueue struct {
	tasks []domain.Task
	err   error
}

func (s *stubQueue) Enqueue(_ context.Context, task domain.Task) error {
	if s.err != nil {
		return s.err
	}
	s.tasks = append(s.tasks, task)
	return nil
}

func newEventsRouter(q TaskEnqueuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := New(nil, q)
	r.POST("/slack/events", h.SlackEvents)
	return r
}

func postEvents(r *gin.Engine, payload string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/slack/events", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestSlackEvents_ChallengeEchoedVerbatim(t *testing.T) {
	q := &stubQueue{}
	r := newEventsRouter(q)

	w := postEvents(r, `{"type":"url_verification","challenge":"3eZbrw1aB1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("verification -> %d", w.Code)
	}
	if w.Body.String() != "3eZbrw1aB1" {
		t.Fatalf("challenge must be echoed byte for byte, got %q", w.Body.String())
	}
	if len(q.tasks) != 0 {
		t.Fatalf("verification must not enqueue, got %v", q.tasks)
	}
}

func TestSlackEvents_MessageCallbackEnqueues(t *testing.T) {
	q := &stubQueue{}
	r := newEventsRouter(q)

	w := postEvents(r, `{"type":"event_callback","event":{"type":"message","user":"U1","text":"hi","ts":"100.5","channel":"C1"}}`)
	if w.Code != http.StatusOK || w.Body.Len() != 0 {
		t.Fatalf("callback -> %d body %q", w.Code, w.Body.String())
	}
	if len(q.tasks) != 1 || q.tasks[0].Kind != domain.TaskMessage {
		t.Fatalf("expected one message task, got %v", q.tasks)
	}
	if q.tasks[0].Message.EntryID() != "100.5-C1" {
		t.Fatalf("unexpected task payload: %+v", q.tasks[0].Message)
	}
}

func TestSlackEvents_TeamJoinEnqueuesMember(t *testing.T) {
	q := &stubQueue{}
	r := newEventsRouter(q)

	w := postEvents(r, `{"type":"event_callback","event":{"type":"team_join","user":{"id":"U7","profile":{"email":"dan@example.com"}}}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("team_join -> %d", w.Code)
	}
	if len(q.tasks) != 1 || q.tasks[0].Kind != domain.TaskMember {
		t.Fatalf("expected one member task, got %v", q.tasks)
	}
	if q.tasks[0].Member.ID != "U7" {
		t.Fatalf("unexpected member: %+v", q.tasks[0].Member)
	}
}

func TestSlackEvents_IgnoredAndMalformedStillAck(t *testing.T) {
	q := &stubQueue{}
	r := newEventsRouter(q)

	for _, payload := range []string{
		`{"type":"event_callback","event":{"type":"reaction_added"}}`,
		`{"type":"event_callback","event":{"type":"message","text":"<@U1> has joined the channel","ts":"1.0","channel":"C1"}}`,
		`{broken`,
		`{}`,
	} {
		w := postEvents(r, payload)
		if w.Code != http.StatusOK {
			t.Fatalf("payload %q -> %d, want 200", payload, w.Code)
		}
	}
	if len(q.tasks) != 0 {
		t.Fatalf("no tasks expected, got %v", q.tasks)
	}
}

func TestSlackEvents_EnqueueFailureStillAcks(t *testing.T) {
	q := &stubQueue{err: errors.New("kv store down")}
	r := newEventsRouter(q)

	w := postEvents(r, `{"type":"event_callback","event":{"type":"message","user":"U1","text":"hi","ts":"1.0","channel":"C1"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("enqueue failure must still ack with 200, got %d", w.Code)
	}
}
