package services

import (
	"context"
	"encoding/json"

	"github.com/nvoss/slack-archive-backend/internal/domain"
	"github.com/nvoss/slack-archive-backend/internal/slack"
)

// enrichMessage turns a candidate message into the record shape persisted to
// the store: author email resolved through the memoized user lookup, channel
// display name through the memoized channel lookup, the canonical timestamp
// from the fixed-point ts string, and the raw payload snapshot. The record
// is complete once returned; nothing mutates it afterwards.
func enrichMessage(ctx context.Context, sc *slack.Client, m domain.Message) (*domain.MessageRecord, error) {
	ts, err := domain.ParseTS(m.TS)
	if err != nil {
		return nil, err
	}

	var email string
	if m.User != "" {
		user, err := sc.UserInfo(ctx, m.User)
		if err != nil {
			return nil, err
		}
		email = user.Profile.Email
	}

	channel, err := sc.ConversationInfo(ctx, m.Channel)
	if err != nil {
		return nil, err
	}

	return &domain.MessageRecord{
		Timestamp: ts,
		EntryID:   m.EntryID(),
		Email:     email,
		Channel:   channel.Name,
		Text:      m.Text,
		Raw:       rawSnapshot(m.Raw, m),
	}, nil
}

// enrichMember turns a candidate member into its record shape. No remote
// lookups are needed: the member payload already carries its profile.
func enrichMember(m domain.Member) *domain.MemberRecord {
	return &domain.MemberRecord{
		Updated: m.UpdatedTime(),
		EntryID: m.ID,
		Email:   m.Profile.Email,
		Name:    m.Profile.RealName,
		Raw:     rawSnapshot(m.Raw, m),
	}
}

// rawSnapshot prefers the wire JSON captured at decode time, which survives
// the queue round trip; a candidate without one is re-marshaled as a last
// resort.
func rawSnapshot(raw json.RawMessage, v any) string {
	if len(raw) > 0 {
		return string(raw)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// unrecorded filters candidates whose id is not yet in the recorded-id
// index, preserving input order.
func unrecorded[T any](items []T, id func(T) string, recorded map[string]struct{}) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if _, ok := recorded[id(item)]; ok {
			continue
		}
		out = append(out, item)
	}
	return out
}

// indexOf builds the recorded-id set from a slice of ids.
func indexOf(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
