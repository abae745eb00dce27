package slack

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/nvoss/slack-archive-backend/internal/domain"
)

// Channels fetches the full channel list (public and private), keeping only
// real channels (no IMs or group DMs). The result is materialized: the poll
// pass iterates it once per table.
func (c *Client) Channels(ctx context.Context) ([]domain.Conversation, error) {
	params := url.Values{"types": {"public_channel,private_channel"}}
	all, err := collect(Paginate[domain.Conversation](ctx, c, "conversations.list", params))
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, ch := range all {
		if ch.IsChannel {
			out = append(out, ch)
		}
	}
	return out, nil
}

// Members fetches the full member list with bot accounts filtered out. Each
// survivor keeps its raw wire JSON for the audit snapshot.
func (c *Client) Members(ctx context.Context) ([]domain.Member, error) {
	var out []domain.Member
	for raw, err := range Paginate[json.RawMessage](ctx, c, "users.list", nil) {
		if err != nil {
			return nil, err
		}
		var m domain.Member
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		if m.IsBot {
			continue
		}
		m.Raw = raw
		out = append(out, m)
	}
	return out, nil
}

// ChannelMessages fetches the complete history of one channel as candidate
// items, oldest-last in Slack's native history order. Thread parents are
// expanded in place: the reply fetch returns newest-first, so it is reversed
// to splice replies in oldest-first next to their parent. Bot messages,
// non-message items and synthetic join notices never leave this function.
// Every survivor is stamped with the channel id and keeps its raw JSON.
func (c *Client) ChannelMessages(ctx context.Context, channel string) ([]domain.Message, error) {
	var out []domain.Message
	params := url.Values{"channel": {channel}}
	for raw, err := range Paginate[json.RawMessage](ctx, c, "conversations.history", params) {
		if err != nil {
			return nil, err
		}
		var m domain.Message
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		m.Raw = raw

		expanded, err := c.expandReplies(ctx, channel, m)
		if err != nil {
			return nil, err
		}
		for _, em := range expanded {
			if !keepMessage(em) {
				continue
			}
			em.Channel = channel
			out = append(out, em)
		}
	}
	return out, nil
}

// expandReplies returns the message itself when it is not a thread root, or
// the full reply thread (reversed to oldest-first) when it is.
func (c *Client) expandReplies(ctx context.Context, channel string, m domain.Message) ([]domain.Message, error) {
	if m.ThreadTS == "" {
		return []domain.Message{m}, nil
	}
	params := url.Values{"channel": {channel}, "ts": {m.TS}}
	var thread []domain.Message
	for raw, err := range Paginate[json.RawMessage](ctx, c, "conversations.replies", params) {
		if err != nil {
			return nil, err
		}
		var reply domain.Message
		if err := json.Unmarshal(raw, &reply); err != nil {
			return nil, err
		}
		reply.Raw = raw
		thread = append(thread, reply)
	}
	for i, j := 0, len(thread)-1; i < j; i, j = i+1, j-1 {
		thread[i], thread[j] = thread[j], thread[i]
	}
	return thread, nil
}

// keepMessage reports whether a history item is a candidate for the archive.
func keepMessage(m domain.Message) bool {
	if m.Type != "message" || m.Subtype == "bot_message" {
		return false
	}
	return !domain.IsJoinNotice(m.Text)
}
