// Package domain defines the Slack wire types consumed from the Events API
// and the Web API, the persisted record models, and the queued-task union
// that links the push path to the drain path. The wire types carry only the
// fields the archive actually reads; everything else survives in the raw
// JSON snapshot stored alongside each record.
package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

// Conversation is a channel as returned by conversations.list and
// conversations.info.
type Conversation struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsChannel bool   `json:"is_channel"`
	IsPrivate bool   `json:"is_private"`
	IsIM      bool   `json:"is_im"`
	Created   int64  `json:"created"`
}

// Profile is the nested profile block of a workspace member.
type Profile struct {
	Email       string `json:"email"`
	RealName    string `json:"real_name"`
	DisplayName string `json:"display_name"`
}

// Member is a workspace user as returned by users.list, users.info and the
// team_join event.
//
// Updated is modeled as json.Number because users.list sends it as a number
// while event payloads have been observed sending a string; both decode.
type Member struct {
	ID      string      `json:"id"`
	TeamID  string      `json:"team_id"`
	Name    string      `json:"name"`
	Deleted bool        `json:"deleted"`
	Profile Profile     `json:"profile"`
	IsBot   bool        `json:"is_bot"`
	Updated json.Number `json:"updated"`

	// Raw is the wire JSON this member was decoded from, kept for the
	// audit snapshot column. Slack never sends this field; it is stamped
	// at decode time and rides along task serialization.
	Raw json.RawMessage `json:"raw,omitempty"`
}

// UpdatedTime interprets the updated field as fractional seconds since the
// epoch. A missing or malformed value yields the zero time.
func (m Member) UpdatedTime() time.Time {
	t, err := ParseTS(m.Updated.String())
	if err != nil {
		return time.Time{}
	}
	return t
}

// Message is a channel message as returned by conversations.history,
// conversations.replies, or a message event callback. Channel is empty on
// history items until the fetch layer stamps it.
type Message struct {
	Type     string `json:"type"`
	Subtype  string `json:"subtype"`
	User     string `json:"user"`
	Text     string `json:"text"`
	TS       string `json:"ts"`
	ThreadTS string `json:"thread_ts"`
	Channel  string `json:"channel"`

	// Raw is the wire JSON this message was decoded from, stamped at decode
	// time and carried through task serialization.
	Raw json.RawMessage `json:"raw,omitempty"`
}

// EntryID returns the record-store id for the message: the per-channel
// timestamp qualified by the channel id.
func (m Message) EntryID() string {
	return MessageID(m.TS, m.Channel)
}

// MessageID derives the record id for a message. Slack timestamps are only
// unique within a channel, so the channel id is appended to make the id
// globally unique. The derivation is pure: equal inputs always produce
// equal ids.
func MessageID(ts, channel string) string {
	return fmt.Sprintf("%s-%s", ts, channel)
}

// ParseTS converts a Slack fixed-point seconds-since-epoch string (for
// example "1701388800.000123") into a UTC time with millisecond precision.
func ParseTS(ts string) (time.Time, error) {
	f, err := strconv.ParseFloat(ts, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse slack ts %q: %w", ts, err)
	}
	return time.UnixMilli(int64(math.Round(f * 1000))).UTC(), nil
}

// joinNoticeRE matches the synthetic "user joined" system message Slack
// injects into channel history and event streams.
var joinNoticeRE = regexp.MustCompile(`(?i)^<@[0-9a-zA-Z]+> has joined the channel$`)

// IsJoinNotice reports whether text is the synthetic join system notice.
// Join notices are platform noise, never candidate items.
func IsJoinNotice(text string) bool {
	return joinNoticeRE.MatchString(text)
}
