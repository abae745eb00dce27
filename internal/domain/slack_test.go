package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestMessageID_Deterministic(t *testing.T) {
	a := MessageID("100.5", "C1")
	b := MessageID("100.5", "C1")
	if a != b {
		t.Fatalf("expected equal ids, got %q and %q", a, b)
	}
	if a != "100.5-C1" {
		t.Fatalf("expected %q, got %q", "100.5-C1", a)
	}
}

func TestMessageID_NoCollisionAcrossChannels(t *testing.T) {
	ids := map[string]struct{}{}
	pairs := []struct{ ts, ch string }{
		{"100.5", "C1"},
		{"100.5", "C2"},
		{"100.50", "C1"},
		{"200.0", "C1"},
	}
	for _, p := range pairs {
		id := MessageID(p.ts, p.ch)
		if _, dup := ids[id]; dup {
			t.Fatalf("collision for (%s,%s): %q", p.ts, p.ch, id)
		}
		ids[id] = struct{}{}
	}
}

func TestParseTS(t *testing.T) {
	got, err := ParseTS("100.5")
	if err != nil {
		t.Fatalf("ParseTS: %v", err)
	}
	want := time.UnixMilli(100500).UTC()
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if _, err := ParseTS("not-a-ts"); err == nil {
		t.Fatal("expected error for malformed ts")
	}
}

func TestIsJoinNotice(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"<@U123ABC> has joined the channel", true},
		{"<@U123ABC> has Joined the Channel", true},
		{"hello world", false},
		{"<@U123ABC> has joined the channel today", false},
		{"someone has joined the channel", false},
	}
	for _, c := range cases {
		if got := IsJoinNotice(c.text); got != c.want {
			t.Errorf("IsJoinNotice(%q) = %v, want %v", c.text, got, c.want)
		}
	}
}

func TestMemberUpdatedTime_NumberAndString(t *testing.T) {
	var fromList Member
	if err := json.Unmarshal([]byte(`{"id":"U1","updated":1502138686}`), &fromList); err != nil {
		t.Fatalf("decode numeric updated: %v", err)
	}
	if got := fromList.UpdatedTime(); got.Unix() != 1502138686 {
		t.Fatalf("expected 1502138686, got %v", got)
	}

	var fromEvent Member
	if err := json.Unmarshal([]byte(`{"id":"U1","updated":"1502138686.5"}`), &fromEvent); err != nil {
		t.Fatalf("decode string updated: %v", err)
	}
	if got := fromEvent.UpdatedTime(); got.UnixMilli() != 1502138686500 {
		t.Fatalf("expected .5s precision, got %v", got)
	}

	var missing Member
	if err := json.Unmarshal([]byte(`{"id":"U1"}`), &missing); err != nil {
		t.Fatalf("decode missing updated: %v", err)
	}
	if !missing.UpdatedTime().IsZero() {
		t.Fatalf("expected zero time for missing updated, got %v", missing.UpdatedTime())
	}
}

func TestTaskConstructors(t *testing.T) {
	mt := MessageTask(Message{TS: "1.0", Channel: "C1"})
	if mt.Kind != TaskMessage || mt.Message == nil || mt.Member != nil {
		t.Fatalf("malformed message task: %+v", mt)
	}
	ut := MemberTask(Member{ID: "U1"})
	if ut.Kind != TaskMember || ut.Member == nil || ut.Message != nil {
		t.Fatalf("malformed member task: %+v", ut)
	}
}
