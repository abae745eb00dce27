package domain

// TaskKind tags the queued-task union.
type TaskKind string

// Task kinds. TaskNone exists so an exhaustive switch over a decoded task
// always has a well-defined "ignore" branch.
const (
	TaskNone    TaskKind = "none"
	TaskMessage TaskKind = "message"
	TaskMember  TaskKind = "member"
)

// Task is one webhook action buffered between delivery and processing. It is
// a tagged union: exactly the payload field matching Kind is set. The raw
// candidate carries enough context (the channel id on messages) to be
// enriched long after the originating HTTP request has completed.
type Task struct {
	Kind    TaskKind `json:"kind"`
	Message *Message `json:"message,omitempty"`
	Member  *Member  `json:"member,omitempty"`
}

// MessageTask wraps a message event into a queued task.
func MessageTask(m Message) Task {
	return Task{Kind: TaskMessage, Message: &m}
}

// MemberTask wraps a team_join member into a queued task.
func MemberTask(m Member) Task {
	return Task{Kind: TaskMember, Member: &m}
}
