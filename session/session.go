// Package session holds the mutable state of one hiring workflow: the
// current stage, the accumulated records, approvals and the conversation
// history. Sessions are owned by the supervisor; stage agents only touch
// their own record field.
package session

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/hireflow/hireflow/record"
	"github.com/hireflow/hireflow/types"
)

type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

type Entry struct {
	Speaker Speaker   `json:"speaker"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}

type Session struct {
	ID          string               `json:"id"`
	Stage       types.Stage          `json:"stage"`
	Intent      *record.Intent       `json:"intent,omitempty"`
	Description *record.Description  `json:"description,omitempty"`
	Questions   *record.Questions    `json:"questions,omitempty"`
	Approvals   map[types.Stage]bool `json:"approvals"`
	History     []Entry              `json:"history"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// New creates a session at the Intent stage. When id is empty a fresh one is
// generated.
func New(id string) *Session {
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now()
	return &Session{
		ID:        id,
		Stage:     types.StageIntent,
		Approvals: make(map[types.Stage]bool),
		History:   make([]Entry, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Append adds one entry to the conversation history.
func (s *Session) Append(speaker Speaker, text string) {
	s.History = append(s.History, Entry{
		Speaker: speaker,
		Text:    text,
		At:      time.Now(),
	})
	s.UpdatedAt = time.Now()
}

// LastAssistantText returns the most recent assistant message, or "" when
// there is none. Classifiers use it to read a user answer in context.
func (s *Session) LastAssistantText() string {
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].Speaker == SpeakerAssistant {
			return s.History[i].Text
		}
	}
	return ""
}

// Approved reports whether the given stage has been human-approved.
func (s *Session) Approved(stage types.Stage) bool {
	return s.Approvals[stage]
}

// Clone returns a deep copy. The supervisor mutates the clone during a turn
// and commits it only once the turn fully resolves.
func (s *Session) Clone() (*Session, error) {
	raw, err := sonic.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal session %s: %w", s.ID, err)
	}
	var out Session
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal session %s: %w", s.ID, err)
	}
	if out.Approvals == nil {
		out.Approvals = make(map[types.Stage]bool)
	}
	return &out, nil
}
