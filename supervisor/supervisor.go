// Package supervisor owns the routing state machine of the hiring workflow.
// It dispatches each turn to the active stage agent, reconciles the returned
// status into the session, and advances the stage on approval. Turns are
// processed against a working copy of the session that is committed only once
// the turn fully resolves, so a failed or cancelled turn mutates nothing.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hireflow/hireflow/session"
	"github.com/hireflow/hireflow/stage"
	"github.com/hireflow/hireflow/types"
)

const (
	retryReply = "Sorry, I ran into a problem processing that. Could you send it again, or rephrase?"
	endReply   = "This hiring workflow has already concluded. Start a new session for another role."
)

// Reply is the outcome of one handled turn.
type Reply struct {
	SessionID string
	Stage     types.Stage
	Status    types.Status
	Message   string
	Done      bool
}

type Supervisor struct {
	store   session.Store
	agents  map[types.Stage]stage.Agent
	trimmer session.Trimmer
	locks   sync.Map // session id -> *sync.Mutex
}

type Option func(*Supervisor)

// WithHistoryTrimmer bounds how much conversation history a session retains.
func WithHistoryTrimmer(trimmer session.Trimmer) Option {
	return func(s *Supervisor) {
		s.trimmer = trimmer
	}
}

// New builds a supervisor over a fixed routing table. Every non-terminal
// stage must have exactly one agent.
func New(store session.Store, agents []stage.Agent, opts ...Option) (*Supervisor, error) {
	if store == nil {
		return nil, errors.New("supervisor: store is required")
	}
	table := make(map[types.Stage]stage.Agent, len(agents))
	for _, agent := range agents {
		if agent == nil {
			return nil, errors.New("supervisor: nil agent in routing table")
		}
		if _, dup := table[agent.Stage()]; dup {
			return nil, fmt.Errorf("supervisor: duplicate agent for stage %s", agent.Stage())
		}
		table[agent.Stage()] = agent
	}
	for _, st := range []types.Stage{types.StageIntent, types.StageDescription, types.StageQuestions} {
		if _, ok := table[st]; !ok {
			return nil, fmt.Errorf("supervisor: no agent for stage %s", st)
		}
	}
	s := &Supervisor{store: store, agents: table}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// StartSession creates and stores a fresh session. When id is empty a new
// one is generated.
func (s *Supervisor) StartSession(ctx context.Context, id string) (*session.Session, error) {
	sess := session.New(id)
	if err := s.store.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("store new session: %w", err)
	}
	slog.Debug("session started", "session", sess.ID)
	return sess, nil
}

// HandleTurn processes one user message against the session's active stage.
// Turns for the same session are serialized; independent sessions run
// concurrently. session.ErrUnknownSession passes through unchanged.
func (s *Supervisor) HandleTurn(ctx context.Context, sessionID, userInput string) (*Reply, error) {
	mu := s.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Stage.Terminal() {
		return &Reply{
			SessionID: sessionID,
			Stage:     sess.Stage,
			Status:    types.StatusApproved,
			Message:   endReply,
			Done:      true,
		}, nil
	}

	agent, ok := s.agents[sess.Stage]
	if !ok {
		return nil, fmt.Errorf("no agent for stage %s", sess.Stage)
	}

	// The agent works on a clone; the stored session stays untouched until
	// the commit below.
	work, err := sess.Clone()
	if err != nil {
		return nil, err
	}

	result, err := agent.Process(ctx, work, userInput)
	if err != nil {
		var precondition *stage.PreconditionError
		if errors.As(err, &precondition) {
			// Routing defect, not a user problem. Abort loudly.
			return nil, fmt.Errorf("routing invariant violated for session %s: %w", sessionID, err)
		}
		slog.Warn("turn failed, session left unchanged", "session", sessionID, "stage", sess.Stage, "error", err)
		return &Reply{
			SessionID: sessionID,
			Stage:     sess.Stage,
			Status:    types.StatusIncomplete,
			Message:   retryReply,
		}, nil
	}

	if result.Status == types.StatusApproved {
		work.Approvals[work.Stage] = true
		next, _ := work.Stage.Next()
		slog.Debug("stage approved", "session", sessionID, "from", work.Stage, "to", next)
		work.Stage = next
	}

	work.Append(session.SpeakerUser, userInput)
	work.Append(session.SpeakerAssistant, result.Reply)
	if s.trimmer != nil {
		work.History = s.trimmer.Trim(work.History)
	}

	// A cancelled turn must leave the session in its pre-turn state.
	if err := ctx.Err(); err != nil {
		slog.Warn("turn cancelled before commit", "session", sessionID)
		return nil, err
	}
	if err := s.store.Put(ctx, work); err != nil {
		return nil, fmt.Errorf("commit session %s: %w", sessionID, err)
	}

	return &Reply{
		SessionID: sessionID,
		Stage:     work.Stage,
		Status:    result.Status,
		Message:   result.Reply,
		Done:      work.Stage.Terminal(),
	}, nil
}

func (s *Supervisor) sessionLock(sessionID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(sessionID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
