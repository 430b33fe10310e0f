package supervisor

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"

	"github.com/hireflow/hireflow/session"
)

// ADKAgent exposes the supervisor as an eino adk.Agent so it can run inside
// an adk.Runner. The session id is routed through the context via
// session.WithID.
type ADKAgent struct {
	name        string
	description string
	supervisor  *Supervisor
}

var _ adk.Agent = (*ADKAgent)(nil)

func NewADKAgent(name, description string, sup *Supervisor) *ADKAgent {
	return &ADKAgent{
		name:        name,
		description: description,
		supervisor:  sup,
	}
}

func (a *ADKAgent) Name(ctx context.Context) string {
	return a.name
}

func (a *ADKAgent) Description(ctx context.Context) string {
	return a.description
}

func (a *ADKAgent) Run(ctx context.Context, input *adk.AgentInput, options ...adk.AgentRunOption) *adk.AsyncIterator[*adk.AgentEvent] {
	iter, gen := adk.NewAsyncIteratorPair[*adk.AgentEvent]()
	go func() {
		defer func() {
			if e := recover(); e != nil {
				gen.Send(&adk.AgentEvent{
					Err: fmt.Errorf("recover from panic: %v", e),
				})
			}
			gen.Close()
		}()
		if len(input.Messages) == 0 {
			gen.Send(&adk.AgentEvent{Err: fmt.Errorf("no messages in input")})
			return
		}
		sessionID, ok := session.IDFromContext(ctx)
		if !ok {
			gen.Send(&adk.AgentEvent{Err: fmt.Errorf("no session id in context")})
			return
		}
		reply, err := a.supervisor.HandleTurn(ctx, sessionID, input.Messages[len(input.Messages)-1].Content)
		if err != nil {
			gen.Send(&adk.AgentEvent{Err: fmt.Errorf("handle turn: %w", err)})
			return
		}
		gen.Send(&adk.AgentEvent{
			Output: &adk.AgentOutput{
				MessageOutput: &adk.MessageVariant{
					IsStreaming: false,
					Message: &schema.Message{
						Role:    schema.Assistant,
						Content: reply.Message,
					},
					Role: schema.Assistant,
				},
			},
		})
	}()
	return iter
}
