package chat

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"modelpuzzle/internal/canvas"
	"modelpuzzle/internal/convstore"
	"modelpuzzle/internal/llmclient"
)

const systemPrompt = `You are an assistant embedded in a visual neural-network architecture builder.
The user arranges modules (Tokenizer, Embedding, Multi-Head Attention, ...) on a canvas and connects them.
Answer questions about architectures, suggest modules and hyperparameters, and explain trade-offs.
Keep answers short enough to read in a side panel.`

// Service answers board questions over the model, keeping per-conversation
// history in the conversation store.
type Service struct {
	llm  llmclient.Client
	conv *convstore.Store
}

func NewService(llm llmclient.Client, conv *convstore.Store) *Service {
	return &Service{llm: llm, conv: conv}
}

// Stream generates a reply and writes it to out as NDJSON. History is
// appended after the reply completes; a failed generation emits a
// structured error event instead of breaking the stream.
func (s *Service) Stream(ctx context.Context, convID, message string, boardState json.RawMessage, out *StreamWriter) {
	message = strings.TrimSpace(message)
	if message == "" {
		_ = out.Fail("message required")
		return
	}

	user := message
	if len(boardState) > 0 {
		var board canvas.Board
		if err := board.ImportJSON(boardState); err == nil {
			user = "[BOARD CONTEXT] " + BoardSummary(board) + "\n\n" + message
		}
	}

	var reply strings.Builder
	err := s.llm.StreamText(ctx, systemPrompt, user, func(delta string) {
		reply.WriteString(delta)
		_ = out.Delta(delta)
	})
	if err != nil {
		log.Printf("[chat] conversation %s: generate: %v", convID, err)
		_ = out.Fail(err.Error())
		return
	}
	_ = out.Completed()

	if s.conv != nil && strings.TrimSpace(convID) != "" {
		err := s.conv.Append(ctx, convID,
			convstore.Message{Role: "user", Content: message},
			convstore.Message{Role: "assistant", Content: reply.String()},
		)
		if err != nil {
			log.Printf("[chat] conversation %s: append history: %v", convID, err)
		}
	}
}

// History returns the stored conversation, oldest first.
func (s *Service) History(ctx context.Context, convID string) ([]convstore.Message, error) {
	if s.conv == nil {
		return nil, nil
	}
	return s.conv.List(ctx, convID)
}

// Append stores messages without generating a reply. The client uses this
// to persist turns it produced locally, like search-fallback answers.
func (s *Service) Append(ctx context.Context, convID string, msgs ...convstore.Message) error {
	if s.conv == nil {
		return nil
	}
	return s.conv.Append(ctx, convID, msgs...)
}
