// FILE: internal/service/conversant.go
package service

import (
	"context"
	"fmt"
	"sync"

	"ai-interview-be/internal/constant"
	"ai-interview-be/internal/pkg/logger"
	"ai-interview-be/internal/session"
	"ai-interview-be/pkg/llm"
	"ai-interview-be/pkg/vision"

	"github.com/google/uuid"
)

// historyWindow bounds how many chat messages are replayed to the model.
const historyWindow = 40

// interviewConversant drives the counterpart side of a session: persona
// prompt, resume context injection, optional frame commentary and the running
// chat history.
type interviewConversant struct {
	llmProvider   llm.Provider
	retrieval     IRetrievalService
	visionAnalyst vision.Analyzer

	participantId   *uuid.UUID
	participantName string
	params          session.Params
	log             logger.ILogger

	mu      sync.Mutex
	history []llm.Message
}

func NewConversant(
	llmProvider llm.Provider,
	retrieval IRetrievalService,
	visionAnalyst vision.Analyzer,
	participantId *uuid.UUID,
	participantName string,
	params session.Params,
	jobDescription string,
	log logger.ILogger,
) session.Conversant {
	persona := constant.InterviewerPersonaPrompt
	if params.SilentRetrieval {
		persona += constant.SilentRetrievalInstruction
	} else {
		persona += constant.TransparentRetrievalInstruction
	}
	if jobDescription != "" {
		persona += "\n\nJob Description for this interview:\n" + jobDescription
	}

	return &interviewConversant{
		llmProvider:     llmProvider,
		retrieval:       retrieval,
		visionAnalyst:   visionAnalyst,
		participantId:   participantId,
		participantName: participantName,
		params:          params,
		log:             log,
		history: []llm.Message{
			{Role: "system", Content: persona},
		},
	}
}

func (c *interviewConversant) Opening(ctx context.Context, participantName string) (string, error) {
	prompt := constant.GreetingPromptAnonymous
	if participantName != "" {
		prompt = fmt.Sprintf(constant.GreetingPromptTemplate, participantName)
	}

	greeting, err := c.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.7))
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.history = append(c.history, llm.Message{Role: "assistant", Content: greeting})
	c.mu.Unlock()
	return greeting, nil
}

func (c *interviewConversant) Reply(ctx context.Context, turn session.Turn) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if note := c.retrievalContext(ctx, turn.Text); note != "" {
		c.history = append(c.history, llm.Message{Role: "system", Content: note})
	}
	for _, note := range c.frameNotes(ctx, turn.Frames) {
		c.history = append(c.history, llm.Message{Role: "system", Content: note})
	}

	c.history = append(c.history, llm.Message{Role: "user", Content: turn.Text})
	c.trimHistory()

	reply, err := c.llmProvider.Chat(ctx, c.history, llm.WithTemperature(0.7))
	if err != nil {
		return "", err
	}

	c.history = append(c.history, llm.Message{Role: "assistant", Content: reply})
	return reply, nil
}

// retrievalContext searches the participant's resume with the current
// utterance as query and returns an injectable context note, or "" when
// nothing usable came back.
func (c *interviewConversant) retrievalContext(ctx context.Context, query string) string {
	if c.retrieval == nil || !c.retrieval.Available() {
		return ""
	}

	result := c.retrieval.SearchTool(ctx, c.participantId, query, constant.RetrievalNarrowTopK)
	switch result {
	case constant.NoIdentityBoundMessage, constant.NothingFoundMessage, constant.RetrievalErrorMessage:
		return ""
	}
	return "Background from the candidate's resume (use naturally, do not quote verbatim):\n" + result
}

// frameNotes turns this turn's frames into observations for the model.
// Only practice sessions get visual commentary; assessment sessions consume
// frames solely for compliance and turn association.
func (c *interviewConversant) frameNotes(ctx context.Context, frames []*session.MediaFrame) []string {
	if c.visionAnalyst == nil || c.params.MonitorCompliance {
		return nil
	}

	var notes []string
	for _, frame := range frames {
		switch frame.Kind {
		case session.SourcePrimaryCamera:
			desc, err := c.visionAnalyst.DescribeBodyLanguage(ctx, frame.Data)
			if err != nil {
				c.log.Warn("conversant", "body language analysis failed", map[string]interface{}{"error": err.Error()})
				continue
			}
			notes = append(notes, "Observation of the candidate's presence this turn: "+desc)
		case session.SourceScreenShare:
			review, err := c.visionAnalyst.ReviewScreenContent(ctx, frame.Data)
			if err != nil {
				c.log.Warn("conversant", "screen review failed", map[string]interface{}{"error": err.Error()})
				continue
			}
			notes = append(notes, "Observation of the candidate's screen this turn: "+review)
		}
	}
	return notes
}

// trimHistory keeps the system persona plus the most recent window.
func (c *interviewConversant) trimHistory() {
	if len(c.history) <= historyWindow {
		return
	}
	head := c.history[:1]
	tail := c.history[len(c.history)-historyWindow+1:]
	c.history = append(append([]llm.Message{}, head...), tail...)
}
