// Package agent asks a Gemini model for a one-shot reading of a trading
// report. The model sees only the rendered Markdown the user already sees;
// it has no access to the ledger or to any exchange credentials.
package agent

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultModel is the model used when the caller does not pick one.
const DefaultModel = "gemini-2.5-flash"

const systemPrompt = `You are a pragmatic trading-journal reviewer.
You receive a Markdown performance report of realized spot trades.
Comment on win rate, profit factor, fee drag and position concentration.
Point out at most three concrete observations and one risk.
Do not invent numbers that are not in the report. Answer in Markdown.`

// Analyst wraps one chat session with the model.
type Analyst struct {
	model string
	chat  *genai.Chat
}

// NewAnalyst creates the Gemini client and opens a chat. Credentials come
// from the environment (GEMINI_API_KEY), the same way the rest of the genai
// SDK resolves them.
func NewAnalyst(ctx context.Context, model string) (*Analyst, error) {
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	}
	chat, err := client.Chats.Create(ctx, model, config, nil)
	if err != nil {
		return nil, fmt.Errorf("open chat with %s: %w", model, err)
	}
	return &Analyst{model: model, chat: chat}, nil
}

// Review sends the rendered report and returns the model's commentary.
func (a *Analyst) Review(ctx context.Context, report string) (string, error) {
	resp, err := a.chat.Send(ctx, &genai.Part{Text: report})
	if err != nil {
		return "", fmt.Errorf("ask %s: %w", a.model, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from %s", a.model)
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
