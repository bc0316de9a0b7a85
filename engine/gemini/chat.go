package gemini

import (
	"context"
	"fmt"

	genai "google.golang.org/genai"
)

// formattingInstruction is appended to every live chat message so replies come
// back scannable on a phone screen. The offline path never sees it.
const formattingInstruction = `

Please provide a clear, concise, and well-structured response following these guidelines:

FORMATTING:
• Use bullet points (•) for lists and key points
• Keep paragraphs short (2-3 sentences max)
• Use clear section headers when appropriate
• Add proper spacing between sections
• Be direct and actionable

CONTENT:
• Provide practical, actionable information
• Include specific examples when helpful
• Prioritize the most important information first
• Use simple, clear language
• Avoid unnecessary jargon

Please format your response to be easily scannable and helpful.`

// ChatStream is one multi-turn chat bound to a model conversation.
type ChatStream struct {
	chat *genai.Chat
}

// NewChat opens a fresh model conversation.
func (c *Client) NewChat(ctx context.Context) (*ChatStream, error) {
	chat, err := c.cli.Chats.Create(ctx, c.model, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini: create chat: %w", err)
	}
	return &ChatStream{chat: chat}, nil
}

// Stream forwards one user message and invokes onChunk for every text chunk in
// arrival order. Returns when the upstream stream ends or ctx is cancelled.
func (s *ChatStream) Stream(ctx context.Context, message string, onChunk func(text string)) error {
	for resp, err := range s.chat.SendMessageStream(ctx, genai.Part{Text: message + formattingInstruction}) {
		if err != nil {
			return fmt.Errorf("gemini: chat stream: %w", err)
		}
		if txt, ok := firstText(resp); ok {
			onChunk(txt)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
	return nil
}
