package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const promptTemplate = `Generate %d English grammar questions about %s tense in JSON format.

Return ONLY a JSON array with this exact structure:
[
  {
    "question_text": "What ___ you doing when I called?",
    "correct_answer": "were",
    "wrong_answers": ["was", "are", "is"]
  }
]

Rules:
- Use ___ for blank spaces
- Include exactly 3 wrong answers
- Return ONLY the JSON array, no other text`

// Generator produces quizzes through an OpenAI-compatible chat endpoint.
type Generator struct {
	client *openai.Client
	model  string
}

func NewGenerator(apiKey, baseURL, model string) *Generator {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &Generator{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (g *Generator) CreateQuiz(ctx context.Context, tense string, count int) ([]Question, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(promptTemplate, count, tense),
			},
		},
		Temperature: 0.3,
		TopP:        0.95,
		MaxTokens:   1024,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate quiz: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("failed to generate quiz: empty response")
	}

	var questions []Question
	if err := json.Unmarshal([]byte(stripCodeFences(resp.Choices[0].Message.Content)), &questions); err != nil {
		return nil, fmt.Errorf("failed to generate quiz: %w", err)
	}
	if len(questions) != count {
		return nil, fmt.Errorf("failed to generate quiz: expected %d questions but got %d", count, len(questions))
	}
	return questions, nil
}

// stripCodeFences unwraps a ```json ... ``` block when the model ignores
// the no-markdown instruction.
func stripCodeFences(text string) string {
	if i := strings.Index(text, "```json"); i >= 0 {
		rest := text[i+len("```json"):]
		if j := strings.Index(rest, "```"); j >= 0 {
			return strings.TrimSpace(rest[:j])
		}
	}
	if i := strings.Index(text, "```"); i >= 0 {
		rest := text[i+3:]
		if j := strings.Index(rest, "```"); j >= 0 {
			return strings.TrimSpace(rest[:j])
		}
	}
	return strings.TrimSpace(text)
}
