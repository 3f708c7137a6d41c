package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
)

// LangChainCompleter targets any OpenAI-compatible endpoint, e.g. a local
// Ollama server.
type LangChainCompleter struct {
	llm llms.Model
}

func NewLangChainCompleter(baseURL, token, model string) (*LangChainCompleter, error) {
	llm, err := lcopenai.New(
		lcopenai.WithToken(token),
		lcopenai.WithBaseURL(strings.TrimRight(baseURL, "/")),
		lcopenai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenAI-compatible client: %w", err)
	}
	return &LangChainCompleter{llm: llm}, nil
}

func (l *LangChainCompleter) Name() string { return "openai-compatible" }

func (l *LangChainCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	completion, err := llms.GenerateFromSinglePrompt(ctx, l.llm, prompt)
	if err != nil {
		return "", fmt.Errorf("completion error: %w", err)
	}
	if strings.TrimSpace(completion) == "" {
		return "", ErrEmptyCompletion
	}
	return completion, nil
}
