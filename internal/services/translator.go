package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/devportal-backend/internal/clients/openai"
	"github.com/yungbote/devportal-backend/internal/pkg/logger"
)

const translatorSystemPrompt = "You are a professional software localization translator. " +
	"Translate the user's Japanese UI label/help text into clear, concise English. " +
	"Do not add explanations. Preserve placeholders like {name} or %(count)s. " +
	"Return English only."

// Translator turns one source-language text into the target language.
type Translator interface {
	Translate(ctx context.Context, srcLang, tgtLang, text string) (string, error)
}

// OpenAITranslator translates through the responses endpoint.
type OpenAITranslator struct {
	log    *logger.Logger
	client openai.Client
}

func NewOpenAITranslator(log *logger.Logger, client openai.Client) (*OpenAITranslator, error) {
	if client == nil {
		return nil, fmt.Errorf("openai client required")
	}
	return &OpenAITranslator{
		log:    log.With("service", "OpenAITranslator"),
		client: client,
	}, nil
}

func (t *OpenAITranslator) Translate(ctx context.Context, srcLang, tgtLang, text string) (string, error) {
	user := fmt.Sprintf("Source language: %s\nTarget language: %s\nText:\n%s", srcLang, tgtLang, text)
	out, err := t.client.GenerateText(ctx, translatorSystemPrompt, user)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("translator returned empty text")
	}
	return out, nil
}

// DummyTranslator is the no-network provider used in development and tests:
// it tags the source text with the target language.
type DummyTranslator struct{}

func (DummyTranslator) Translate(_ context.Context, _, tgtLang, text string) (string, error) {
	return fmt.Sprintf("(%s)%s", strings.ToUpper(tgtLang), text), nil
}
