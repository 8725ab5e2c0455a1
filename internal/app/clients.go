package app

import (
	"fmt"

	"github.com/yungbote/devportal-backend/internal/clients/chroma"
	"github.com/yungbote/devportal-backend/internal/clients/openai"
	"github.com/yungbote/devportal-backend/internal/pkg/logger"
)

type Clients struct {
	OpenAI openai.Client
	Chroma chroma.Client
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	openaiClient, err := openai.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	}

	chromaCfg, err := chroma.ResolveConfigFromEnv()
	if err != nil {
		return Clients{}, fmt.Errorf("resolve chroma config: %w", err)
	}
	chromaClient, err := chroma.NewClient(log, chromaCfg)
	if err != nil {
		return Clients{}, fmt.Errorf("init chroma client: %w", err)
	}

	return Clients{
		OpenAI: openaiClient,
		Chroma: chromaClient,
	}, nil
}
