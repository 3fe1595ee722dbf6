// internal/concierge/gemini.go
package concierge

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"cookie-storefront/internal/models"
)

const DefaultModel = "gemini-2.5-flash"

// contentGenerator is the slice of *genai.Models the gateway uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiGateway asks a Gemini model to pick a cookie for a mood.
type GeminiGateway struct {
	models contentGenerator
	model  string
}

func NewGeminiGateway(ctx context.Context, apiKey, model string) (*GeminiGateway, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return newGeminiGateway(client.Models, model), nil
}

func newGeminiGateway(models contentGenerator, model string) *GeminiGateway {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return &GeminiGateway{models: models, model: model}
}

func (g *GeminiGateway) Model() string {
	return g.model
}

func (g *GeminiGateway) Recommend(ctx context.Context, mood string, candidates []models.Candidate) (models.Recommendation, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(buildPrompt(mood, candidates)), recommendationConfig())
	if err != nil {
		return models.Recommendation{}, fmt.Errorf("GenAI generate failed: %w", err)
	}
	if resp == nil {
		return models.Recommendation{}, fmt.Errorf("%w: empty response", ErrMalformed)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return models.Recommendation{}, fmt.Errorf("%w: no response text", ErrMalformed)
	}
	return parseRecommendation(text)
}

func recommendationConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.8),
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"recommendedCookieId": {Type: genai.TypeString},
				"reason":              {Type: genai.TypeString},
			},
			Required:         []string{"recommendedCookieId", "reason"},
			PropertyOrdering: []string{"recommendedCookieId", "reason"},
		},
	}
}

func buildPrompt(mood string, candidates []models.Candidate) string {
	var list strings.Builder
	for _, c := range candidates {
		fmt.Fprintf(&list, "%s: %s (%s)\n", c.ID, c.Name, c.Description)
	}

	return fmt.Sprintf(`Você é o "Concierge de Cookies": sofisticado, divertido e um pouco pretensioso, com o tom de um lançamento de produto da Apple.
O cliente descreve como se sente ou o que deseja. Escolha exatamente UM cookie da lista abaixo para ele.

Cookies disponíveis:
%s
Mensagem do cliente: %q

Responda somente com JSON contendo "recommendedCookieId" (um dos ids acima) e "reason" (uma frase curta e bem-humorada, usando palavras como "revolucionário", "mágico", "design" ou "arquitetura de sabor").`,
		list.String(), mood)
}
