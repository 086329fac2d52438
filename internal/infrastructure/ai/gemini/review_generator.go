package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	cfg "github.com/Tomas-vilte/ReviewMate/internal/config"
	domainErrors "github.com/Tomas-vilte/ReviewMate/internal/domain/errors"
	"github.com/Tomas-vilte/ReviewMate/internal/domain/models"
	"github.com/Tomas-vilte/ReviewMate/internal/domain/ports"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var _ ports.ReviewGenerator = (*GeminiReviewGenerator)(nil)

// systemInstruction fija el rol del modelo; el contenido específico de la PR
// viaja en el prompt renderizado desde el template.
const systemInstruction = "You are an experienced software engineer reviewing a pull request. " +
	"Point out bugs, risky changes and style problems, and be concrete about where and why. " +
	"If the change looks good, say so briefly."

type GeminiReviewGenerator struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
	log       *slog.Logger
}

func NewGeminiReviewGenerator(ctx context.Context, config *cfg.Config, log *slog.Logger) (*GeminiReviewGenerator, error) {
	if config.GeminiAPIKey == "" {
		return nil, domainErrors.NewConfigMissingError("GEMINI_API_KEY")
	}
	if log == nil {
		log = slog.Default()
	}

	opts := []option.ClientOption{option.WithAPIKey(config.GeminiAPIKey)}
	if config.APIBaseURL != "" {
		opts = append(opts, option.WithEndpoint(config.APIBaseURL))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(config.Model)
	model.SetMaxOutputTokens(config.MaxOutputTokens)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstruction)},
	}

	return &GeminiReviewGenerator{
		client:    client,
		model:     model,
		modelName: config.Model,
		log:       log,
	}, nil
}

// GenerateReview manda el prompt al modelo y devuelve el texto generado junto
// con los conteos de tokens reportados por el proveedor. Las fallas de red o
// de API se devuelven como ProviderError para que el orquestador las convierta
// en un resultado con forma de error.
func (g *GeminiReviewGenerator) GenerateReview(ctx context.Context, prompt string) (models.ModelResponse, error) {
	if prompt == "" {
		return models.ModelResponse{}, fmt.Errorf("empty prompt")
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return models.ModelResponse{}, domainErrors.NewProviderError("gemini", err)
	}

	text := formatResponse(resp)
	if text == "" {
		return models.ModelResponse{}, domainErrors.NewProviderError("gemini", fmt.Errorf("empty response from model %s", g.modelName))
	}

	result := models.ModelResponse{Text: text}
	if resp.UsageMetadata != nil {
		result.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		result.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	g.log.Debug("review generated",
		"model", g.modelName,
		"input_tokens", result.InputTokens,
		"output_tokens", result.OutputTokens)

	return result, nil
}

// ModelName devuelve el identificador del modelo configurado.
func (g *GeminiReviewGenerator) ModelName() string {
	return g.modelName
}

// Close libera el cliente subyacente.
func (g *GeminiReviewGenerator) Close() error {
	return g.client.Close()
}

func formatResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || resp.Candidates == nil {
		return ""
	}

	var formattedContent strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				formattedContent.WriteString(fmt.Sprintf("%v", part))
			}
		}
	}
	return formattedContent.String()
}
