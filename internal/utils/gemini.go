package utils

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"cipherhaven/internal/models"
)

// GeminiClient wraps a genai client for text and Imagen calls.
type GeminiClient struct {
	client     *genai.Client
	textModel  string
	imageModel string
}

func NewGeminiClient(ctx context.Context, apiKey, textModel, imageModel string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &GeminiClient{client: client, textModel: textModel, imageModel: imageModel}, nil
}

func (g *GeminiClient) Name() string { return "gemini:" + g.textModel }

func (g *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.textModel, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini: empty response")
	}
	return text, nil
}

// GenerateImages asks Imagen for n images and returns the raw bytes.
func (g *GeminiClient) GenerateImages(ctx context.Context, prompt string, n int) ([]models.GeneratedImage, error) {
	if n <= 0 {
		n = 1
	}
	resp, err := g.client.Models.GenerateImages(ctx, g.imageModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: int32(n),
		OutputMIMEType: "image/png",
	})
	if err != nil {
		return nil, fmt.Errorf("imagen: generate images: %w", err)
	}
	out := make([]models.GeneratedImage, 0, len(resp.GeneratedImages))
	for _, gi := range resp.GeneratedImages {
		if gi == nil || gi.Image == nil || len(gi.Image.ImageBytes) == 0 {
			continue
		}
		mime := gi.Image.MIMEType
		if mime == "" {
			mime = "image/png"
		}
		out = append(out, models.GeneratedImage{Data: gi.Image.ImageBytes, MIMEType: mime})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("imagen: no images returned")
	}
	return out, nil
}
