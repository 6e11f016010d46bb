package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cipherhaven/internal/events"
	"cipherhaven/internal/models"
)

type stubText struct {
	name  string
	reply string
	err   error

	mu      sync.Mutex
	prompts []string
}

func (s *stubText) Name() string { return s.name }

func (s *stubText) Complete(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()
	return s.reply, s.err
}

type stubImages struct {
	imgs    []models.GeneratedImage
	err     error
	prompt  string
	wantedN int
}

func (s *stubImages) GenerateImages(_ context.Context, prompt string, n int) ([]models.GeneratedImage, error) {
	s.prompt = prompt
	s.wantedN = n
	return s.imgs, s.err
}

type stubStore struct{ puts int }

func (s *stubStore) PutImage(_ context.Context, data []byte, contentType string) (string, error) {
	s.puts++
	return fmt.Sprintf("https://objects.local/img-%d", s.puts), nil
}

type stubNotifier struct{ reports []models.IncidentReport }

func (n *stubNotifier) NotifyIncident(r models.IncidentReport) error {
	n.reports = append(n.reports, r)
	return nil
}

func sampleReport() models.IncidentReport {
	return models.IncidentReport{
		Name:               "Sam",
		Location:           models.Location{Lat: 52.37, Lng: 4.89},
		OccurrenceDuration: "6 months",
		Frequency:          "weekly",
		VisibleInjuries:    models.InjuriesNotShown,
		PreferredContact:   []string{models.ContactEmail},
		CurrentSituation:   "living with the person",
		Culprit:            "partner",
	}
}

func TestGenerateText_BothModels(t *testing.T) {
	gemini := &stubText{name: "gemini", reply: " gemini text "}
	gemma := &stubText{name: "gemma", reply: "gemma text"}
	notifier := &stubNotifier{}
	pub := &fakePublisher{}
	svc := NewGenerationService(GenerationDeps{Gemini: gemini, Gemma: gemma, Notifier: notifier, Events: pub})

	res, err := svc.GenerateText(context.Background(), sampleReport())
	require.NoError(t, err)

	assert.Equal(t, "gemini text", res.GeminiResponse)
	assert.Equal(t, "gemma text", res.GemmaResponse)
	require.Len(t, gemini.prompts, 1)
	assert.Equal(t, gemini.prompts, gemma.prompts)
	assert.Contains(t, gemini.prompts[0], "The data is Name: Sam")
	assert.Len(t, notifier.reports, 1)
	assert.Equal(t, []string{events.TypeIncidentSubmitted}, pub.types())
}

func TestGenerateText_EmptyResponseFails(t *testing.T) {
	svc := NewGenerationService(GenerationDeps{
		Gemini: &stubText{name: "gemini", reply: "ok"},
		Gemma:  &stubText{name: "gemma", reply: "  "},
	})

	_, err := svc.GenerateText(context.Background(), sampleReport())

	require.ErrorIs(t, err, ErrGenerationFailed)
	assert.Contains(t, err.Error(), "gemma")
}

func TestGenerateText_ModelErrorFails(t *testing.T) {
	notifier := &stubNotifier{}
	svc := NewGenerationService(GenerationDeps{
		Gemini:   &stubText{name: "gemini", err: errBoom},
		Gemma:    &stubText{name: "gemma", reply: "fine"},
		Notifier: notifier,
	})

	_, err := svc.GenerateText(context.Background(), sampleReport())

	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.Empty(t, notifier.reports)
}

func TestGenerateText_PhoneContactWithoutNumberIsAccepted(t *testing.T) {
	gemini := &stubText{name: "gemini", reply: "x"}
	svc := NewGenerationService(GenerationDeps{Gemini: gemini, Gemma: &stubText{name: "gemma", reply: "y"}})
	r := sampleReport()
	r.PreferredContact = []string{models.ContactPhone}

	res, err := svc.GenerateText(context.Background(), r)

	require.NoError(t, err)
	assert.Equal(t, "x", res.GeminiResponse)
	assert.Len(t, gemini.prompts, 1)
}

func TestGenerateImages_InlineWithoutStore(t *testing.T) {
	images := &stubImages{imgs: []models.GeneratedImage{{Data: []byte{1, 2, 3}, MIMEType: "image/png"}}}
	svc := NewGenerationService(GenerationDeps{Images: images, ImageCount: 2})

	res, err := svc.GenerateImages(context.Background(), models.ImageGenerationRequest{
		GeneratedText: "A long road back.",
		ImagePrompt:   "Sunset",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"data:image/png;base64,AQID"}, res.Images)
	assert.Equal(t, 2, images.wantedN)
	assert.True(t, strings.HasPrefix(images.prompt, "Sunset. Mood taken from this text: A long road back."))
}

func TestGenerateImages_UsesStore(t *testing.T) {
	images := &stubImages{imgs: []models.GeneratedImage{
		{Data: []byte{1}, MIMEType: "image/png"},
		{Data: []byte{2}, MIMEType: "image/png"},
	}}
	store := &stubStore{}
	svc := NewGenerationService(GenerationDeps{Images: images, Store: store})

	res, err := svc.GenerateImages(context.Background(), models.ImageGenerationRequest{ImagePrompt: "Ocean"})
	require.NoError(t, err)

	assert.Equal(t, []string{"https://objects.local/img-1", "https://objects.local/img-2"}, res.Images)
	assert.Equal(t, 4, images.wantedN)
}

func TestGenerateImages_ModelFailure(t *testing.T) {
	svc := NewGenerationService(GenerationDeps{Images: &stubImages{err: errBoom}})

	_, err := svc.GenerateImages(context.Background(), models.ImageGenerationRequest{ImagePrompt: "Ocean"})

	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestDecomposeAndPoem_UseGemini(t *testing.T) {
	gemini := &stubText{name: "gemini", reply: "line one"}
	svc := NewGenerationService(GenerationDeps{Gemini: gemini})
	ctx := context.Background()

	out, err := svc.Decompose(ctx, "It started last year.")
	require.NoError(t, err)
	assert.Equal(t, "line one", out)

	_, err = svc.InspirationPoem(ctx, "It started last year.")
	require.NoError(t, err)

	require.Len(t, gemini.prompts, 2)
	assert.True(t, strings.HasPrefix(gemini.prompts[0], decompositionPrompt))
	assert.True(t, strings.HasPrefix(gemini.prompts[1], poemPrompt))
}

func TestGeneration_UnconfiguredModels(t *testing.T) {
	svc := NewGenerationService(GenerationDeps{})
	ctx := context.Background()

	_, err := svc.GenerateText(ctx, sampleReport())
	assert.ErrorIs(t, err, ErrGenerationFailed)
	_, err = svc.GenerateImages(ctx, models.ImageGenerationRequest{ImagePrompt: "Sunset"})
	assert.ErrorIs(t, err, ErrGenerationFailed)
	_, err = svc.Decompose(ctx, "text")
	assert.ErrorIs(t, err, ErrGenerationFailed)
}
