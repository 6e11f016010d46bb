package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"cipherhaven/internal/events"
	"cipherhaven/internal/models"
)

type TextModel interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

type ImageModel interface {
	GenerateImages(ctx context.Context, prompt string, n int) ([]models.GeneratedImage, error)
}

// ImageStore persists a generated image and returns a URL the browser can load.
type ImageStore interface {
	PutImage(ctx context.Context, data []byte, contentType string) (string, error)
}

type IncidentNotifier interface {
	NotifyIncident(report models.IncidentReport) error
}

type GenerationService interface {
	GenerateText(ctx context.Context, report models.IncidentReport) (*models.TextGenerationResult, error)
	GenerateImages(ctx context.Context, req models.ImageGenerationRequest) (*models.ImageGenerationResult, error)
	Decompose(ctx context.Context, text string) (string, error)
	InspirationPoem(ctx context.Context, text string) (string, error)
}

type GenerationDeps struct {
	Gemini     TextModel
	Gemma      TextModel
	Images     ImageModel
	Store      ImageStore // nil: images are returned inline as data URLs
	Notifier   IncidentNotifier
	Events     events.Publisher
	Logger     *zap.Logger
	ImageCount int
}

type generationService struct {
	gemini     TextModel
	gemma      TextModel
	images     ImageModel
	store      ImageStore
	notifier   IncidentNotifier
	events     events.Publisher
	logger     *zap.Logger
	imageCount int
}

func NewGenerationService(d GenerationDeps) GenerationService {
	s := &generationService{
		gemini:     d.Gemini,
		gemma:      d.Gemma,
		images:     d.Images,
		store:      d.Store,
		notifier:   d.Notifier,
		events:     d.Events,
		logger:     d.Logger,
		imageCount: d.ImageCount,
	}
	if s.events == nil {
		s.events = events.NopPublisher{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.imageCount <= 0 {
		s.imageCount = 4
	}
	return s
}

func (s *generationService) GenerateText(ctx context.Context, report models.IncidentReport) (*models.TextGenerationResult, error) {
	if s.gemini == nil || s.gemma == nil {
		return nil, fmt.Errorf("%w: text models not configured", ErrGenerationFailed)
	}

	prompt := withData(expansionPrompt, DescribeIncident(report))
	var res models.TextGenerationResult

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		text, err := complete(gctx, s.gemini, prompt)
		res.GeminiResponse = text
		return err
	})
	g.Go(func() error {
		text, err := complete(gctx, s.gemma, prompt)
		res.GemmaResponse = text
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("[generate][text] failed", zap.Error(err))
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyIncident(report); err != nil {
			s.logger.Warn("[generate][text] incident notice failed", zap.Error(err))
		}
	}
	evt := events.Event{
		Type: events.TypeIncidentSubmitted,
		Attributes: map[string]string{
			"visible_injuries":  report.VisibleInjuries,
			"preferred_contact": strings.Join(report.PreferredContact, ","),
		},
	}
	if err := s.events.Publish(ctx, evt); err != nil {
		s.logger.Warn("[generate][text] publish failed", zap.Error(err))
	}
	return &res, nil
}

func complete(ctx context.Context, m TextModel, prompt string) (string, error) {
	text, err := m.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrGenerationFailed, m.Name(), err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: %s returned an empty response", ErrGenerationFailed, m.Name())
	}
	return text, nil
}

func (s *generationService) GenerateImages(ctx context.Context, req models.ImageGenerationRequest) (*models.ImageGenerationResult, error) {
	if s.images == nil {
		return nil, fmt.Errorf("%w: image model not configured", ErrGenerationFailed)
	}
	imgs, err := s.images.GenerateImages(ctx, ImagePrompt(req), s.imageCount)
	if err != nil {
		s.logger.Error("[generate][image] failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	urls := make([]string, 0, len(imgs))
	for _, img := range imgs {
		if s.store == nil {
			urls = append(urls, DataURL(img))
			continue
		}
		url, err := s.store.PutImage(ctx, img.Data, img.MIMEType)
		if err != nil {
			s.logger.Error("[generate][image] store failed", zap.Error(err))
			return nil, fmt.Errorf("store image: %w", err)
		}
		urls = append(urls, url)
	}
	s.logger.Info("[generate][image] done", zap.Int("count", len(urls)))
	return &models.ImageGenerationResult{Images: urls}, nil
}

func DataURL(img models.GeneratedImage) string {
	return "data:" + img.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

func (s *generationService) Decompose(ctx context.Context, text string) (string, error) {
	if s.gemini == nil {
		return "", fmt.Errorf("%w: text model not configured", ErrGenerationFailed)
	}
	return complete(ctx, s.gemini, withData(decompositionPrompt, text))
}

func (s *generationService) InspirationPoem(ctx context.Context, text string) (string, error) {
	if s.gemini == nil {
		return "", fmt.Errorf("%w: text model not configured", ErrGenerationFailed)
	}
	return complete(ctx, s.gemini, withData(poemPrompt, text))
}
