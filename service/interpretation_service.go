package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"juspatria-backend/gemini"
	"juspatria-backend/interpretation"
	"juspatria-backend/logger"
	"juspatria-backend/models"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/semaphore"
)

const (
	DefaultInterpretTemperature float32 = 0.2
	DefaultExampleTemperature   float32 = 0.7
	DefaultExampleCacheSize             = 128

	minTextLength = 10
	minURLLength  = 5
)

var (
	ErrBusy               = errors.New("a generation is already in progress")
	ErrInvalidInput       = errors.New("invalid input")
	ErrBackendUnavailable = errors.New("generation backend unavailable")
	ErrUnusableResponse   = errors.New("generation backend returned no usable text")
	ErrGeneratorMissing   = errors.New("generator not set")
)

// Generator produces text for a single request
type Generator interface {
	Generate(ctx context.Context, req models.GenerationRequest) (string, error)
}

// AttachmentSource resolves previously uploaded files
type AttachmentSource interface {
	Attachment(ctx context.Context, id uuid.UUID) (*models.Attachment, error)
}

// InterpretationService runs interpretations and practical examples.
// Each flow allows one request in flight; a second one fails with ErrBusy.
type InterpretationService struct {
	generator   Generator
	history     *HistoryService
	attachments AttachmentSource
	log         *logger.Logger

	interpretTemperature float32
	exampleTemperature   float32
	cacheSize            int
	examples             *lru.Cache[string, string]

	interpretGuard *semaphore.Weighted
	exampleGuard   *semaphore.Weighted
}

// InterpretationServiceOption is a functional option for InterpretationService
type InterpretationServiceOption func(*InterpretationService)

// InterpretWithGenerator sets the generation backend
func InterpretWithGenerator(g Generator) InterpretationServiceOption {
	return func(s *InterpretationService) {
		s.generator = g
	}
}

// InterpretWithHistory sets where successful interpretations are recorded
func InterpretWithHistory(h *HistoryService) InterpretationServiceOption {
	return func(s *InterpretationService) {
		s.history = h
	}
}

// InterpretWithAttachments sets the source used for file_id requests
func InterpretWithAttachments(a AttachmentSource) InterpretationServiceOption {
	return func(s *InterpretationService) {
		s.attachments = a
	}
}

// InterpretWithLogger sets the logger
func InterpretWithLogger(log *logger.Logger) InterpretationServiceOption {
	return func(s *InterpretationService) {
		if log != nil {
			s.log = log
		}
	}
}

// InterpretWithTemperatures overrides the interpretation and example temperatures
func InterpretWithTemperatures(interpret, example float32) InterpretationServiceOption {
	return func(s *InterpretationService) {
		s.interpretTemperature = interpret
		s.exampleTemperature = example
	}
}

// InterpretWithExampleCacheSize sets how many practical examples are cached
func InterpretWithExampleCacheSize(size int) InterpretationServiceOption {
	return func(s *InterpretationService) {
		if size > 0 {
			s.cacheSize = size
		}
	}
}

// NewInterpretationService creates a new interpretation service
func NewInterpretationService(opts ...InterpretationServiceOption) (*InterpretationService, error) {
	s := &InterpretationService{
		log:                  logger.NewNop(),
		interpretTemperature: DefaultInterpretTemperature,
		exampleTemperature:   DefaultExampleTemperature,
		cacheSize:            DefaultExampleCacheSize,
		interpretGuard:       semaphore.NewWeighted(1),
		exampleGuard:         semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(s)
	}

	cache, err := lru.New[string, string](s.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create example cache: %w", err)
	}
	s.examples = cache

	return s, nil
}

// InterpretRequest is one document to analyse
type InterpretRequest struct {
	Mode       models.InputMode
	Text       string
	URL        string
	Attachment *models.Attachment
	FileID     *uuid.UUID
	Question   string
	Config     models.InterpretationConfig
}

// InterpretResult is the generated analysis
type InterpretResult struct {
	Raw     string
	Blocks  []models.AnalysisBlock
	History *models.HistoryItem
}

// Interpret asks the backend for a structured analysis of the document and
// records it in the history. The backend call is not cancelled when ctx is.
func (s *InterpretationService) Interpret(ctx context.Context, req InterpretRequest) (*InterpretResult, error) {
	if s.generator == nil {
		return nil, ErrGeneratorMissing
	}
	if err := validateInterpretRequest(req); err != nil {
		return nil, err
	}

	if !s.interpretGuard.TryAcquire(1) {
		return nil, ErrBusy
	}
	defer s.interpretGuard.Release(1)

	genReq, source, err := s.buildGenerationRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	log := s.log.With("mode", req.Mode, "has_question", req.Question != "")
	log.Info("interpretation started")

	raw, err := s.generate(ctx, genReq)
	if err != nil {
		log.Error("interpretation failed", "error", err)
		return nil, err
	}

	result := &InterpretResult{
		Raw:    raw,
		Blocks: interpretation.Segment(raw),
	}

	if s.history != nil {
		item, err := s.history.Record(context.WithoutCancel(ctx), RecordRequest{
			Question: req.Question,
			Source:   source,
			Result:   raw,
		})
		if err != nil {
			log.Warn("failed to record history", "error", err)
		} else {
			result.History = item
		}
	}

	log.Info("interpretation finished", "blocks", len(result.Blocks))
	return result, nil
}

// ExampleRequest identifies the analysed point an example should illustrate
type ExampleRequest struct {
	Article        string
	Interpretation string
}

// GenerateExample writes a fictional everyday scenario for the point.
// Results are cached by their legal context.
func (s *InterpretationService) GenerateExample(ctx context.Context, req ExampleRequest) (string, error) {
	if s.generator == nil {
		return "", ErrGeneratorMissing
	}

	legalContext := interpretation.ExampleContext(models.AnalysisBlock{
		Article:        req.Article,
		Interpretation: req.Interpretation,
	})
	if strings.TrimSpace(legalContext) == "" {
		return "", fmt.Errorf("%w: article or interpretation is required", ErrInvalidInput)
	}

	if cached, ok := s.examples.Get(legalContext); ok {
		return cached, nil
	}

	if !s.exampleGuard.TryAcquire(1) {
		return "", ErrBusy
	}
	defer s.exampleGuard.Release(1)

	text, err := s.generate(ctx, models.GenerationRequest{
		Prompt:      interpretation.ComposeExamplePrompt(legalContext),
		Temperature: s.exampleTemperature,
	})
	if err != nil {
		s.log.Error("practical example failed", "error", err)
		return "", err
	}

	s.examples.Add(legalContext, text)
	return text, nil
}

func (s *InterpretationService) generate(ctx context.Context, req models.GenerationRequest) (string, error) {
	text, err := s.generator.Generate(context.WithoutCancel(ctx), req)
	if err != nil {
		if errors.Is(err, gemini.ErrEmptyResponse) {
			return "", fmt.Errorf("%w: %v", ErrUnusableResponse, err)
		}
		return "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrUnusableResponse
	}
	return text, nil
}

func (s *InterpretationService) buildGenerationRequest(ctx context.Context, req InterpretRequest) (models.GenerationRequest, string, error) {
	genReq := models.GenerationRequest{
		SystemInstruction: interpretation.ComposeInstruction(req.Config),
		Temperature:       s.interpretTemperature,
	}

	switch req.Mode {
	case models.InputModeText:
		genReq.Prompt = interpretation.ComposeUserPrompt(req.Text, req.Question)
		return genReq, "Texto Manual", nil

	case models.InputModeURL:
		target := strings.TrimSpace(req.URL)
		genReq.Prompt = interpretation.ComposeURLPrompt(target, req.Question)
		genReq.GroundingURL = target
		return genReq, "URL Externa", nil

	case models.InputModeFile:
		att := req.Attachment
		if att == nil {
			if s.attachments == nil {
				return genReq, "", ErrFileServiceMissing
			}
			var err error
			att, err = s.attachments.Attachment(ctx, *req.FileID)
			if err != nil {
				return genReq, "", err
			}
		}
		genReq.Prompt = interpretation.ComposePromptFraming(req.Question)
		genReq.Attachment = att
		return genReq, "Arquivo: " + att.Name, nil
	}

	return genReq, "", fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, req.Mode)
}

// validateInterpretRequest applies the readiness rules of the web client
func validateInterpretRequest(req InterpretRequest) error {
	if err := req.Config.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	switch req.Mode {
	case models.InputModeText:
		if utf8.RuneCountInString(strings.TrimSpace(req.Text)) <= minTextLength {
			return fmt.Errorf("%w: text must be longer than %d characters", ErrInvalidInput, minTextLength)
		}
	case models.InputModeURL:
		raw := strings.TrimSpace(req.URL)
		if utf8.RuneCountInString(raw) <= minURLLength {
			return fmt.Errorf("%w: url must be longer than %d characters", ErrInvalidInput, minURLLength)
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: url must be an absolute http(s) address", ErrInvalidInput)
		}
	case models.InputModeFile:
		if req.Attachment == nil && req.FileID == nil {
			return fmt.Errorf("%w: file is required", ErrInvalidInput)
		}
		if req.Attachment != nil && len(req.Attachment.Data) == 0 {
			return fmt.Errorf("%w: file is empty", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, req.Mode)
	}
	return nil
}
