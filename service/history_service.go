package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"juspatria-backend/models"

	"github.com/google/uuid"
)

// DefaultHistoryLimit is how many interpretations the history keeps
const DefaultHistoryLimit = 20

// DefaultHistoryNamespace is the key the history list is stored under
const DefaultHistoryNamespace = "jurisHistory"

var (
	ErrHistoryItemNotFound = errors.New("history item not found")
	ErrInvalidExportFormat = errors.New("export format must be txt or md")
)

// HistoryStore persists the whole history list of a namespace
type HistoryStore interface {
	Load(ctx context.Context, namespace string) (models.HistoryItems, error)
	Save(ctx context.Context, namespace string, items models.HistoryItems) error
	Clear(ctx context.Context, namespace string) error
}

// HistoryService keeps the capped, newest-first list of past interpretations
type HistoryService struct {
	store     HistoryStore
	namespace string
	limit     int
	now       func() time.Time
	location  *time.Location

	// serializes read-modify-write of the list
	mu sync.Mutex
}

// HistoryServiceOption is a functional option for HistoryService
type HistoryServiceOption func(*HistoryService)

// WithHistoryNamespace sets the storage namespace
func WithHistoryNamespace(namespace string) HistoryServiceOption {
	return func(s *HistoryService) {
		if namespace != "" {
			s.namespace = namespace
		}
	}
}

// WithHistoryLimit sets how many items are kept
func WithHistoryLimit(limit int) HistoryServiceOption {
	return func(s *HistoryService) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// WithHistoryClock sets the clock used for timestamps
func WithHistoryClock(now func() time.Time) HistoryServiceOption {
	return func(s *HistoryService) {
		s.now = now
	}
}

// WithHistoryLocation sets the time zone used for the display date
func WithHistoryLocation(loc *time.Location) HistoryServiceOption {
	return func(s *HistoryService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// NewHistoryService creates a new history service
func NewHistoryService(store HistoryStore, opts ...HistoryServiceOption) *HistoryService {
	s := &HistoryService{
		store:     store,
		namespace: DefaultHistoryNamespace,
		limit:     DefaultHistoryLimit,
		now:       time.Now,
		location:  time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordRequest describes a successful interpretation to remember
type RecordRequest struct {
	Question string
	Source   string
	Result   string
}

// Record prepends a new item and evicts the oldest beyond the limit
func (s *HistoryService) Record(ctx context.Context, req RecordRequest) (*models.HistoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.store.Load(ctx, s.namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	now := s.now()
	item := models.HistoryItem{
		ID:           uuid.NewString(),
		Date:         now.In(s.location).Format(models.HistoryDateLayout),
		Preview:      Preview(req.Question, req.Source),
		UserQuestion: strings.TrimSpace(req.Question),
		Result:       req.Result,
		CreatedAt:    now.UTC(),
	}

	if err := s.store.Save(ctx, s.namespace, items.Prepend(item, s.limit)); err != nil {
		return nil, fmt.Errorf("failed to save history: %w", err)
	}
	return &item, nil
}

// List returns every item, newest first
func (s *HistoryService) List(ctx context.Context) (models.HistoryItems, error) {
	return s.store.Load(ctx, s.namespace)
}

// Get returns one item by id
func (s *HistoryService) Get(ctx context.Context, id string) (*models.HistoryItem, error) {
	items, err := s.store.Load(ctx, s.namespace)
	if err != nil {
		return nil, err
	}
	item, ok := items.Find(id)
	if !ok {
		return nil, ErrHistoryItemNotFound
	}
	return &item, nil
}

// Clear removes every item
func (s *HistoryService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Clear(ctx, s.namespace)
}

// Export is a downloadable copy of a result
type Export struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Export renders the result of item id as a txt or md download
func (s *HistoryService) Export(ctx context.Context, id, format string) (*Export, error) {
	contentType, err := exportContentType(format)
	if err != nil {
		return nil, err
	}

	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return &Export{
		Filename:    ExportFilename(s.now(), format),
		ContentType: contentType,
		Content:     []byte(item.Result),
	}, nil
}

// ExportFilename names an export after the day it was produced
func ExportFilename(at time.Time, format string) string {
	return fmt.Sprintf("JusPatria-Parecer-%s.%s", at.UTC().Format("2006-01-02"), format)
}

func exportContentType(format string) (string, error) {
	switch format {
	case "txt":
		return "text/plain; charset=utf-8", nil
	case "md":
		return "text/markdown; charset=utf-8", nil
	default:
		return "", ErrInvalidExportFormat
	}
}

// Preview is the one-line summary shown in the history list
func Preview(question, source string) string {
	if q := strings.TrimSpace(question); q != "" {
		return "Pergunta: " + q
	}
	if source == "" {
		source = "Documento"
	}
	return "Análise de " + source
}
