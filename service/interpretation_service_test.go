package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"juspatria-backend/gemini"
	"juspatria-backend/models"
	"juspatria-backend/repository"
	"juspatria-backend/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = "> 🏛️ **ARTIGO EM QUESTÃO:**\nArt. 5º, XI da CF.\n\n" +
	"> ⚖️ **INTERPRETAÇÃO:**\nA casa é asilo inviolável.\n\n" +
	"> 🏛️ **JURISPRUDÊNCIA STF/STJ:**\nTema 280.\n\n---\n\n" +
	"> 🏛️ **ARTIGO EM QUESTÃO:**\nArt. 6º da CF.\n\n" +
	"> ⚖️ **INTERPRETAÇÃO:**\nDireitos sociais.\n\n" +
	"> 🏛️ **JURISPRUDÊNCIA STF/STJ:**\nNão há súmula.\n"

type mockGenerator struct {
	mu       sync.Mutex
	out      string
	err      error
	requests []models.GenerationRequest
	ctxErrs  []error

	// when set, Generate blocks until release is closed
	started chan struct{}
	release chan struct{}
}

func (m *mockGenerator) Generate(ctx context.Context, req models.GenerationRequest) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.release != nil {
		close(m.started)
		<-m.release
	}

	m.mu.Lock()
	m.ctxErrs = append(m.ctxErrs, ctx.Err())
	m.mu.Unlock()
	return m.out, m.err
}

func (m *mockGenerator) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

type mockAttachments struct {
	att *models.Attachment
	err error
}

func (m *mockAttachments) Attachment(_ context.Context, _ uuid.UUID) (*models.Attachment, error) {
	return m.att, m.err
}

func newService(t *testing.T, gen service.Generator, opts ...service.InterpretationServiceOption) (*service.InterpretationService, *service.HistoryService) {
	t.Helper()
	history := service.NewHistoryService(repository.NewMemoryHistoryStore())
	opts = append([]service.InterpretationServiceOption{
		service.InterpretWithGenerator(gen),
		service.InterpretWithHistory(history),
	}, opts...)
	svc, err := service.NewInterpretationService(opts...)
	require.NoError(t, err)
	return svc, history
}

func textRequest(text string) service.InterpretRequest {
	return service.InterpretRequest{
		Mode:   models.InputModeText,
		Text:   text,
		Config: models.DefaultInterpretationConfig(),
	}
}

func TestInterpret_TextSegmentsAndRecords(t *testing.T) {
	gen := &mockGenerator{out: sampleResponse}
	svc, history := newService(t, gen)

	res, err := svc.Interpret(context.Background(), service.InterpretRequest{
		Mode:     models.InputModeText,
		Text:     "Art. 5º XI - a casa é asilo inviolável do indivíduo",
		Question: "Posso ser revistado em casa?",
		Config:   models.DefaultInterpretationConfig(),
	})
	require.NoError(t, err)

	assert.Equal(t, sampleResponse, res.Raw)
	require.Len(t, res.Blocks, 2)
	assert.Equal(t, "Art. 5º, XI da CF.", res.Blocks[0].Article)
	assert.Equal(t, "Direitos sociais.", res.Blocks[1].Interpretation)

	require.NotNil(t, res.History)
	assert.Equal(t, "Pergunta: Posso ser revistado em casa?", res.History.Preview)
	assert.Equal(t, sampleResponse, res.History.Result)

	items, err := history.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, res.History.ID, items[0].ID)

	require.Len(t, gen.requests, 1)
	req := gen.requests[0]
	assert.InDelta(t, 0.2, req.Temperature, 1e-6)
	assert.Contains(t, req.SystemInstruction, "DIRETRIZES PARA LEIGOS")
	assert.Contains(t, req.Prompt, "PERGUNTA PRIORITÁRIA DO USUÁRIO")
	assert.True(t, strings.HasSuffix(req.Prompt, "asilo inviolável do indivíduo"))
	assert.Nil(t, req.Attachment)
	assert.Empty(t, req.GroundingURL)
}

func TestInterpret_URLUsesGrounding(t *testing.T) {
	gen := &mockGenerator{out: sampleResponse}
	svc, _ := newService(t, gen)

	res, err := svc.Interpret(context.Background(), service.InterpretRequest{
		Mode:   models.InputModeURL,
		URL:    "https://www.planalto.gov.br/ccivil_03/leis/l8078.htm",
		Config: models.DefaultInterpretationConfig(),
	})
	require.NoError(t, err)

	req := gen.requests[0]
	assert.Equal(t, "https://www.planalto.gov.br/ccivil_03/leis/l8078.htm", req.GroundingURL)
	assert.Contains(t, req.Prompt, "Acesse e analise o conteúdo legal na URL")
	assert.Equal(t, "Análise de URL Externa", res.History.Preview)
}

func TestInterpret_InlineAttachment(t *testing.T) {
	gen := &mockGenerator{out: sampleResponse}
	svc, _ := newService(t, gen)

	att := &models.Attachment{Name: "lei.pdf", MimeType: "application/pdf", Data: []byte("%PDF-1.4")}
	res, err := svc.Interpret(context.Background(), service.InterpretRequest{
		Mode:       models.InputModeFile,
		Attachment: att,
		Config:     models.DefaultInterpretationConfig(),
	})
	require.NoError(t, err)

	req := gen.requests[0]
	assert.Same(t, att, req.Attachment)
	assert.True(t, strings.HasPrefix(req.Prompt, "INSTRUÇÃO: Analise o seguinte texto jurídico"))
	assert.Equal(t, "Análise de Arquivo: lei.pdf", res.History.Preview)
}

func TestInterpret_UploadedFile(t *testing.T) {
	gen := &mockGenerator{out: sampleResponse}
	source := &mockAttachments{att: &models.Attachment{Name: "codigo.txt", MimeType: "text/plain", Data: []byte("Art. 1")}}
	svc, _ := newService(t, gen, service.InterpretWithAttachments(source))

	id := uuid.New()
	res, err := svc.Interpret(context.Background(), service.InterpretRequest{
		Mode:   models.InputModeFile,
		FileID: &id,
		Config: models.DefaultInterpretationConfig(),
	})
	require.NoError(t, err)
	assert.Equal(t, "text/plain", gen.requests[0].Attachment.MimeType)
	assert.Equal(t, "Análise de Arquivo: codigo.txt", res.History.Preview)
}

func TestInterpret_UploadedFileNotFound(t *testing.T) {
	gen := &mockGenerator{out: sampleResponse}
	source := &mockAttachments{err: service.ErrFileNotFound}
	svc, _ := newService(t, gen, service.InterpretWithAttachments(source))

	id := uuid.New()
	_, err := svc.Interpret(context.Background(), service.InterpretRequest{
		Mode:   models.InputModeFile,
		FileID: &id,
		Config: models.DefaultInterpretationConfig(),
	})
	assert.ErrorIs(t, err, service.ErrFileNotFound)
	assert.Zero(t, gen.calls())
}

func TestInterpret_Validation(t *testing.T) {
	cfg := models.DefaultInterpretationConfig()
	tests := []struct {
		name string
		req  service.InterpretRequest
	}{
		{"short text", service.InterpretRequest{Mode: models.InputModeText, Text: "Art. 5º CF", Config: cfg}},
		{"blank text", service.InterpretRequest{Mode: models.InputModeText, Text: "              ", Config: cfg}},
		{"short url", service.InterpretRequest{Mode: models.InputModeURL, URL: "a.br", Config: cfg}},
		{"relative url", service.InterpretRequest{Mode: models.InputModeURL, URL: "planalto.gov.br/lei", Config: cfg}},
		{"ftp url", service.InterpretRequest{Mode: models.InputModeURL, URL: "ftp://planalto.gov.br/lei", Config: cfg}},
		{"missing file", service.InterpretRequest{Mode: models.InputModeFile, Config: cfg}},
		{"empty file", service.InterpretRequest{Mode: models.InputModeFile, Attachment: &models.Attachment{Name: "a.pdf"}, Config: cfg}},
		{"unknown mode", service.InterpretRequest{Mode: "audio", Text: "Art. 5º da Constituição", Config: cfg}},
		{"bad config", service.InterpretRequest{Mode: models.InputModeText, Text: "Art. 5º da Constituição", Config: models.InterpretationConfig{Audience: "robot"}.WithDefaults()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &mockGenerator{out: sampleResponse}
			svc, _ := newService(t, gen)

			_, err := svc.Interpret(context.Background(), tt.req)
			assert.ErrorIs(t, err, service.ErrInvalidInput)
			assert.Zero(t, gen.calls())
		})
	}
}

func TestInterpret_ElevenCharacterTextIsAccepted(t *testing.T) {
	gen := &mockGenerator{out: sampleResponse}
	svc, _ := newService(t, gen)

	_, err := svc.Interpret(context.Background(), textRequest("Art. 5º, CF"))
	require.NoError(t, err)
}

func TestInterpret_BackendFailureIsNotRecorded(t *testing.T) {
	gen := &mockGenerator{err: errors.New("503 service unavailable")}
	svc, history := newService(t, gen)

	_, err := svc.Interpret(context.Background(), textRequest("Art. 5º da Constituição Federal"))
	assert.ErrorIs(t, err, service.ErrBackendUnavailable)

	items, err := history.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestInterpret_UnusableResponse(t *testing.T) {
	for name, gen := range map[string]*mockGenerator{
		"empty sentinel": {err: fmt.Errorf("wrapped: %w", gemini.ErrEmptyResponse)},
		"blank text":     {out: "  \n "},
	} {
		t.Run(name, func(t *testing.T) {
			svc, history := newService(t, gen)

			_, err := svc.Interpret(context.Background(), textRequest("Art. 5º da Constituição Federal"))
			assert.ErrorIs(t, err, service.ErrUnusableResponse)

			items, _ := history.List(context.Background())
			assert.Empty(t, items)
		})
	}
}

func TestInterpret_BusyGuard(t *testing.T) {
	gen := &mockGenerator{
		out:     sampleResponse,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc, _ := newService(t, gen)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Interpret(context.Background(), textRequest("Art. 5º da Constituição Federal"))
		done <- err
	}()
	<-gen.started

	_, err := svc.Interpret(context.Background(), textRequest("Art. 6º da Constituição Federal"))
	assert.ErrorIs(t, err, service.ErrBusy)

	close(gen.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, gen.calls())
}

func TestInterpret_GenerationSurvivesCallerCancellation(t *testing.T) {
	gen := &mockGenerator{
		out:     sampleResponse,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc, history := newService(t, gen)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := svc.Interpret(ctx, textRequest("Art. 5º da Constituição Federal"))
		done <- err
	}()
	<-gen.started
	cancel()
	close(gen.release)

	require.NoError(t, <-done)
	assert.NoError(t, gen.ctxErrs[0])

	items, _ := history.List(context.Background())
	assert.Len(t, items, 1)
}

func TestInterpret_ExampleGuardIsIndependent(t *testing.T) {
	gen := &mockGenerator{
		out:     sampleResponse,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc, _ := newService(t, gen)

	done := make(chan error, 1)
	go func() {
		_, err := svc.GenerateExample(context.Background(), service.ExampleRequest{Article: "Art. 5º", Interpretation: "Casa inviolável"})
		done <- err
	}()
	<-gen.started

	_, err := svc.GenerateExample(context.Background(), service.ExampleRequest{Article: "Art. 6º", Interpretation: "Direitos sociais"})
	assert.ErrorIs(t, err, service.ErrBusy)

	close(gen.release)
	require.NoError(t, <-done)
}

func TestGenerateExample_CachedByContext(t *testing.T) {
	gen := &mockGenerator{out: "João alugou um apartamento..."}
	svc, history := newService(t, gen)

	req := service.ExampleRequest{Article: "Art. 5º, XI", Interpretation: "A casa é asilo inviolável."}
	first, err := svc.GenerateExample(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.GenerateExample(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Equal(t, 1, gen.calls())

	sent := gen.requests[0]
	assert.InDelta(t, 0.7, sent.Temperature, 1e-6)
	assert.Empty(t, sent.SystemInstruction)
	assert.Contains(t, sent.Prompt, "\"Art. 5º, XI\nA casa é asilo inviolável.\"")

	items, _ := history.List(context.Background())
	assert.Empty(t, items)
}

func TestGenerateExample_RequiresContext(t *testing.T) {
	gen := &mockGenerator{out: "x"}
	svc, _ := newService(t, gen)

	_, err := svc.GenerateExample(context.Background(), service.ExampleRequest{Article: " ", Interpretation: ""})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Zero(t, gen.calls())
}

func TestGenerateExample_FailureIsNotCached(t *testing.T) {
	gen := &mockGenerator{err: errors.New("timeout")}
	svc, _ := newService(t, gen)

	req := service.ExampleRequest{Article: "Art. 5º", Interpretation: "Casa"}
	_, err := svc.GenerateExample(context.Background(), req)
	assert.ErrorIs(t, err, service.ErrBackendUnavailable)

	gen.err = nil
	gen.out = "Maria..."
	text, err := svc.GenerateExample(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Maria...", text)
	assert.Equal(t, 2, gen.calls())
}

func TestNewInterpretationService_RequiresGenerator(t *testing.T) {
	svc, err := service.NewInterpretationService()
	require.NoError(t, err)

	_, err = svc.Interpret(context.Background(), textRequest("Art. 5º da Constituição Federal"))
	assert.ErrorIs(t, err, service.ErrGeneratorMissing)
}
