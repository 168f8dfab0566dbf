package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"juspatria-backend/interpretation"
	"juspatria-backend/logger"
	"juspatria-backend/models"
	"juspatria-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InterpretationHandler handles HTTP requests for interpretations and history
type InterpretationHandler struct {
	interpretations *service.InterpretationService
	history         *service.HistoryService
	maxInlineBytes  int64
	log             *logger.Logger
}

// NewInterpretationHandler creates a new interpretation handler
func NewInterpretationHandler(
	interpretations *service.InterpretationService,
	history *service.HistoryService,
	maxInlineBytes int64,
	log *logger.Logger,
) *InterpretationHandler {
	if maxInlineBytes <= 0 {
		maxInlineBytes = service.DefaultMaxUploadBytes
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &InterpretationHandler{
		interpretations: interpretations,
		history:         history,
		maxInlineBytes:  maxInlineBytes,
		log:             log,
	}
}

// bodyHeadroom covers the JSON fields around an inline file
const bodyHeadroom = 64 * 1024

// maxBodyBytes bounds a request carrying an inline file of maxInlineBytes,
// which travels base64-encoded.
func (h *InterpretationHandler) maxBodyBytes() int64 {
	return h.maxInlineBytes/3*4 + 4 + bodyHeadroom
}

// InlineFileDTO is a document sent inside the JSON body; Data is base64 on the wire
type InlineFileDTO struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

// InterpretRequestDTO is the body of POST /api/interpretations
type InterpretRequestDTO struct {
	Mode     models.InputMode            `json:"mode"`
	Text     string                      `json:"text"`
	URL      string                      `json:"url"`
	File     *InlineFileDTO              `json:"file"`
	FileID   string                      `json:"file_id"`
	Question string                      `json:"question"`
	Config   models.InterpretationConfig `json:"config"`
}

// BlockHTML holds the rendered fields of a block
type BlockHTML struct {
	Article        string `json:"article,omitempty"`
	Interpretation string `json:"interpretation,omitempty"`
	Jurisprudence  string `json:"jurisprudence,omitempty"`
	Raw            string `json:"raw,omitempty"`
}

// BlockDTO is an analysis block ready for display. Degraded blocks carry only
// the rendered raw segment.
type BlockDTO struct {
	models.AnalysisBlock
	Degraded bool      `json:"degraded"`
	HTML     BlockHTML `json:"html"`
}

func toBlockDTOs(blocks []models.AnalysisBlock) []BlockDTO {
	out := make([]BlockDTO, 0, len(blocks))
	for _, b := range blocks {
		dto := BlockDTO{AnalysisBlock: b, Degraded: b.Degraded()}
		if dto.Degraded {
			dto.HTML.Raw = interpretation.RenderMarkdown(b.Raw)
		} else {
			dto.HTML.Article = interpretation.RenderMarkdown(b.Article)
			dto.HTML.Interpretation = interpretation.RenderMarkdown(b.Interpretation)
			dto.HTML.Jurisprudence = interpretation.RenderMarkdown(b.Jurisprudence)
		}
		out = append(out, dto)
	}
	return out
}

// Interpret handles POST /api/interpretations
func (h *InterpretationHandler) Interpret(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes())

	var dto InterpretRequestDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE",
				fmt.Sprintf("File size exceeds maximum of %d bytes", h.maxInlineBytes))
			return
		}
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	req := service.InterpretRequest{
		Mode:     models.InputMode(strings.ToLower(string(dto.Mode))),
		Text:     dto.Text,
		URL:      dto.URL,
		Question: dto.Question,
		Config:   dto.Config.WithDefaults(),
	}

	if req.Mode == models.InputModeFile {
		switch {
		case dto.File != nil:
			if int64(len(dto.File.Data)) > h.maxInlineBytes {
				respondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE",
					fmt.Sprintf("File size exceeds maximum of %d bytes", h.maxInlineBytes))
				return
			}
			mimeType, err := service.ResolveMimeType(dto.File.Name, dto.File.MimeType)
			if err != nil {
				respondServiceError(c, err, MsgInterpretationFailed)
				return
			}
			req.Attachment = &models.Attachment{Name: dto.File.Name, MimeType: mimeType, Data: dto.File.Data}
		case dto.FileID != "":
			id, err := uuid.Parse(dto.FileID)
			if err != nil {
				respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid file_id format")
				return
			}
			req.FileID = &id
		}
	}

	result, err := h.interpretations.Interpret(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, MsgInterpretationFailed)
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"result":  result.Raw,
		"blocks":  toBlockDTOs(result.Blocks),
		"history": result.History,
	})
}

// ExampleRequestDTO is the body of POST /api/examples
type ExampleRequestDTO struct {
	Article        string `json:"article"`
	Interpretation string `json:"interpretation"`
}

// GenerateExample handles POST /api/examples
func (h *InterpretationHandler) GenerateExample(c *gin.Context) {
	var dto ExampleRequestDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	text, err := h.interpretations.GenerateExample(c.Request.Context(), service.ExampleRequest{
		Article:        dto.Article,
		Interpretation: dto.Interpretation,
	})
	if err != nil {
		respondServiceError(c, err, MsgExampleFailed)
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"example": text,
		"html":    interpretation.RenderMarkdown(text),
	})
}

// Render handles POST /api/render
func (h *InterpretationHandler) Render(c *gin.Context) {
	var body struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	respondOK(c, http.StatusOK, gin.H{"html": interpretation.RenderMarkdown(body.Text)})
}

// ListHistory handles GET /api/history
func (h *InterpretationHandler) ListHistory(c *gin.Context) {
	items, err := h.history.List(c.Request.Context())
	if err != nil {
		h.log.Error("failed to load history", "error", err)
		respondServiceError(c, err, "")
		return
	}
	respondOK(c, http.StatusOK, items)
}

// GetHistoryItem handles GET /api/history/:id
func (h *InterpretationHandler) GetHistoryItem(c *gin.Context) {
	item, err := h.history.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "")
		return
	}
	respondOK(c, http.StatusOK, gin.H{
		"item":   item,
		"blocks": toBlockDTOs(interpretation.Segment(item.Result)),
	})
}

// ExportHistoryItem handles GET /api/history/:id/export
func (h *InterpretationHandler) ExportHistoryItem(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "txt"))
	exp, err := h.history.Export(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		respondServiceError(c, err, "")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", exp.Filename))
	c.Data(http.StatusOK, exp.ContentType, exp.Content)
}

// ClearHistory handles DELETE /api/history
func (h *InterpretationHandler) ClearHistory(c *gin.Context) {
	if err := h.history.Clear(c.Request.Context()); err != nil {
		h.log.Error("failed to clear history", "error", err)
		respondServiceError(c, err, "")
		return
	}
	c.Status(http.StatusNoContent)
}
