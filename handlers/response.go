package handlers

import (
	"errors"
	"net/http"

	"juspatria-backend/service"

	"github.com/gin-gonic/gin"
)

const (
	// MsgInterpretationFailed is the only text shown to users when generation fails
	MsgInterpretationFailed = "Ocorreu um erro ao processar sua solicitação. Verifique se o texto ou arquivo são válidos."
	MsgExampleFailed        = "Erro ao gerar exemplo. Tente novamente."
	MsgBusy                 = "Uma geração já está em andamento. Aguarde a conclusão."
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondServiceError maps service errors to status codes. generic replaces
// backend failure details.
func respondServiceError(c *gin.Context, err error, generic string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	case errors.Is(err, service.ErrBusy):
		respondError(c, http.StatusTooManyRequests, "BUSY", MsgBusy)
	case errors.Is(err, service.ErrBackendUnavailable):
		respondError(c, http.StatusBadGateway, "BACKEND_UNAVAILABLE", generic)
	case errors.Is(err, service.ErrUnusableResponse):
		respondError(c, http.StatusBadGateway, "UNUSABLE_RESPONSE", generic)
	case errors.Is(err, service.ErrFileNotFound):
		respondError(c, http.StatusNotFound, "FILE_NOT_FOUND", "File not found")
	case errors.Is(err, service.ErrFileTooLarge):
		respondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error())
	case errors.Is(err, service.ErrUnsupportedFile):
		respondError(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "File type not allowed. Allowed types: PDF, TXT, MD")
	case errors.Is(err, service.ErrHistoryItemNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "History item not found")
	case errors.Is(err, service.ErrInvalidExportFormat):
		respondError(c, http.StatusBadRequest, "INVALID_FORMAT", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
