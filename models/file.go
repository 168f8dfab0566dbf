package models

import (
	"time"

	"github.com/google/uuid"
)

// File represents an uploaded document kept for later interpretation
type File struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	MimeType    string    `json:"mime_type"`
	Size        int64     `json:"size"`
	StoragePath string    `json:"storage_path"`
	CreatedAt   time.Time `json:"created_at"`
}

// Attachment is a binary payload sent inline to the generation backend
type Attachment struct {
	Name     string
	MimeType string
	Data     []byte
}

// GenerationRequest is everything the generation backend receives for one call
type GenerationRequest struct {
	SystemInstruction string
	Prompt            string
	Attachment        *Attachment
	// GroundingURL asks the backend to fetch and ground on public web content
	GroundingURL string
	Temperature  float32
}
