package domain

// ============================================================
// Generative AI: request/response shapes
// ============================================================

// SchemaType mirrors the OpenAPI subset accepted by the model's
// responseSchema field.
type SchemaType string

const (
	SchemaObject  SchemaType = "OBJECT"
	SchemaString  SchemaType = "STRING"
	SchemaBoolean SchemaType = "BOOLEAN"
)

// Schema constrains the shape of a JSON response.
type Schema struct {
	Type        SchemaType         `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// GenerateRequest is a single-turn prompt sent to the content model.
type GenerateRequest struct {
	Prompt string

	// ResponseMIMEType is "application/json" when a constrained JSON answer
	// is expected; empty for free text.
	ResponseMIMEType string
	ResponseSchema   *Schema
}

// GenerateResponse is the model's text answer plus token accounting.
type GenerateResponse struct {
	Text  string
	Usage TokenUsage
}

// TokenUsage tracks model token consumption for cost monitoring.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// PayeeProfile is the JSON shape the model is asked to fill when
// resolving a scanned identifier. IsVerified is nullable so an omitted
// field can be told apart from an explicit false.
type PayeeProfile struct {
	NormalizedID string `json:"normalizedId"`
	Name         string `json:"name"`
	BankName     string `json:"bankName"`
	IsVerified   *bool  `json:"isVerified"`
	Category     string `json:"category"`
}

// CameraConstraints describes the requested capture stream.
type CameraConstraints struct {
	FacingMode string `json:"facingMode"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

// RearCamera is the stream requested by the scanner.
var RearCamera = CameraConstraints{FacingMode: "environment", Width: 1080, Height: 1920}
