package genai

import (
	"strings"

	"github.com/boddenberg/upi-wallet-bfa-go/internal/domain"
)

// Wire shapes of the generateContent endpoint.

type wirePart struct {
	Text string `json:"text"`
}

type wireContent struct {
	Role  string     `json:"role,omitempty"`
	Parts []wirePart `json:"parts"`
}

type wireGenerationConfig struct {
	ResponseMIMEType string         `json:"responseMimeType,omitempty"`
	ResponseSchema   *domain.Schema `json:"responseSchema,omitempty"`
}

type wireRequest struct {
	Contents         []wireContent         `json:"contents"`
	GenerationConfig *wireGenerationConfig `json:"generationConfig,omitempty"`
}

type wireResponse struct {
	Candidates []struct {
		Content wireContent `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

func newWireRequest(req *domain.GenerateRequest) wireRequest {
	wr := wireRequest{
		Contents: []wireContent{{Role: "user", Parts: []wirePart{{Text: req.Prompt}}}},
	}
	if req.ResponseMIMEType != "" || req.ResponseSchema != nil {
		wr.GenerationConfig = &wireGenerationConfig{
			ResponseMIMEType: req.ResponseMIMEType,
			ResponseSchema:   req.ResponseSchema,
		}
	}
	return wr
}

// text concatenates the parts of the first candidate.
func (r wireResponse) text() (string, bool) {
	if len(r.Candidates) == 0 {
		return "", false
	}
	var b strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String(), true
}
