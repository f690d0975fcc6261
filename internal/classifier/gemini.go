package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/domain"
)

const systemInstruction = `You are an expert complaint classifier.
Analyze the user's complaint (text and optional image) and determine:
1. Category: One of [Hardware, Software, Network, Facilities, Human Resources, Finance, Others]
2. Priority: One of [Low, Medium, High, Critical]
3. Assigned Department: Suggest the most relevant department for routing.
4. Reasoning: A brief explanation of why you chose this classification.

Be precise and objective. Return the output in JSON format.`

// Gemini calls the Google generative language API to classify complaints.
type Gemini struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

// NewGemini constructs the backend. The request timeout is enforced by the
// HTTP client; on expiry Classify returns a transient error.
func NewGemini(cfg config.ClassifierConfig, logger *zap.Logger) *Gemini {
	return &Gemini{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		client:  &http.Client{Timeout: cfg.RequestTimeout()},
		logger:  logger,
	}
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction geminiContent          `json:"system_instruction"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string          `json:"responseMimeType"`
	ResponseSchema   json.RawMessage `json:"responseSchema"`
}

var responseSchema = json.RawMessage(`{
  "type": "OBJECT",
  "properties": {
    "category": {"type": "STRING"},
    "priority": {"type": "STRING"},
    "assignedDepartment": {"type": "STRING"},
    "reasoning": {"type": "STRING"}
  },
  "required": ["category", "priority", "assignedDepartment", "reasoning"]
}`)

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// classificationPayload mirrors the schema the model is instructed to emit.
// Pointer fields distinguish missing keys from empty strings.
type classificationPayload struct {
	Category           *string `json:"category"`
	Priority           *string `json:"priority"`
	AssignedDepartment *string `json:"assignedDepartment"`
	Reasoning          *string `json:"reasoning"`
}

// Classify sends the complaint to the model and validates the response shape.
func (g *Gemini) Classify(ctx context.Context, input Input) (*domain.Classification, error) {
	parts := []geminiPart{{Text: input.Text}}
	if input.Image != nil {
		parts = append(parts, geminiPart{InlineData: &geminiInlineData{
			MimeType: input.Image.MimeType,
			Data:     input.Image.Data,
		}})
	}

	payload := geminiRequest{
		SystemInstruction: geminiContent{Parts: []geminiPart{{Text: systemInstruction}}},
		Contents:          []geminiContent{{Parts: parts}},
		GenerationConfig: geminiGenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   responseSchema,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, newError(KindMalformed, "encode request", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, newError(KindTransient, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, newError(KindTransient, "request canceled", err)
		}
		return nil, newError(KindTransient, "request failed", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, newError(KindTransient, "read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		g.logger.Warn("classifier backend returned error status",
			zap.Int("status", resp.StatusCode))
		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return nil, newError(KindAuth, fmt.Sprintf("status %d", resp.StatusCode), nil)
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return nil, newError(KindTransient, fmt.Sprintf("status %d", resp.StatusCode), nil)
		default:
			return nil, newError(KindMalformed, fmt.Sprintf("status %d", resp.StatusCode), nil)
		}
	}

	var envelope geminiResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, newError(KindMalformed, "decode response envelope", err)
	}
	if len(envelope.Candidates) == 0 || len(envelope.Candidates[0].Content.Parts) == 0 {
		return nil, newError(KindMalformed, "response has no candidates", nil)
	}

	var fields classificationPayload
	text := envelope.Candidates[0].Content.Parts[0].Text
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return nil, newError(KindMalformed, "decode classification payload", err)
	}
	if fields.Category == nil || fields.Priority == nil ||
		fields.AssignedDepartment == nil || fields.Reasoning == nil {
		return nil, newError(KindMalformed, "classification payload missing required fields", nil)
	}

	return &domain.Classification{
		Category:           *fields.Category,
		Priority:           *fields.Priority,
		AssignedDepartment: *fields.AssignedDepartment,
		Reasoning:          *fields.Reasoning,
	}, nil
}
