package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Provider implements every AI-backed port against the Gemini API:
// screenshot extraction, order optimization, route summary, traffic and
// weather. Each call opens its own client, asks for a strict JSON
// response and decodes it into the call's payload shape.
type Provider struct {
	apiKey string
	model  string
}

func New(apiKey, model string) (*Provider, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini: api key must be non-empty")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("gemini: model must be non-empty")
	}
	return &Provider{apiKey: apiKey, model: model}, nil
}

const maxAttempts = 3

// generateJSON sends one prompt and decodes the model's JSON reply into
// out. Transient failures are retried with a linear backoff; a reply
// that is not valid JSON is not retried, since resending the same
// prompt rarely fixes a malformed answer.
func (p *Provider) generateJSON(ctx context.Context, op string, system string, parts []genai.Part, out any) error {
	cl, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return fmt.Errorf("%s: create client: %w", op, err)
	}
	defer cl.Close()

	m := cl.GenerativeModel(p.model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(system)},
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		resp, err := m.GenerateContent(ctx, parts...)
		if err != nil {
			lastErr = fmt.Errorf("%s: generate: %w", op, err)
			sleepCtx(ctx, time.Duration(attempt)*300*time.Millisecond)
			continue
		}

		txt := firstText(resp)
		if txt == "" {
			return fmt.Errorf("%s: empty model response", op)
		}

		if err := json.Unmarshal([]byte(stripCodeFences(txt)), out); err != nil {
			return fmt.Errorf("%s: bad model JSON: %w", op, err)
		}
		return nil
	}

	return lastErr
}

// firstText returns the first text part of the first candidate.
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				if s := strings.TrimSpace(string(t)); s != "" {
					return s
				}
			}
		}
	}
	return ""
}

// stripCodeFences unwraps ```json ... ``` fencing that models sometimes
// emit despite the JSON response MIME type.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:] // drop the language tag line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func ptrFloat32(v float32) *float32 { return &v }
