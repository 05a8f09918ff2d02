package proposer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"time"

	"github.com/cenkalti/backoff/v4"

	"skill-atlas/internal/config"
	"skill-atlas/internal/domain/skilltree"
)

var (
	ErrNotConfigured   = errors.New("proposer not configured")
	ErrQuotaExceeded   = errors.New("proposer quota exceeded")
	ErrMalformedOutput = errors.New("proposer returned malformed output")
)

const promptTemplate = `Create a skill tree of tech (software, hardware, and soft skills should be the first nodes with other nodes following them) for the resume attached to this prompt. The graph should also include a few skills that aren't reached yet by this resume and that would be beneficial for users to have.

Resume:
%s

Please respond with a JSON object in this exact format:
{
  "nodes": [
    {
      "id": "unique-skill-id",
      "name": "Skill Name",
      "category": "software|hardware|soft",
      "earned": true|false,
      "prerequisites": ["prerequisite-skill-id"],
      "description": "Brief description"
    }
  ],
  "connections": [
    { "from": "prerequisite-id", "to": "dependent-skill-id" }
  ]
}

Rules:
1. Include 3 main category nodes: "software", "hardware", "soft-skills"
2. Mark skills as "earned: true" if they appear in the resume
3. Mark skills as "earned: false" for future skill available to be acquired
4. Future skill should be specific, and have at least two layers of nodes above each top earned skill(some not earned skills should have prerequisites of other not earned skills node)
5. Include realistic prerequisites and connections
6. Aim for 15-25 total skill nodes
7. Use kebab-case for IDs (e.g., "machine-learning", "project-management")
8. Only return valid JSON, no additional text
9. Aim to have number of beneficial skills not yet acquired to be 2 times than existing skills
10. DO NOT include a "mastered" field unless the resume shows 5+ years of experience or leadership/expert level work in that specific skill. Most earned skills should NOT have mastered field at all.`

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"response_mime_type,omitempty"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}

// Gemini asks the generative-language API for a skill graph proposal.
// Transient API failures are retried with exponential backoff; quota
// exhaustion is surfaced so the caller can fall back.
type Gemini struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	logger     *log.Logger
}

func NewGemini(cfg config.GeminiConfig, logger *log.Logger) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent", cfg.Model)
	}

	return &Gemini{
		apiKey:     cfg.APIKey,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
	}, nil
}

func (g *Gemini) ProposeGraph(ctx context.Context, resumeText string) (skilltree.SkillGraph, error) {
	raw, err := g.generate(ctx, fmt.Sprintf(promptTemplate, resumeText))
	if err != nil {
		return skilltree.SkillGraph{}, err
	}

	jsonText, ok := extractJSONObject(raw)
	if !ok {
		return skilltree.SkillGraph{}, ErrMalformedOutput
	}

	var graph skilltree.SkillGraph
	if err := json.Unmarshal([]byte(jsonText), &graph); err != nil {
		return skilltree.SkillGraph{}, ErrMalformedOutput
	}
	if len(graph.Nodes) == 0 {
		return skilltree.SkillGraph{}, ErrMalformedOutput
	}
	return graph, nil
}

func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	payload := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:      0.2,
			ResponseMimeType: "application/json",
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 90 * time.Second
	b.MaxInterval = 20 * time.Second

	var out string
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", g.apiKey)

		resp, err := g.httpClient.Do(req)
		if err != nil {
			if g.logger != nil {
				g.logger.Printf("[Proposer] request failed, retrying | error=%v", err)
			}
			return err
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode != http.StatusOK {
			return g.apiError(resp.StatusCode, respBody)
		}

		var parsed geminiResponse
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			return backoff.Permanent(ErrMalformedOutput)
		}
		if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
			return backoff.Permanent(ErrMalformedOutput)
		}

		out = parsed.Candidates[0].Content.Parts[0].Text
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return "", err
	}
	return out, nil
}

func (g *Gemini) apiError(statusCode int, body []byte) error {
	if g.logger != nil {
		g.logger.Printf("[Proposer] API error | status=%d body=%s", statusCode, truncate(string(body), 300))
	}
	switch statusCode {
	case http.StatusTooManyRequests:
		return backoff.Permanent(ErrQuotaExceeded)
	case http.StatusServiceUnavailable, http.StatusInternalServerError:
		return fmt.Errorf("gemini API error: status %d", statusCode)
	default:
		return backoff.Permanent(fmt.Errorf("gemini API error: status %d", statusCode))
	}
}

var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// extractJSONObject tolerates prose or markdown fences around the JSON
// body the model was asked to return.
func extractJSONObject(s string) (string, bool) {
	m := jsonObjectRe.FindString(s)
	if m == "" {
		return "", false
	}
	return m, true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
