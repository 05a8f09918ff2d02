package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"skill-atlas/internal/repository"
)

// DevtoSource finds recent articles tagged with a skill id on dev.to.
type DevtoSource struct {
	client  *http.Client
	apiBase string
}

func NewDevtoSource() *DevtoSource {
	return &DevtoSource{
		client:  &http.Client{Timeout: 25 * time.Second},
		apiBase: "https://dev.to",
	}
}

type devtoArticle struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

func (s *DevtoSource) Name() string { return "dev.to" }

func (s *DevtoSource) Discover(ctx context.Context, skillID string) ([]repository.LearningResource, error) {
	tag := strings.ReplaceAll(strings.TrimSpace(skillID), "-", "")
	if tag == "" {
		return nil, nil
	}

	url := fmt.Sprintf("%s/api/articles?tag=%s&per_page=5&top=30", strings.TrimRight(s.apiBase, "/"), tag)
	body, err := httpGetWithRetry(ctx, s.client, url, 3)
	if err != nil {
		return nil, err
	}

	var articles []devtoArticle
	if err := json.Unmarshal(body, &articles); err != nil {
		return nil, err
	}

	out := make([]repository.LearningResource, 0, len(articles))
	for _, a := range articles {
		title := strings.TrimSpace(a.Title)
		link := strings.TrimSpace(a.URL)
		if title == "" || link == "" {
			continue
		}
		out = append(out, repository.LearningResource{
			Title:  title,
			Type:   "article",
			URL:    link,
			Source: s.Name(),
		})
	}
	return out, nil
}

func httpGetWithRetry(ctx context.Context, client *http.Client, url string, attempts int) ([]byte, error) {
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "SkillAtlasBot/0.1")

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(300*(i+1)) * time.Millisecond)
			continue
		}

		body, err := func() ([]byte, error) {
			defer resp.Body.Close()
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				return nil, fmt.Errorf("status %d", resp.StatusCode)
			}
			return io.ReadAll(io.LimitReader(resp.Body, 5<<20))
		}()
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(300*(i+1)) * time.Millisecond)
			continue
		}
		return body, nil
	}
	return nil, lastErr
}
