package resources

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"skill-atlas/internal/repository"
)

// GithubTopicSource scrapes the public topic page for a skill id and
// collects the highlighted repositories as study material.
type GithubTopicSource struct {
	baseURL string
	limit   int
}

func NewGithubTopicSource() *GithubTopicSource {
	return &GithubTopicSource{
		baseURL: "https://github.com",
		limit:   5,
	}
}

func (s *GithubTopicSource) Name() string { return "github" }

func (s *GithubTopicSource) Discover(ctx context.Context, skillID string) ([]repository.LearningResource, error) {
	topic := strings.TrimSpace(skillID)
	if topic == "" {
		return nil, nil
	}

	c := colly.NewCollector(colly.AllowedDomains("github.com"))
	_ = c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: 1, Delay: 450 * time.Millisecond})

	items := make([]repository.LearningResource, 0, s.limit)
	dedup := map[string]struct{}{}

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "SkillAtlasBot/0.1")
	})

	c.OnHTML("article h3 a[href]", func(e *colly.HTMLElement) {
		if len(items) >= s.limit {
			return
		}
		href := strings.TrimSpace(e.Attr("href"))
		if href == "" {
			return
		}
		abs := e.Request.AbsoluteURL(href)
		if _, ok := dedup[abs]; ok {
			return
		}
		dedup[abs] = struct{}{}

		title := strings.Join(strings.Fields(e.Text), " ")
		if title == "" {
			title = strings.TrimPrefix(href, "/")
		}
		items = append(items, repository.LearningResource{
			Title:  title,
			Type:   "repository",
			URL:    abs,
			Source: s.Name(),
		})
	})

	var reqErr error
	c.OnError(func(r *colly.Response, err error) {
		reqErr = err
	})

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err := c.Visit(fmt.Sprintf("%s/topics/%s", s.baseURL, topic)); err != nil {
		return nil, err
	}
	c.Wait()
	if reqErr != nil {
		return nil, reqErr
	}
	return items, nil
}
