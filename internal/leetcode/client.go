package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vytor/leettrack/internal/logger"
	"github.com/vytor/leettrack/internal/models"
)

const DefaultEndpoint = "https://leetcode.com/graphql"

const questionQuery = `query getQuestionDetail($titleSlug: String!) {
  question(titleSlug: $titleSlug) {
    questionId
    title
    content
    difficulty
    topicTags {
      name
      slug
    }
  }
}`

type Client struct {
	httpClient *http.Client
	endpoint   string
	log        *logger.Logger
}

// New returns a client for endpoint; an empty endpoint means DefaultEndpoint.
func New(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
		log:        logger.Default().WithPrefix("leetcode"),
	}
}

type Tag struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Question is the subset of the problem detail the tracker cares about.
type Question struct {
	QuestionID string `json:"questionId"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Difficulty string `json:"difficulty"`
	TopicTags  []Tag  `json:"topicTags"`
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type questionResponse struct {
	Data struct {
		Question *Question `json:"question"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

func (c *Client) FetchQuestion(ctx context.Context, slug string) (*Question, error) {
	log := logger.FromContext(ctx).WithPrefix("leetcode").WithField("slug", slug)
	log.Debug("fetching question detail from: %s", c.endpoint)
	start := time.Now()

	body, err := json.Marshal(graphQLRequest{
		Query:     questionQuery,
		Variables: map[string]any{"titleSlug": slug},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		log.Error("failed to create request: %v", err)
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Referer", models.ProblemURL(slug))
	req.Header.Set("Origin", "https://leetcode.com")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("failed to fetch question: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	log.Debug("question response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("question request failed: status=%d, body=%s", resp.StatusCode, string(b))
		return nil, fmt.Errorf("question status %d: %s", resp.StatusCode, string(b))
	}

	var out questionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Error("failed to decode question response: %v", err)
		return nil, err
	}
	if len(out.Errors) > 0 {
		log.Error("graphql errors: %v", out.Errors)
		return nil, fmt.Errorf("graphql error: %s", out.Errors[0].Message)
	}
	if out.Data.Question == nil {
		return nil, fmt.Errorf("no question found for slug %q", slug)
	}

	log.Info("fetched question %s (%s)", out.Data.Question.Title, out.Data.Question.Difficulty)
	return out.Data.Question, nil
}
