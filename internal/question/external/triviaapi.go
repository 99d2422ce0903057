package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gokatarajesh/trivia-bank/internal/question"
)

// TriviaAPIClient integrates with the-trivia-api.com (optional key in TRIVIA_API_KEY).
type TriviaAPIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ question.Source = (*TriviaAPIClient)(nil)

func NewTriviaAPIClient(baseURL, apiKey string, httpClient *http.Client) *TriviaAPIClient {
	if baseURL == "" {
		baseURL = "https://the-trivia-api.com/v2"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &TriviaAPIClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type TriviaAPIQuestion struct {
	ID         string            `json:"id"`
	Category   string            `json:"category"`
	Question   triviaAPIQuestion `json:"question"`
	Difficulty string            `json:"difficulty"`
	Correct    string            `json:"correctAnswer"`
	Incorrect  []string          `json:"incorrectAnswers"`
}

type triviaAPIQuestion struct {
	Text string `json:"text"`
}

func (c *TriviaAPIClient) Name() string { return "triviaapi" }

func (c *TriviaAPIClient) Fetch(ctx context.Context, amount int) ([]question.ImportedQuestion, error) {
	if amount <= 0 {
		return nil, nil
	}

	values := url.Values{}
	values.Set("limit", fmt.Sprint(amount))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/questions?%s", c.baseURL, values.Encode()), nil)
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("triviaapi non-200: %d", resp.StatusCode)
	}

	var payload []TriviaAPIQuestion
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	out := make([]question.ImportedQuestion, 0, len(payload))
	for _, q := range payload {
		out = append(out, question.ImportedQuestion{
			Category:   categoryLabel(q.Category),
			Prompt:     q.Question.Text,
			Answer:     q.Correct,
			Difficulty: question.DifficultyFromLabel(q.Difficulty),
		})
	}
	return out, nil
}

// categoryLabel turns slugs like "film_and_tv" into "Film And Tv".
func categoryLabel(slug string) string {
	words := strings.Fields(strings.NewReplacer("_", " ", "-", " ").Replace(slug))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
