// Package ai pulls generated questions from an external generator service.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-bank/internal/question"
)

const defaultDifficulty = "medium"

// Config holds connection details for the generator service.
type Config struct {
	GeneratorURL string
	GeneratorKey string
	Category     string
	Timeout      time.Duration
}

// Generator implements question.Source against a POST /generate endpoint.
type Generator struct {
	httpClient  *http.Client
	config      Config
	logger      zerolog.Logger
	generateURL string
}

var _ question.Source = (*Generator)(nil)

func NewGenerator(cfg Config, logger zerolog.Logger) *Generator {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 6 * time.Second
	}
	if cfg.Category == "" {
		cfg.Category = "General Knowledge"
	}

	return &Generator{
		httpClient:  &http.Client{Timeout: timeout},
		config:      cfg,
		logger:      logger.With().Str("component", "ai_generator").Logger(),
		generateURL: strings.TrimSuffix(cfg.GeneratorURL, "/") + "/generate",
	}
}

func (g *Generator) Name() string { return "generator" }

// Fetch requests amount generated questions for the configured category.
func (g *Generator) Fetch(ctx context.Context, amount int) ([]question.ImportedQuestion, error) {
	if g.config.GeneratorURL == "" {
		return nil, fmt.Errorf("generator endpoint not configured")
	}
	if amount <= 0 {
		return nil, nil
	}

	body, err := json.Marshal(generatorRequest{Category: g.config.Category, Count: amount})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.generateURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.config.GeneratorKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.config.GeneratorKey)
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("generator returned status %d", resp.StatusCode)
	}

	var genResp generatorResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, fmt.Errorf("decode generator payload: %w", err)
	}
	if len(genResp.Questions) == 0 {
		return nil, fmt.Errorf("generator returned empty question set")
	}

	out := make([]question.ImportedQuestion, 0, len(genResp.Questions))
	for _, q := range genResp.Questions {
		out = append(out, g.normalize(q))
	}
	g.logger.Debug().Int("requested", amount).Int("received", len(out)).Msg("generated questions received")
	return out, nil
}

func (g *Generator) normalize(q aiQuestion) question.ImportedQuestion {
	category := strings.TrimSpace(q.Category)
	if category == "" {
		category = g.config.Category
	}
	difficulty := q.Difficulty
	if difficulty == "" {
		difficulty = defaultDifficulty
	}
	return question.ImportedQuestion{
		Category:   category,
		Prompt:     q.Prompt,
		Answer:     q.Answer,
		Difficulty: question.DifficultyFromLabel(difficulty),
	}
}

type generatorRequest struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type aiQuestion struct {
	Prompt     string `json:"prompt"`
	Answer     string `json:"answer"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}

type generatorResponse struct {
	Questions []aiQuestion `json:"questions"`
}
