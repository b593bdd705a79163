// Copyright 2025 MarketLens Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/marketlens/marketlens/core"
	"github.com/marketlens/marketlens/suggest"
)

// Suggester implements suggest.Suggester using OpenAI-compatible chat APIs.
type Suggester struct {
	client llms.Model
	logger *slog.Logger
}

// suggestion is an internal type used for JSON unmarshaling.
// It matches the structure expected from the LLM.
type suggestion struct {
	Product string `json:"product"`
	Reason  string `json:"reason"`
}

// response is the wrapper structure for the LLM's JSON response.
type response struct {
	Alternatives []suggestion `json:"alternatives"`
}

// newSuggester is an internal constructor that returns the concrete type.
func newSuggester(config *suggest.Config) (*Suggester, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken("none"),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	return &Suggester{
		client: client,
		logger: slog.Default().With("component", "openai-suggester"),
	}, nil
}

// NewSuggester creates a new LLM-backed suggester using the provided configuration.
//
// Returns suggest.Suggester interface to enforce abstraction.
func NewSuggester(config *suggest.Config) (suggest.Suggester, error) {
	return newSuggester(config)
}

// Suggest asks the model for up to n catalog products comparable to the query.
// Suggestions naming products outside the candidate list are discarded.
func (s *Suggester) Suggest(ctx context.Context, query string, candidates []string, n int) ([]core.Suggestion, error) {
	if n <= 0 || len(candidates) == 0 {
		return []core.Suggestion{}, nil
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildSystemPrompt(candidates, n)),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(query),
			},
		},
	}

	// Candidate lookup for post-hoc validation of model output.
	allowed := make(map[string]string, len(candidates))
	for _, c := range candidates {
		allowed[strings.ToLower(strings.TrimSpace(c))] = c
	}

	// Try up to 3 times in case of malformed JSON
	var result response
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		resp, err := s.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			s.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(resp.Choices) < 1 {
			s.logger.Debug("no choices returned from model")
			return []core.Suggestion{}, nil
		}

		responseText := stripCodeFences(resp.Choices[0].Content)
		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			s.logger.Warn("error parsing suggester response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		s.logger.Error("failed to parse suggester response after retries", "err", lastErr)
		return nil, lastErr
	}

	suggestions := make([]core.Suggestion, 0, n)
	for _, alt := range result.Alternatives {
		canonical, ok := allowed[strings.ToLower(strings.TrimSpace(alt.Product))]
		if !ok {
			s.logger.Debug("dropping suggestion outside candidate list", "product", alt.Product)
			continue
		}
		suggestions = append(suggestions, core.Suggestion{
			Name:   canonical,
			Reason: alt.Reason,
		})
		if len(suggestions) == n {
			break
		}
	}
	return suggestions, nil
}

// stripCodeFences removes markdown code fences some models wrap around JSON.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
