// Copyright 2025 Poiesic Systems
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
	"log/slog"
	"strings"

	"github.com/poiesic/docquery/ai"
	"github.com/poiesic/docquery/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	noDocumentEvidence = "I couldn't find relevant information in your documents for this query."
	noWebEvidence      = "I couldn't find relevant information on the web for this query."
	emptyGeneration    = "I apologize, but I couldn't generate a response."
)

// Answerer implements ai.Answerer using OpenAI-compatible chat APIs.
type Answerer struct {
	client llms.Model
	logger *slog.Logger
}

// newAnswerer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newAnswerer(config *ai.Config) (*Answerer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for chat
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.AnswerHost),
		openai.WithToken("none"),
		openai.WithModel(config.AnswerModel),
	)
	if err != nil {
		return nil, err
	}

	return &Answerer{
		client: client,
		logger: slog.Default().With("component", "openai-answerer"),
	}, nil
}

// NewAnswerer creates a new answerer using the provided configuration.
//
// Returns ai.Answerer interface to enforce abstraction.
func NewAnswerer(config *ai.Config) (ai.Answerer, error) {
	return newAnswerer(config)
}

// Answer synthesizes a response to the query grounded in the given evidence.
// Empty evidence short-circuits without calling the model: a sentinel
// message from retrieval is returned verbatim, and an empty evidence list
// yields a fixed route-appropriate message.
func (a *Answerer) Answer(ctx context.Context, query string, evidence *core.MergedEvidence) (string, error) {
	if evidence.Message != "" {
		return evidence.Message, nil
	}
	if evidence.Empty() {
		if evidence.Route == core.RouteWeb {
			return noWebEvidence, nil
		}
		return noDocumentEvidence, nil
	}

	prompt := buildPrompt(query, evidence)
	a.logger.Debug("generating answer", "route", evidence.Route, "evidence", len(evidence.Items))

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
			},
		},
	}

	response, err := a.client.GenerateContent(ctx, content, llms.WithTemperature(0.2))
	if err != nil {
		a.logger.Error("failed to generate answer", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		a.logger.Warn("no choices returned from model")
		return emptyGeneration, nil
	}

	answer := strings.TrimSpace(response.Choices[0].Content)
	if answer == "" {
		return emptyGeneration, nil
	}
	return answer, nil
}
