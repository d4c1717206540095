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


// Package web provides a Serper.dev client for web, news, and image search.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/docquery/core"
)

const (
	defaultBaseURL    = "https://google.serper.dev"
	defaultNumResults = 5
	defaultNumNews    = 3
	defaultNumImages  = 3
	requestTimeout    = 10 * time.Second
)

// ErrAPIKeyRequired is returned when a Serper API key is not provided.
var ErrAPIKeyRequired = errors.New("serper API key required")

// Client queries the Serper.dev search API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	numResults int
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client) error

// WithBaseURL overrides the Serper API base URL. Used in tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) error {
		c.baseURL = baseURL
		return nil
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) error {
		if httpClient == nil {
			httpClient = &http.Client{Timeout: requestTimeout}
		}
		c.httpClient = httpClient
		return nil
	}
}

// WithNumResults sets the number of web results per search.
// Default is 5.
func WithNumResults(n int) Option {
	return func(c *Client) error {
		if n < 1 {
			n = defaultNumResults
		}
		c.numResults = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewClient creates a new Serper.dev client.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		numResults: defaultNumResults,
		logger:     slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// serperOrganic is one organic hit in a Serper response.
type serperOrganic struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// serperAnswerBox is the featured answer block.
type serperAnswerBox struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Answer  string `json:"answer"`
	Snippet string `json:"snippet"`
}

// serperKnowledgeGraph is the entity summary block.
type serperKnowledgeGraph struct {
	Title       string `json:"title"`
	Website     string `json:"website"`
	Description string `json:"description"`
}

type serperNews struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Date    string `json:"date"`
}

type serperImage struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	ImageURL string `json:"imageUrl"`
}

type searchResponse struct {
	Organic        []serperOrganic       `json:"organic"`
	AnswerBox      *serperAnswerBox      `json:"answerBox"`
	KnowledgeGraph *serperKnowledgeGraph `json:"knowledgeGraph"`
	News           []serperNews          `json:"news"`
	Images         []serperImage         `json:"images"`
}

// Search performs a web search. Featured blocks are promoted to the front
// of the results: the knowledge graph first, then the answer box, then
// organic hits in rank order.
func (c *Client) Search(ctx context.Context, query string) ([]core.WebResult, error) {
	payload := map[string]any{
		"q":   query,
		"num": c.numResults,
		"gl":  "us",
		"hl":  "en",
	}

	data, err := c.post(ctx, "/search", payload)
	if err != nil {
		return nil, err
	}

	var results []core.WebResult
	for i, organic := range data.Organic {
		if i >= c.numResults {
			break
		}
		results = append(results, core.WebResult{
			Title:      organic.Title,
			URL:        organic.Link,
			Snippet:    organic.Snippet,
			SourceKind: core.WebSourceWeb,
		})
	}

	if data.AnswerBox != nil {
		box := data.AnswerBox
		title := box.Title
		if title == "" {
			title = "Answer Box"
		}
		snippet := box.Answer
		if snippet == "" {
			snippet = box.Snippet
		}
		results = append([]core.WebResult{{
			Title:      title,
			URL:        box.Link,
			Snippet:    snippet,
			SourceKind: core.WebSourceAnswerBox,
		}}, results...)
	}

	if data.KnowledgeGraph != nil {
		kg := data.KnowledgeGraph
		title := kg.Title
		if title == "" {
			title = "Knowledge Graph"
		}
		results = append([]core.WebResult{{
			Title:      title,
			URL:        kg.Website,
			Snippet:    kg.Description,
			SourceKind: core.WebSourceKnowledgeGraph,
		}}, results...)
	}

	return results, nil
}

// SearchNews performs a news search.
func (c *Client) SearchNews(ctx context.Context, query string) ([]core.WebResult, error) {
	payload := map[string]any{
		"q":    query,
		"num":  defaultNumNews,
		"type": "news",
		"gl":   "us",
		"hl":   "en",
	}

	data, err := c.post(ctx, "/news", payload)
	if err != nil {
		return nil, err
	}

	var results []core.WebResult
	for i, item := range data.News {
		if i >= defaultNumNews {
			break
		}
		results = append(results, core.WebResult{
			Title:      item.Title,
			URL:        item.Link,
			Snippet:    item.Snippet,
			Date:       item.Date,
			SourceKind: core.WebSourceNews,
		})
	}
	return results, nil
}

// SearchImages performs an image search.
func (c *Client) SearchImages(ctx context.Context, query string) ([]core.WebResult, error) {
	payload := map[string]any{
		"q":    query,
		"num":  defaultNumImages,
		"type": "images",
		"gl":   "us",
	}

	data, err := c.post(ctx, "/images", payload)
	if err != nil {
		return nil, err
	}

	var results []core.WebResult
	for i, item := range data.Images {
		if i >= defaultNumImages {
			break
		}
		results = append(results, core.WebResult{
			Title:      item.Title,
			URL:        item.Link,
			ImageURL:   item.ImageURL,
			SourceKind: core.WebSourceImage,
		})
	}
	return results, nil
}

func (c *Client) post(ctx context.Context, path string, payload map[string]any) (*searchResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("serper request failed", "path", path, "err", err)
		return nil, fmt.Errorf("web search API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("serper returned non-OK status", "path", path, "status", resp.StatusCode)
		return nil, fmt.Errorf("web search API error: status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("web search API error: %w", err)
	}

	var data searchResponse
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("web search API error: %w", err)
	}
	return &data, nil
}
