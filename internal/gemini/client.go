// Package gemini is a minimal client for the generateContent endpoint of the
// generative language API.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/media"
)

var (
	ErrMissingKey = errors.New("gemini api key is not configured")
	ErrEmptyReply = fmt.Errorf("%w: empty response from model", apperr.ErrRemote)
)

// =============================================================================
// Wire types
// =============================================================================

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// ChatConfig is the sampling used by the plant-care assistant.
var ChatConfig = GenerationConfig{
	Temperature:     0.4,
	TopK:            32,
	TopP:            0.95,
	MaxOutputTokens: 12000,
}

type generateRequest struct {
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	Contents          []content         `json:"contents"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// =============================================================================
// Client
// =============================================================================

// Turn is one earlier message of a conversation. Role is "user" or "model".
type Turn struct {
	Role string
	Text string
}

type Request struct {
	System  string
	History []Turn
	Prompt  string
	Image   *media.Image
	Config  *GenerationConfig
}

type Client struct {
	apiURL string
	apiKey string
	model  string
	http   *http.Client
}

func New(apiURL, apiKey, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		apiURL: strings.TrimRight(apiURL, "/"),
		apiKey: apiKey,
		model:  model,
		http:   &http.Client{Timeout: timeout},
	}
}

// Generate sends one prompt, with an optional inlined image, and returns the
// model's text. Images outside the JPEG/PNG/WebP allow-list are rejected
// before anything is sent.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingKey
	}

	user := content{Role: "user", Parts: []part{{Text: req.Prompt}}}
	if req.Image != nil {
		if err := req.Image.Validate(); err != nil {
			return "", err
		}
		user.Parts = append(user.Parts, part{InlineData: &inlineData{
			MimeType: media.Normalize(req.Image.MimeType),
			Data:     base64.StdEncoding.EncodeToString(req.Image.Data),
		}})
	}

	body := generateRequest{GenerationConfig: req.Config}
	if req.System != "" {
		body.SystemInstruction = &content{Parts: []part{{Text: req.System}}}
	}
	for _, t := range req.History {
		if strings.TrimSpace(t.Text) == "" {
			continue
		}
		body.Contents = append(body.Contents, content{Role: t.Role, Parts: []part{{Text: t.Text}}})
	}
	body.Contents = append(body.Contents, user)

	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.apiURL, c.model, url.QueryEscape(c.apiKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: generate request failed: %v", apperr.ErrRemote, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read model response: %v", apperr.ErrRemote, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: generative API error: status %d", apperr.ErrRemote, resp.StatusCode)
	}

	var out generateResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("%w: failed to decode model response: %v", apperr.ErrRemote, err)
	}
	if out.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked: %s", apperr.ErrRemote, out.PromptFeedback.BlockReason)
	}
	if len(out.Candidates) == 0 {
		return "", ErrEmptyReply
	}

	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}
