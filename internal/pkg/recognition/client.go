package recognition

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
)

const mimeTypePNG = "image/png"

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client talks to a Gemini-style generative API: raw file upload followed
// by a generateContent call referencing the hosted file.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type hostedFile struct {
	Name     string `json:"name"`
	URI      string `json:"uri"`
	MimeType string `json:"mimeType"`
}

type uploadResponse struct {
	File hostedFile `json:"file"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	FileData *fileData `json:"file_data,omitempty"`
	Text     string    `json:"text,omitempty"`
}

type fileData struct {
	MimeType string `json:"mime_type"`
	FileURI  string `json:"file_uri"`
}

type generationConfig struct {
	ResponseMimeType string `json:"response_mime_type"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Recognize uploads the image at imagePath to the hosted-file endpoint and
// asks the model for a JSON object holding the reading in a "value" field.
func (c *Client) Recognize(ctx context.Context, imagePath, prompt string) (*Result, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	file, err := c.uploadFile(ctx, data, filepath.Base(imagePath))
	if err != nil {
		return nil, fmt.Errorf("uploadFile: %w", err)
	}

	text, err := c.generate(ctx, file, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	value, err := parseValue(text)
	if err != nil {
		return nil, err
	}

	return &Result{Value: value, FileURI: file.URI, MimeType: file.MimeType}, nil
}

func (c *Client) uploadFile(ctx context.Context, data []byte, displayName string) (*hostedFile, error) {
	url := fmt.Sprintf("%s/upload/v1beta/files?key=%s", c.cfg.BaseURL, c.cfg.APIKey)

	body, err := c.post(ctx, url, data, func(req *http.Request) {
		req.Header.Set("Content-Type", mimeTypePNG)
		req.Header.Set("X-Goog-Upload-Protocol", "raw")
		req.Header.Set("X-Goog-File-Name", displayName)
	})
	if err != nil {
		return nil, err
	}

	var resp uploadResponse
	if err = sonic.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal upload response: %w", err)
	}
	if resp.File.URI == "" {
		return nil, fmt.Errorf("upload response has no file uri")
	}
	if resp.File.MimeType == "" {
		resp.File.MimeType = mimeTypePNG
	}

	return &resp.File, nil
}

func (c *Client) generate(ctx context.Context, file *hostedFile, prompt string) (string, error) {
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.cfg.BaseURL, c.cfg.Model, c.cfg.APIKey)

	payload, err := sonic.Marshal(generateRequest{
		Contents: []content{{Parts: []part{
			{FileData: &fileData{MimeType: file.MimeType, FileURI: file.URI}},
			{Text: prompt},
		}}},
		GenerationConfig: generationConfig{ResponseMimeType: "application/json"},
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	body, err := c.post(ctx, url, payload, func(req *http.Request) {
		req.Header.Set("Content-Type", "application/json")
	})
	if err != nil {
		return "", err
	}

	var resp generateResponse
	if err = sonic.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshal generate response: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("generate response has no candidates")
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// post sends the payload with retries. Non-2xx statuses below 500 are not
// retried; transport errors and 5xx are.
func (c *Client) post(ctx context.Context, url string, payload []byte, decorate func(*http.Request)) ([]byte, error) {
	var body []byte

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		decorate(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("status %d: %s", resp.StatusCode, body)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("status %d: %s", resp.StatusCode, body))
		}

		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, bo); err != nil {
		return nil, err
	}

	return body, nil
}

// parseValue extracts the integer reading from the model's JSON answer.
// The value field arrives as a number or a numeric string, sometimes with
// a fractional part; it is truncated to an integer.
func parseValue(text string) (int64, error) {
	var parsed struct {
		Value interface{} `json:"value"`
	}
	if err := sonic.Unmarshal([]byte(text), &parsed); err != nil {
		return 0, fmt.Errorf("model answer is not json: %w", err)
	}

	switch v := parsed.Value.(type) {
	case float64:
		return decimal.NewFromFloat(v).IntPart(), nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return 0, fmt.Errorf("model answer value %q is not numeric", v)
		}
		return d.IntPart(), nil
	default:
		return 0, fmt.Errorf("model answer has no numeric value field")
	}
}
