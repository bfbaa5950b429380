package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Client talks to the external text-detection service: it downloads the
// screenshot and posts it for OCR. The game client serves webp previews but
// the detection endpoint wants the lossless png, hence the extension swap.
type Client struct {
	endpoint string
	apiKey   string
	client   *http.Client
	log      *zap.Logger
}

func NewClient(endpoint, apiKey string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{},
		log:      log,
	}
}

type detectRequest struct {
	Image string `json:"image"`
}

type detectResponse struct {
	Text string `json:"text"`
}

// DetectTextFromURL fetches the screenshot and returns the raw detected
// text. Empty text is not an error here; the validation gate rejects it as
// missing date evidence.
func (c *Client) DetectTextFromURL(ctx context.Context, imageURL string) (string, error) {
	img, err := c.fetchImage(ctx, imageURL)
	if err != nil {
		return "", err
	}
	return c.detect(ctx, img)
}

func (c *Client) fetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	downloadURL := strings.Replace(imageURL, ".webp", ".png", 1)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading screenshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("screenshot download returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) detect(ctx context.Context, image []byte) (string, error) {
	body, err := json.Marshal(detectRequest{
		Image: base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("text detection request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("text detection returned status %d", resp.StatusCode)
	}

	var out detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding text detection response: %w", err)
	}
	c.log.Debug("text detection completed", zap.Int("bytes", len(image)), zap.Int("chars", len(out.Text)))
	return out.Text, nil
}
