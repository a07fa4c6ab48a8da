package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pixeljournal/config"
)

// workersAI calls the Cloudflare Workers AI run endpoint, which answers a
// prompt with raw image bytes.
type workersAI struct {
	accountID string
	apiToken  string
	model     string
	client    *http.Client
}

func NewWorkersAIBackend() Backend {
	return &workersAI{
		accountID: config.WORKERS_AI_ACCOUNT_ID,
		apiToken:  config.WORKERS_AI_API_TOKEN,
		model:     config.WORKERS_AI_MODEL,
		client:    &http.Client{Timeout: 60 * time.Second},
	}
}

func (w *workersAI) GenerateImage(ctx context.Context, prompt string) (io.ReadCloser, error) {
	url := fmt.Sprintf("https://api.cloudflare.com/client/v4/accounts/%s/ai/run/%s", w.accountID, w.model)

	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+w.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("workers ai returned %d: %s", resp.StatusCode, detail)
	}

	return resp.Body, nil
}
