// Package genai wraps the external text-to-image backend with bounded
// retries. It has no side effects of its own: storage and usage accounting
// happen in the caller, and only after a successful return, so a failed
// generation never consumes quota.
package genai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrGenerationFailed signals that all attempts were exhausted. Handlers map
// it to a 503 so clients treat it as retryable, not permanent.
var ErrGenerationFailed = errors.New("image generation failed after retries")

// maxRetries: up to 2 retries, 3 attempts total.
const maxRetries = 2

// Backend produces an image for a prompt as a byte stream. The stream may
// arrive in chunks; the orchestrator drains it fully before returning.
type Backend interface {
	GenerateImage(ctx context.Context, prompt string) (io.ReadCloser, error)
}

type Result struct {
	Data []byte
	// Duration is the wall clock of the successful attempt only, excluding
	// backoff waits.
	Duration time.Duration
}

type Orchestrator struct {
	backend Backend

	// Sleep is the backoff wait; tests swap it out.
	Sleep func(time.Duration)
}

func NewOrchestrator(backend Backend) *Orchestrator {
	return &Orchestrator{backend: backend, Sleep: time.Sleep}
}

// Generate runs the backend with exponential backoff between attempts:
// 2^retries seconds, so 2s then 4s, no jitter.
func (o *Orchestrator) Generate(ctx context.Context, entryText, style string) (*Result, error) {
	prompt := BuildPrompt(entryText, style)

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			o.Sleep(time.Duration(1<<attempt) * time.Second)
		}

		start := time.Now()
		stream, err := o.backend.GenerateImage(ctx, prompt)
		if err != nil {
			lastErr = err
			continue
		}

		data, err := io.ReadAll(stream)
		stream.Close()
		if err != nil {
			lastErr = err
			continue
		}

		return &Result{Data: data, Duration: time.Since(start)}, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, lastErr)
}
