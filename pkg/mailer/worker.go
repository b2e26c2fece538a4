package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// RenderFunc renders a named template into subject, text and html bodies.
type RenderFunc func(name string, data any) (string, string, string, error)

// ErrPermanent marks jobs that will never succeed on retry (bad payload, unknown template).
var ErrPermanent = errors.New("permanent email job failure")

// Deliver decodes a queued job, renders it and hands it to the sender.
// Errors wrapping ErrPermanent should be dropped; anything else may be requeued.
func Deliver(ctx context.Context, sender Sender, render RenderFunc, body []byte) (*EmailJob, error) {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrPermanent, err)
	}
	if job.To == "" {
		return &job, fmt.Errorf("%w: missing recipient", ErrPermanent)
	}
	if err := job.Resolve(render); err != nil {
		return &job, fmt.Errorf("%w: render %s: %v", ErrPermanent, job.Template, err)
	}
	if err := sender.Send(ctx, job.To, job.Subject, job.Text, job.HTML); err != nil {
		return &job, fmt.Errorf("send: %w", err)
	}
	return &job, nil
}
