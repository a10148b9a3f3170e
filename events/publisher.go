package events

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Publisher is the runner-process side of the event channel. The runner
// is handed the endpoint address and token through its invocation and
// publishes lifecycle events as it executes the test logic.
type Publisher struct {
	endpoint string
	token    string
	client   *http.Client
}

// NewPublisher creates a publisher against the given channel endpoint.
func NewPublisher(addr, token string) *Publisher {
	return &Publisher{
		endpoint: "http://" + addr,
		token:    token,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Publish sends one named event with its parameters.
func (p *Publisher) Publish(name Name, params map[string]any) error {
	return p.post("/v1/events", Event{Name: name, Params: params})
}

// MarkFinished signals that no further events will be published.
func (p *Publisher) MarkFinished() error {
	return p.post("/v1/finished", nil)
}

func (p *Publisher) post(path string, body any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encoding event: %w", err)
		}
	}

	req, err := http.NewRequest(http.MethodPost, p.endpoint+path, &buf)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("publishing to channel: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("channel rejected publish: %s", resp.Status)
	}
	return nil
}
