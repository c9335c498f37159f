package gemini

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"google.golang.org/genai"
)

// ErrMissingCredential is returned by every call made while no API key can be found.
var ErrMissingCredential = errors.New("gemini: API key required")

// CredentialFunc resolves the API key. It is consulted on each call until a
// client has been created successfully and never again afterwards.
type CredentialFunc func() (string, error)

// The genai client is a process-wide singleton: created lazily on the first
// call that finds a credential and cached for the process lifetime.
var (
	clientMu sync.Mutex
	client   *genai.Client
)

func sharedClient(ctx context.Context, credential CredentialFunc) (*genai.Client, error) {
	clientMu.Lock()
	defer clientMu.Unlock()

	if client != nil {
		return client, nil
	}
	if credential == nil {
		return nil, ErrMissingCredential
	}

	key, err := credential()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingCredential, err)
	}
	if key == "" {
		return nil, ErrMissingCredential
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	client = c
	return client, nil
}

// resetSharedClient drops the cached client. Tests only.
func resetSharedClient() {
	clientMu.Lock()
	defer clientMu.Unlock()
	client = nil
}
