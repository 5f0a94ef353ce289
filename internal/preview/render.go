// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package preview

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/janderssonse/policyctl/internal/domain"
)

// Service sends preview requests.
type Service struct {
	client domain.NetworkClient
}

// NewService creates a preview service over client.
func NewService(client domain.NetworkClient) *Service {
	return &Service{client: client}
}

// Evaluate sends req and returns the decoded decision document.
func (s *Service) Evaluate(ctx context.Context, req *Request) (map[string]any, error) {
	var result map[string]any

	if err := s.client.PostJSON(ctx, req.URL, req.Token, req.Body, &result); err != nil {
		return nil, fmt.Errorf("preview request failed: %w", err)
	}

	return result, nil
}

// Render formats result as an indented JSON block. With styled output the
// block goes through glamour; plain output is the bare JSON.
func Render(result map[string]any, styled bool) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}

	if !styled {
		return string(data), nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return string(data), nil //nolint:nilerr // plain JSON is an acceptable fallback
	}

	out, err := renderer.Render("```json\n" + string(data) + "\n```\n")
	if err != nil {
		return string(data), nil //nolint:nilerr // plain JSON is an acceptable fallback
	}

	return strings.TrimRight(out, "\n"), nil
}
