// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

// Package preview evaluates local policy files against the control plane
// and renders the decision.
package preview

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Builder errors.
var (
	ErrNoURL          = errors.New("preview url is not configured")
	ErrNoPolicies     = errors.New("no policy modules to preview")
	ErrUnsupportedExt = errors.New("unsupported input format")
)

// Request is a ready-to-send preview call.
type Request struct {
	URL   string
	Token string
	Body  Body
}

// Body is the JSON document sent to the preview endpoint.
type Body struct {
	Input       any               `json:"input,omitempty"`
	RegoModules map[string]string `json:"rego_modules"`
}

// Builder assembles a Request.
type Builder struct {
	url     string
	token   string
	input   any
	modules map[string]string
	err     error
}

// NewBuilder starts a request against url.
func NewBuilder(url string) *Builder {
	return &Builder{url: strings.TrimSpace(url), modules: map[string]string{}}
}

// WithToken sets the bearer token.
func (b *Builder) WithToken(token string) *Builder {
	b.token = token

	return b
}

// WithModule adds a policy module under its workspace relative path.
func (b *Builder) WithModule(path, source string) *Builder {
	b.modules[filepath.ToSlash(path)] = source

	return b
}

// WithInputDocument parses data as the input document. The format is chosen
// by the file extension of name: .json, .yaml or .yml.
func (b *Builder) WithInputDocument(name string, data []byte) *Builder {
	input, err := ParseInput(name, data)
	if err != nil {
		b.err = err

		return b
	}

	b.input = input

	return b
}

// Build validates and returns the request.
func (b *Builder) Build() (*Request, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.url == "" {
		return nil, ErrNoURL
	}

	if len(b.modules) == 0 {
		return nil, ErrNoPolicies
	}

	return &Request{
		URL:   b.url,
		Token: b.token,
		Body:  Body{Input: b.input, RegoModules: b.modules},
	}, nil
}

// ModulePaths returns the module paths of r in sorted order.
func (r *Request) ModulePaths() []string {
	paths := make([]string, 0, len(r.Body.RegoModules))
	for p := range r.Body.RegoModules {
		paths = append(paths, p)
	}

	sort.Strings(paths)

	return paths
}

// ParseInput decodes a JSON or YAML input document.
func ParseInput(name string, data []byte) (any, error) {
	var doc any

	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedExt, ext)
	}

	return doc, nil
}
