// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package network

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPClient(t *testing.T) {
	client := GetHTTPClient()

	assert.NotNil(t, client)
	assert.Equal(t, 30*time.Second, client.Timeout)

	transport, ok := client.Transport.(*http.Transport)
	assert.True(t, ok)
	assert.NotNil(t, transport.Proxy)
}

func TestGetProxyEnv(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		expected []string
	}{
		{
			name:     "no proxy configured",
			envVars:  map[string]string{},
			expected: nil,
		},
		{
			name:    "uppercase HTTP_PROXY set",
			envVars: map[string]string{"HTTP_PROXY": "http://proxy.example.com:8080"},
			expected: []string{
				"http_proxy=http://proxy.example.com:8080",
				"HTTP_PROXY=http://proxy.example.com:8080",
			},
		},
		{
			name: "all proxy variables set",
			envVars: map[string]string{
				"http_proxy":  "http://proxy.example.com:8080",
				"https_proxy": "https://proxy.example.com:8443",
				"no_proxy":    "localhost,127.0.0.1",
			},
			expected: []string{
				"http_proxy=http://proxy.example.com:8080",
				"HTTP_PROXY=http://proxy.example.com:8080",
				"https_proxy=https://proxy.example.com:8443",
				"HTTPS_PROXY=https://proxy.example.com:8443",
				"no_proxy=localhost,127.0.0.1",
				"NO_PROXY=localhost,127.0.0.1",
			},
		},
		{
			name: "lowercase takes precedence over uppercase",
			envVars: map[string]string{
				"http_proxy": "http://lower.proxy:8080",
				"HTTP_PROXY": "http://upper.proxy:8080",
			},
			expected: []string{
				"http_proxy=http://lower.proxy:8080",
				"HTTP_PROXY=http://lower.proxy:8080",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, pair := range proxyVars {
				t.Setenv(pair[0], "")
				t.Setenv(pair[1], "")
			}

			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			assert.Equal(t, tt.expected, GetProxyEnv())
		})
	}
}
