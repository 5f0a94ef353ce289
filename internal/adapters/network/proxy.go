// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package network

import (
	"net/http"
	"os"
	"time"
)

// DefaultTimeout bounds requests made by GetHTTPClient clients.
const DefaultTimeout = 30 * time.Second

// proxyVars pairs each lowercase proxy variable with its uppercase form.
var proxyVars = [][2]string{
	{"http_proxy", "HTTP_PROXY"},
	{"https_proxy", "HTTPS_PROXY"},
	{"no_proxy", "NO_PROXY"},
}

// GetHTTPClient returns an HTTP client configured with proxy settings.
// Respects HTTP_PROXY, HTTPS_PROXY, and NO_PROXY environment variables.
func GetHTTPClient() *http.Client {
	return &http.Client{
		Timeout: DefaultTimeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
		},
	}
}

// GetProxyEnv returns proxy-related environment variables for passing to
// the policy tool. Lowercase variables take precedence per Unix convention;
// both cases are exported.
func GetProxyEnv() []string {
	var proxyEnv []string

	for _, pair := range proxyVars {
		value := os.Getenv(pair[0])
		if value == "" {
			value = os.Getenv(pair[1])
		}

		if value != "" {
			proxyEnv = append(proxyEnv, pair[0]+"="+value, pair[1]+"="+value)
		}
	}

	return proxyEnv
}
