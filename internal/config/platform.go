package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Platform identifies which monitoring backend a base URL belongs to.
type Platform string

const (
	PlatformZAI   Platform = "ZAI"
	PlatformZhipu Platform = "ZHIPU"
)

const (
	modelUsagePath = "/api/monitor/usage/model-usage"
	toolUsagePath  = "/api/monitor/usage/tool-usage"
	quotaLimitPath = "/api/monitor/usage/quota/limit"
)

// ErrUnrecognizedPlatform is returned when the base URL matches neither backend.
var ErrUnrecognizedPlatform = errors.New("unrecognized ANTHROPIC_BASE_URL")

// hostPatterns maps host substrings to the platform they identify.
var hostPatterns = []struct {
	pattern  string
	platform Platform
}{
	{"api.z.ai", PlatformZAI},
	{"open.bigmodel.cn", PlatformZhipu},
	{"dev.bigmodel.cn", PlatformZhipu},
}

// PlatformConfig holds the detected platform and its monitor endpoints.
type PlatformConfig struct {
	Platform      Platform
	ModelUsageURL string
	ToolUsageURL  string
	QuotaLimitURL string
}

// Resolve maps a base URL such as https://open.bigmodel.cn/api/anthropic to
// its platform. Endpoints keep the scheme, host and port of the base URL and
// drop its path.
func Resolve(baseURL string) (PlatformConfig, error) {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return PlatformConfig{}, unrecognized(baseURL)
	}

	host := strings.ToLower(parsed.Hostname())
	for _, hp := range hostPatterns {
		if !strings.Contains(host, hp.pattern) {
			continue
		}
		root := parsed.Scheme + "://" + parsed.Host
		return PlatformConfig{
			Platform:      hp.platform,
			ModelUsageURL: root + modelUsagePath,
			ToolUsageURL:  root + toolUsagePath,
			QuotaLimitURL: root + quotaLimitPath,
		}, nil
	}

	return PlatformConfig{}, unrecognized(baseURL)
}

func unrecognized(baseURL string) error {
	return fmt.Errorf("%w: %s. 支持的平台: https://api.z.ai (%s) 或 https://open.bigmodel.cn (%s)",
		ErrUnrecognizedPlatform, baseURL, PlatformZAI, PlatformZhipu)
}
