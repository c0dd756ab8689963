// internal/llm/config.go
package llm

import (
	"strings"
	"time"

	"github.com/andrewmicrosoft/allergy-alert/internal/common/config"
	commonerrors "github.com/andrewmicrosoft/allergy-alert/internal/common/errors"
)

// Default literals applied when the optional model settings are unset.
const (
	DefaultModel      = "gpt-4o"
	DefaultAPIVersion = "2024-08-01-preview"
	DefaultTimeout    = 60 * time.Second
)

// Config holds everything needed to reach the hosted classification model.
type Config struct {
	Endpoint    string
	APIKey      string
	Model       string
	Deployment  string
	APIVersion  string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// FromModelConfig builds a Config from the application configuration.
func FromModelConfig(mc config.ModelConfig) Config {
	return Config{
		Endpoint:    strings.TrimSpace(mc.Endpoint),
		APIKey:      strings.TrimSpace(mc.APIKey),
		Model:       strings.TrimSpace(mc.Name),
		Deployment:  strings.TrimSpace(mc.Deployment),
		APIVersion:  strings.TrimSpace(mc.APIVersion),
		Temperature: mc.Temperature,
		MaxTokens:   mc.MaxTokens,
		Timeout:     config.GetDuration(mc.Timeout),
	}
}

// Validate fails fast with MISSING_CONFIG when required credentials are
// absent, before any network call is attempted.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return commonerrors.NewMissingConfigError("model endpoint is not configured")
	}
	if c.APIKey == "" {
		return commonerrors.NewMissingConfigError("model api key is not configured")
	}
	return nil
}

// withDefaults fills the optional fields with their stated literals. A
// deployment left unset addresses the model by its name.
func (c Config) withDefaults() Config {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Deployment == "" {
		c.Deployment = c.Model
	}
	if c.APIVersion == "" {
		c.APIVersion = DefaultAPIVersion
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 4096
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}
