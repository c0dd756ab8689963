// internal/llm/client.go
package llm

import (
	"context"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/shared"

	commonerrors "github.com/andrewmicrosoft/allergy-alert/internal/common/errors"
	"github.com/andrewmicrosoft/allergy-alert/internal/common/logger"
)

// Completer issues one structured chat-completion request and returns the
// raw assistant JSON text. There is exactly one request and one response
// per call: no streaming, no retries.
type Completer interface {
	Complete(ctx context.Context, system, user string, schemaName string, schema map[string]interface{}) (string, error)
}

// Client talks to an Azure-style OpenAI deployment.
type Client struct {
	cfg    Config
	api    openai.Client
	logger logger.Logger
}

// NewClient validates the configuration and builds the SDK client.
// Missing endpoint or api key fails here, before any network I/O.
func NewClient(cfg Config, log logger.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	api := openai.NewClient(
		azure.WithEndpoint(cfg.Endpoint, cfg.APIVersion),
		azure.WithAPIKey(cfg.APIKey),
	)

	return &Client{
		cfg: cfg,
		api: api,
		logger: log.WithFields(map[string]interface{}{
			"component":  "llm-client",
			"deployment": cfg.Deployment,
		}),
	}, nil
}

func (c *Client) Complete(ctx context.Context, system, user string, schemaName string, schema map[string]interface{}) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.cfg.Deployment),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(c.cfg.Temperature),
		MaxTokens:   openai.Int(int64(c.cfg.MaxTokens)),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   schemaName,
					Schema: schema,
					Strict: openai.Bool(true),
				},
			},
		},
	}

	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		c.logger.Error("completion request failed", map[string]interface{}{
			"error": err.Error(),
		})
		// Provider failures of any kind surface as one transport error.
		return "", commonerrors.NewTransportError(err)
	}

	if len(resp.Choices) == 0 {
		return "", commonerrors.NewMalformedResponseError("completion contained no choices", "")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", commonerrors.NewMalformedResponseError("completion content was empty", "")
	}

	c.logger.Info("completion received", map[string]interface{}{
		"contentBytes": len(content),
	})

	return content, nil
}

// unconfigured is a Completer that fails every call with the
// configuration error captured at startup. It lets the rest of the
// service run when model credentials are absent.
type unconfigured struct {
	cfg Config
}

// Unconfigured returns a Completer that reports the missing
// configuration on first use, before any network I/O.
func Unconfigured(cfg Config) Completer {
	return &unconfigured{cfg: cfg}
}

func (u *unconfigured) Complete(ctx context.Context, system, user string, schemaName string, schema map[string]interface{}) (string, error) {
	if err := u.cfg.Validate(); err != nil {
		return "", err
	}
	return "", commonerrors.NewMissingConfigError("model client was not initialized")
}
