package classifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai"
)

const (
	// defaultModel is the chat model used for classification.
	defaultModel = openai.GPT4o

	// defaultTemperature keeps classification output near-deterministic.
	defaultTemperature = 0.2
)

// Config holds the OpenAI classifier settings.
type Config struct {
	// APIKey authenticates against the OpenAI API.
	APIKey string

	// Model is the chat completion model name.
	Model string

	// Temperature is the sampling temperature for completions.
	Temperature float32
}

// DefaultConfig returns the production classifier settings, minus the key.
func DefaultConfig() Config {
	return Config{
		Model:       defaultModel,
		Temperature: defaultTemperature,
	}
}

// completionClient is the slice of the OpenAI client the classifier uses.
// Narrowed to an interface so tests can script completions.
type completionClient interface {
	CreateChatCompletion(ctx context.Context,
		req openai.ChatCompletionRequest) (
		openai.ChatCompletionResponse, error)
}

// OpenAIClassifier classifies repository text via a single-turn chat
// completion and drafts the moderation reply from the structured answer.
type OpenAIClassifier struct {
	cfg    Config
	client completionClient
	log    *slog.Logger
}

// A compile-time check that the real client satisfies completionClient.
var _ completionClient = (*openai.Client)(nil)

// NewOpenAIClassifier creates a classifier backed by the OpenAI API.
func NewOpenAIClassifier(cfg Config, log *slog.Logger) *OpenAIClassifier {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = defaultTemperature
	}
	if log == nil {
		log = slog.Default()
	}

	return &OpenAIClassifier{
		cfg:    cfg,
		client: openai.NewClient(cfg.APIKey),
		log:    log.With("component", "classifier"),
	}
}

// Classify sends the prompt for the given context and parses the completion
// into a verdict. A clean verdict carries an empty reply.
func (o *OpenAIClassifier) Classify(ctx context.Context,
	c Context) (Verdict, error) {

	o.log.Info("Classifying text", "text_id", c.Target.ID,
		"context_comments", len(c.Previous))

	resp, err := o.client.CreateChatCompletion(ctx,
		openai.ChatCompletionRequest{
			Model:       o.cfg.Model,
			Temperature: o.cfg.Temperature,
			Messages: []openai.ChatCompletionMessage{{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(c),
			}},
		})
	if err != nil {
		return Verdict{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return Verdict{}, ErrEmptyCompletion
	}

	parsed, err := parseAnswer(resp.Choices[0].Message.Content)
	if err != nil {
		return Verdict{}, err
	}
	if !parsed.toxic {
		o.log.Info("Text classified as non-toxic",
			"text_id", c.Target.ID)
		return Verdict{}, nil
	}

	o.log.Info("Text classified as toxic", "text_id", c.Target.ID)
	return Verdict{
		Toxic: true,
		Reply: composeReply(parsed, c),
	}, nil
}
