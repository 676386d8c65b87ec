package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/Veraticus/saffron/internal/common"
	"github.com/Veraticus/saffron/internal/service"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"

// anthropicClient implements Client using the Anthropic Messages API.
type anthropicClient struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

func newAnthropicClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: anthropic api key", common.ErrMissingConfig)
	}

	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	return &anthropicClient{
		client:    anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

// MatchCustomCategory asks the model whether the transaction fits one of the
// user-defined categories. The response must be validated by the caller
// against the registered map.
func (c *anthropicClient) MatchCustomCategory(ctx context.Context, req Request, categories map[string][]string) (*Selection, error) {
	prompt := fmt.Sprintf(`You classify financial transactions into user-defined categories.

%s

Transaction:
- Merchant: %s
- Description: %s
- Amount: $%s

Decide whether this transaction clearly belongs to one of the categories
above. Only answer YES when the fit is obvious. Respond in exactly this format:

MATCH: [YES/NO]
CATEGORY: [category name, only if YES]
SUBCATEGORY: [subcategory name, only if YES]
REASONING: [one sentence]`,
		formatCategories("User-defined categories", categories),
		req.MerchantName, req.Description, req.Amount.StringFixed(2))

	content, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return ParseSelection(content), nil
}

// FallbackClassify asks the model for a best-effort taxonomy placement.
func (c *anthropicClient) FallbackClassify(ctx context.Context, req Request, taxonomy map[string][]string) (*Selection, error) {
	prompt := fmt.Sprintf(`You classify financial transactions into a fixed taxonomy.

%s

Transaction:
- Merchant: %s
- Description: %s
- Amount: $%s

Pick the best-fitting category and subcategory from the taxonomy above.
Respond in exactly this format:

CATEGORY: [category name]
SUBCATEGORY: [subcategory name]
CONFIDENCE: [MEDIUM/LOW]
REASONING: [one sentence naming the signals you used]`,
		formatCategories("Valid categories", taxonomy),
		req.MerchantName, req.Description, req.Amount.StringFixed(2))

	content, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return ParseSelection(content), nil
}

// InterpretCorrection extracts the corrected category pair from free-text
// user feedback.
func (c *anthropicClient) InterpretCorrection(ctx context.Context, feedback string, taxonomy map[string][]string) (*Selection, error) {
	prompt := fmt.Sprintf(`A user is correcting a transaction classification.

%s

User feedback: %q

If the feedback names or clearly implies a corrected category, map it to the
closest category and subcategory above. If the feedback is not a usable
correction, answer MATCH: NO. Respond in exactly this format:

MATCH: [YES/NO]
CATEGORY: [category name, only if YES]
SUBCATEGORY: [subcategory name, only if YES]
REASONING: [one sentence]`,
		formatCategories("Valid categories", taxonomy), feedback)

	content, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return ParseSelection(content), nil
}

func (c *anthropicClient) complete(ctx context.Context, prompt string) (string, error) {
	var message *anthropic.Message
	err := common.WithRetry(ctx, func() error {
		var callErr error
		message, callErr = c.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     anthropic.Model(c.model),
			MaxTokens: c.maxTokens,
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		})
		return callErr
	}, service.RetryOptions{MaxAttempts: 3, InitialDelay: 500 * time.Millisecond})
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrReasoningUnavailable, err)
	}

	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("%w: empty response", common.ErrReasoningUnavailable)
	}
	return text.String(), nil
}

// formatCategories renders a category map with stable ordering for prompts.
func formatCategories(title string, categories map[string][]string) string {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(title)
	b.WriteString(":\n")
	for _, name := range names {
		fmt.Fprintf(&b, "- %s\n", name)
		for _, sub := range categories[name] {
			fmt.Fprintf(&b, "  - %s\n", sub)
		}
	}
	return b.String()
}
