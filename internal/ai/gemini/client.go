package gemini

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spigell/resume-ranker/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	Provider = "gemini"

	defaultModel      = "gemini-2.5-flash"
	defaultMaxRetries = 1
	baseBackoff       = 2 * time.Second
	maxQuotaDelay     = 30 * time.Second
)

var ErrEmptyResponse = errors.New("gemini api returned empty response")

// wait is swapped in tests.
var wait = utils.WaitFor

var retryDelayPattern = regexp.MustCompile(`(?i)retry (?:after|in) (\d+(?:\.\d+)?)\s*(?:s\b|sec|second)`)

type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type chatCreator interface {
	Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error)
}

type genaiChats struct {
	chats *genai.Chats
}

func (g genaiChats) Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	chat, err := g.chats.Create(ctx, model, config, history)
	if err != nil {
		return nil, err
	}
	return chat, nil
}

// Generator produces fit insights with the Gemini API. Every call opens a
// fresh chat so requests never share history.
type Generator struct {
	chats      chatCreator
	model      string
	maxRetries int
	logger     *zap.Logger
}

// NewGenerator creates a Generator for the Gemini API backend. maxRetries is
// the total number of attempts per call.
func NewGenerator(ctx context.Context, apiKey, model string, maxRetries int, logger *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		chats:      genaiChats{chats: client.Chats},
		model:      model,
		maxRetries: maxRetries,
		logger:     logger,
	}, nil
}

func (g *Generator) Provider() string {
	return Provider
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

// Generate asks for a summary between minLen and maxLen tokens long. The
// lower bound travels in the system instruction since the API only caps output.
func (g *Generator) Generate(ctx context.Context, prompt string, minLen, maxLen int) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0),
		CandidateCount:  1,
		MaxOutputTokens: int32(maxLen),
		// Thinking tokens count against MaxOutputTokens and can leave no text.
		ThinkingConfig: &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)},
	}

	return g.GenerateContent(ctx, lengthInstruction(minLen, maxLen), prompt, config)
}

// GenerateContent sends message with the given system instruction and returns
// the text of the reply. Transient failures are retried up to maxRetries attempts.
func (g *Generator) GenerateContent(ctx context.Context, system, message string, configs ...*genai.GenerateContentConfig) (string, error) {
	if g == nil || g.chats == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	if strings.TrimSpace(message) == "" {
		return "", errors.New("prompt must not be empty")
	}

	config := &genai.GenerateContentConfig{}
	if len(configs) > 0 && configs[0] != nil {
		copied := *configs[0]
		config = &copied
	}
	if system = strings.TrimSpace(system); system != "" {
		config.SystemInstruction = &genai.Content{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: system}},
		}
	}

	attempts := g.maxRetries
	if attempts <= 0 {
		attempts = defaultMaxRetries
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		output, err := g.send(ctx, config, message)
		if err == nil {
			return output, nil
		}
		lastErr = err

		delay, retry := retryDelay(err, attempt)
		if !retry || attempt == attempts {
			break
		}

		g.logger.Warn("gemini request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		if err := wait(ctx, delay); err != nil {
			return "", err
		}
	}

	return "", lastErr
}

func (g *Generator) send(ctx context.Context, config *genai.GenerateContentConfig, message string) (string, error) {
	chat, err := g.chats.Create(ctx, g.model, config, nil)
	if err != nil {
		return "", fmt.Errorf("create chat: %w", err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", ErrEmptyResponse
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", ErrEmptyResponse
	}

	return output, nil
}

// retryDelay reports whether err is worth another attempt and how long to wait.
// Server errors back off exponentially. Quota errors are retried only when the
// advertised delay is short.
func retryDelay(err error, attempt int) (time.Duration, bool) {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		var ptr *genai.APIError
		if !errors.As(err, &ptr) || ptr == nil {
			return 0, false
		}
		apiErr = *ptr
	}

	backoff := time.Duration(math.Pow(2, float64(attempt-1))) * baseBackoff

	switch {
	case apiErr.Code >= http.StatusInternalServerError:
		return backoff, true
	case apiErr.Code == http.StatusTooManyRequests:
		advertised, ok := parseRetryDelay(apiErr.Message)
		if !ok {
			return backoff, true
		}
		if advertised > maxQuotaDelay {
			return 0, false
		}
		return advertised, true
	default:
		return 0, false
	}
}

func parseRetryDelay(message string) (time.Duration, bool) {
	match := retryDelayPattern.FindStringSubmatch(message)
	if match == nil {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	return time.Duration(seconds * float64(time.Second)), true
}

func lengthInstruction(minLen, maxLen int) string {
	return fmt.Sprintf("Answer with a single plain-text summary of at least %d and at most %d words.", minLen, maxLen)
}
