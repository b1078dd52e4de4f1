package geminiapi

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"google.golang.org/api/option"

	"smartiedev/logger"
	"smartiedev/modelapi"
)

const (
	GEMINI_MODEL_NAME = "gemini-1.5-flash"
)

const (
	maxRetries = 3
	baseDelay  = 1 * time.Second
)

type GeminiConnectProps struct {
	Logger *logger.LogMiddleware
}

type Gemini struct {
	logger    *logger.LogMiddleware
	semaphore *semaphore.Weighted
	client    *genai.Client
}

func exponentialBackoff(attempt int) time.Duration {
	return baseDelay * time.Duration(1<<uint(attempt))
}

func Connect(ctx context.Context, args GeminiConnectProps) *Gemini {
	tracer := otel.Tracer("geminiapi/Connect")
	ctx, span := tracer.Start(ctx, "Connect")
	defer span.End()
	args.Logger.Logger(ctx).Info("[GeminiAPI] Connecting Gemini API client")

	maxWorkers := 10
	sem := semaphore.NewWeighted(int64(maxWorkers))
	span.SetAttributes(attribute.Int("maxWorkers", maxWorkers))

	GEMINI_KEY := os.Getenv("GEMINI_SECRET_KEY")

	client, err := genai.NewClient(ctx, option.WithAPIKey(GEMINI_KEY))
	if err != nil {
		args.Logger.Logger(ctx).Error("[GeminiAPI] Could not create Gemini client", zap.Error(err))
		os.Exit(21)
	}

	return &Gemini{logger: args.Logger, semaphore: sem, client: client}
}

// GetCoachingReply asks the model for a short Smartie-voiced coaching reply.
// Used only when no scripted handler claimed the message.
func (g *Gemini) GetCoachingReply(ctx context.Context, userText string) (string, error) {
	tracer := otel.Tracer("geminiapi/GetCoachingReply")
	ctx, span := tracer.Start(ctx, "GetCoachingReply")
	defer span.End()

	span.SetAttributes(attribute.Int("user_text.length", len(userText)))

	if err := g.semaphore.Acquire(ctx, 1); err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to acquire semaphore: %w", err)
	}
	defer g.semaphore.Release(1)

	model := g.client.GenerativeModel(GEMINI_MODEL_NAME)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(modelapi.SMARTIE_SYSTEM_PROMPT)},
	}
	model.SetMaxOutputTokens(420)
	model.SetTemperature(0.75)

	prompt := modelapi.StyleDirective(userText) + "\n\nUser: " + userText

	var resp *genai.GenerateContentResponse
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		resp, err = model.GenerateContent(ctx, genai.Text(prompt))
		if err == nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil && len(resp.Candidates[0].Content.Parts) > 0 {
			break
		}

		if err != nil {
			span.RecordError(err)
			g.logger.Logger(ctx).Warn("[GeminiAPI] Error generating content, retrying...",
				zap.Error(err), zap.Int("attempt", attempt+1), zap.Int("maxRetries", maxRetries))
		} else {
			g.logger.Logger(ctx).Warn("[GeminiAPI] Received empty response, retrying...",
				zap.Int("attempt", attempt+1), zap.Int("maxRetries", maxRetries))
			span.AddEvent("EmptyResponse")
		}

		if attempt < maxRetries-1 {
			delay := exponentialBackoff(attempt)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	if err != nil {
		g.logger.Logger(ctx).Error("[GeminiAPI] Final error generating content after retries", zap.Error(err))
		return "", err
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response received")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response part type")
	}

	span.AddEvent("LLM generation successful")
	return string(text), nil
}
