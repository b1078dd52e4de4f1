package twilioapi

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"smartiedev/httpmiddleware"
	"smartiedev/logger"
)

const (
	maxRetries = 3
	baseDelay  = 1 * time.Second
)

type TwilioConnectProps struct {
	Logger *logger.LogMiddleware
}

// Twilio sends WhatsApp messages through the Twilio REST Messages API.
type Twilio struct {
	logger    *logger.LogMiddleware
	semaphore *semaphore.Weighted
}

func Connect(ctx context.Context, args TwilioConnectProps) *Twilio {
	tracer := otel.Tracer("twilioapi/Connect")
	ctx, span := tracer.Start(ctx, "Connect")
	defer span.End()

	maxWorkers := 10
	sem := semaphore.NewWeighted(int64(maxWorkers))

	span.SetAttributes(attribute.Int("maxWorkers", maxWorkers))

	return &Twilio{logger: args.Logger, semaphore: sem}
}

// SendWhatsApp delivers a message to a recipient given in E.164 form without
// the "whatsapp:" prefix (e.g. "+447700900123"). The configured sender
// number already carries the prefix.
func (t *Twilio) SendWhatsApp(ctx context.Context, toE164 string, body string) error {
	tracer := otel.Tracer("twilioapi/SendWhatsApp")
	ctx, span := tracer.Start(ctx, "SendWhatsApp")
	defer span.End()

	logger := t.logger.Logger(ctx)

	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	waNumber := os.Getenv("TWILIO_WHATSAPP_NUMBER")
	if accountSid == "" || authToken == "" || waNumber == "" {
		return fmt.Errorf("twilio credentials not configured")
	}

	if err := t.semaphore.Acquire(ctx, 1); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to acquire semaphore: %w", err)
	}
	defer t.semaphore.Release(1)

	apiURL := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", accountSid)
	form := url.Values{}
	form.Set("From", waNumber)
	form.Set("To", "whatsapp:"+toE164)
	form.Set("Body", body)

	auth := base64.StdEncoding.EncodeToString([]byte(accountSid + ":" + authToken))

	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err = httpmiddleware.HttpRequest(httpmiddleware.HttpRequestStruct{
			Method: "POST",
			Url:    apiURL,
			Body:   strings.NewReader(form.Encode()),
			Headers: map[string]string{
				"Authorization": "Basic " + auth,
				"Content-Type":  "application/x-www-form-urlencoded",
			},
		})
		if err == nil {
			break
		}

		logger.Warn("[Twilio] Failed to send WhatsApp message, retrying",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
			zap.Int("maxRetries", maxRetries))

		if attempt < maxRetries-1 {
			time.Sleep(baseDelay * time.Duration(1<<attempt))
		}
	}
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to send WhatsApp message after %d attempts: %w", maxRetries, err)
	}

	logger.Info("[Twilio] WhatsApp message sent", zap.Int("body.length", len(body)))
	return nil
}
