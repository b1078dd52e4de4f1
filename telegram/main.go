package telegram

import (
	"context"
	"fmt"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"smartiedev/httpmiddleware"
	"smartiedev/logger"
	"smartiedev/modelapi/deepgramapi"
	"smartiedev/router"
)

type TelegramConnectProps struct {
	Logger   *logger.LogMiddleware
	Router   *router.Router
	Deepgram *deepgramapi.DeepgramAPI
}

// Telegram is the long-polling chat transport. Text messages go straight to
// the router; voice notes are transcribed first.
type Telegram struct {
	logger   *logger.LogMiddleware
	bot      *tgbotapi.BotAPI
	router   *router.Router
	deepgram *deepgramapi.DeepgramAPI
}

func Connect(ctx context.Context, args TelegramConnectProps) *Telegram {
	tracer := otel.Tracer("telegram/Connect")
	ctx, span := tracer.Start(ctx, "Connect")
	defer span.End()

	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	if botToken == "" {
		args.Logger.Logger(ctx).Fatal("TELEGRAM_BOT_TOKEN environment variable not set")
	}

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		args.Logger.Logger(ctx).Fatal("Failed to create Telegram bot", zap.Error(err))
	}

	debug := os.Getenv("TELEGRAM_DEBUG") == "true"
	bot.Debug = debug

	span.SetAttributes(
		attribute.String("bot.username", bot.Self.UserName),
		attribute.Bool("bot.debug", debug),
	)

	args.Logger.Logger(ctx).Info("Telegram bot connected successfully",
		zap.String("username", bot.Self.UserName),
		zap.Bool("debug", debug),
	)

	return &Telegram{
		logger:   args.Logger,
		bot:      bot,
		router:   args.Router,
		deepgram: args.Deepgram,
	}
}

func (t *Telegram) Listen(ctx context.Context) {
	tracer := otel.Tracer("telegram/Listen")
	ctx, span := tracer.Start(ctx, "Listen")
	defer span.End()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := t.bot.GetUpdatesChan(u)

	t.logger.Logger(ctx).Info("Starting Telegram bot message listener")

	for {
		select {
		case <-ctx.Done():
			t.logger.Logger(ctx).Info("Shutting down Telegram bot listener")
			return
		case update := <-updates:
			if update.Message != nil {
				t.handleMessage(ctx, update.Message)
			}
		}
	}
}

func (t *Telegram) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	tracer := otel.Tracer("telegram/handleMessage")
	ctx, span := tracer.Start(ctx, "handleMessage")
	defer span.End()

	if message.From == nil {
		return
	}

	user := message.From
	span.SetAttributes(
		attribute.Int64("user.id", user.ID),
		attribute.String("user.username", user.UserName),
	)

	text := message.Text
	if message.Voice != nil {
		transcribed, err := t.transcribeVoice(ctx, message.Voice)
		if err != nil {
			t.logger.Logger(ctx).Error("Failed to transcribe voice note", zap.Error(err))
			t.send(ctx, message.Chat.ID, "Sorry — I couldn't make out that voice note. Could you type it instead?")
			return
		}
		text = transcribed
	}

	if text == "" {
		return
	}

	t.logger.Logger(ctx).Info("Received message",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.UserName),
	)

	userID := fmt.Sprintf("tg:%d", user.ID)
	reply, err := t.router.Handle(ctx, userID, text)
	if err != nil {
		t.logger.Logger(ctx).Error("Failed to route message", zap.Error(err))
		return
	}

	t.send(ctx, message.Chat.ID, reply)
}

func (t *Telegram) transcribeVoice(ctx context.Context, voice *tgbotapi.Voice) (string, error) {
	fileURL, err := t.bot.GetFileDirectURL(voice.FileID)
	if err != nil {
		return "", fmt.Errorf("resolve voice file: %w", err)
	}

	audioData, err := httpmiddleware.HttpRequest(httpmiddleware.HttpRequestStruct{
		Method: "GET",
		Url:    fileURL,
	})
	if err != nil {
		return "", fmt.Errorf("download voice file: %w", err)
	}

	return t.deepgram.Transcribe(ctx, audioData)
}

func (t *Telegram) send(ctx context.Context, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		t.logger.Logger(ctx).Error("Failed to send response", zap.Error(err))
	}
}
