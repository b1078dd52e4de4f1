package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hyperdxio/opentelemetry-logs-go/exporters/otlp/otlplogs"
	sdk "github.com/hyperdxio/opentelemetry-logs-go/sdk/logs"
	"github.com/hyperdxio/otel-config-go/otelconfig"

	"smartiedev/baseline"
	"smartiedev/database/postgres"
	"smartiedev/logger"
	"smartiedev/modelapi/deepgramapi"
	"smartiedev/modelapi/geminiapi"
	"smartiedev/modelapi/twilioapi"
	"smartiedev/router"
	"smartiedev/session"
	"smartiedev/telegram"
	"smartiedev/tracker"
	"smartiedev/web"
)

const defaultPort = "80"

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}
	godotenv.Load()
	production := os.Getenv("PRODUCTION") != ""

	otelShutdown, err := otelconfig.ConfigureOpenTelemetry()
	if err != nil {
		log.Fatalf("Error setting up OTel SDK - %e", err)
	}
	defer otelShutdown()
	ctx := context.Background()

	logExporter, _ := otlplogs.NewExporter(ctx)
	loggerProvider := sdk.NewLoggerProvider(sdk.WithBatcher(logExporter))
	defer loggerProvider.Shutdown(ctx)

	LogMiddleware := logger.Connect(logger.LoggerConnectProps{Production: production, LoggerProvider: loggerProvider})
	Logger := LogMiddleware.Logger(ctx)

	// Session storage: redis when configured, otherwise in-process.
	var sessions session.Store = session.NewMemoryStore()
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			Logger.Fatal("[Server] Invalid REDIS_URL", zap.Error(err))
		}
		sessions = session.NewRedisStore(redis.NewClient(opts))
		Logger.Info("[Server] Using redis session store")
	} else {
		Logger.Info("[Server] Using in-memory session store")
	}

	// Goal/log storage: postgres when configured, otherwise in-process.
	var goals tracker.Store = tracker.NewMemoryStore()
	if os.Getenv("POSTGRES_DB_HOST") != "" {
		goals = postgres.Connect(ctx, postgres.DatabaseConnectProps{Logger: LogMiddleware})
	} else {
		Logger.Info("[Server] Using in-memory goal store")
	}

	geminiClient := geminiapi.Connect(ctx, geminiapi.GeminiConnectProps{Logger: LogMiddleware})
	deepgramClient := deepgramapi.Connect(LogMiddleware)
	twilioClient := twilioapi.Connect(ctx, twilioapi.TwilioConnectProps{Logger: LogMiddleware})

	baselineFlow := baseline.Connect(baseline.FlowConnectProps{
		Logger:   LogMiddleware,
		Sessions: sessions,
		Tracker:  goals,
	})
	messageRouter := router.Connect(router.RouterConnectProps{
		Logger:   LogMiddleware,
		Baseline: baselineFlow,
		Tracker:  goals,
		Gemini:   geminiClient,
	})

	// Telegram transport is optional; the web surface always runs.
	if os.Getenv("TELEGRAM_BOT_TOKEN") != "" {
		telegramBot := telegram.Connect(ctx, telegram.TelegramConnectProps{
			Logger:   LogMiddleware,
			Router:   messageRouter,
			Deepgram: deepgramClient,
		})
		go telegramBot.Listen(ctx)
	}

	webServer := web.Connect(web.ServerConnectProps{
		Logger: LogMiddleware,
		Router: messageRouter,
		Twilio: twilioClient,
	})

	if production == false {
		Logger.Info("[Server] Smartie starting in development mode", zap.String("port", port))
	} else {
		Logger.Info("[Server] Smartie starting in production mode", zap.String("port", port))
	}

	if err := http.ListenAndServe(":"+port, webServer.Handler()); err != nil {
		Logger.Fatal("[Server] HTTP server stopped", zap.Error(err))
	}
}
