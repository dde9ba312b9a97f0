package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"example.com/gymtag/internal/api"
	"example.com/gymtag/internal/auth"
	"example.com/gymtag/internal/chat"
	"example.com/gymtag/internal/config"
	"example.com/gymtag/internal/domain"
	"example.com/gymtag/internal/events"
	"example.com/gymtag/internal/observability"
	persistence "example.com/gymtag/internal/persistence/postgres"
	"example.com/gymtag/internal/session"
	httptransport "example.com/gymtag/internal/transport/http"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	repo := persistence.NewRepository(pool)
	service := domain.NewService(repo, repo)

	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	} else {
		log.Println("KAFKA_BROKERS not set, events go to the log only")
		publisher = events.LogPublisher{Logger: log.Default()}
	}

	sessionCfg := session.DefaultConfig()
	store := session.NewStore(sessionCfg, cfg.SessionTTL, func(workout *domain.Workout, sessionID string) {
		observability.RecordWorkoutCompleted()
		event := events.WorkoutCompleted{
			SessionID:   sessionID,
			WorkoutID:   workout.ID,
			WorkoutName: workout.Name,
			EntryCount:  len(workout.Entries),
			CompletedAt: time.Now().UTC(),
		}
		if err := publisher.Publish(context.Background(), events.TopicSession, events.TypeWorkoutCompleted, workout.ID, event); err != nil {
			log.Printf("publish completion event: %v", err)
		}
	})
	defer store.Close()

	var relay api.Relay
	if cfg.ChatAPIKey != "" {
		relay = chat.NewClient(chat.Config{
			BaseURL:     cfg.ChatBaseURL,
			APIKey:      cfg.ChatAPIKey,
			Model:       cfg.ChatModel,
			Temperature: cfg.ChatTemperature,
			MaxTokens:   cfg.ChatMaxTokens,
			Timeout:     cfg.ChatTimeout,
		})
	} else {
		log.Println("CHAT_API_KEY not set, chat endpoint disabled")
	}

	handler := api.NewHandler(service, store, sessionCfg, relay, publisher, log.Default())
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	// Simple CORS middleware for local dev
	cors := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "http://localhost:5173")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	// Basic request logger
	logger := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Printf("%s %s", r.Method, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}

	authMiddleware := auth.NewMiddleware(auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}, auth.PublicPaths)

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address: cfg.HTTPAddress,
	}, authMiddleware.Wrap(logger(cors(mux))))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("gymtag api listening on %s", cfg.HTTPAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
