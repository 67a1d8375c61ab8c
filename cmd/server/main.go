package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"homeland/backend/internal/config"
	"homeland/backend/internal/httpapi"
	"homeland/backend/internal/pricing"
	"homeland/backend/internal/service"
	"homeland/backend/internal/session"
	"homeland/backend/internal/store"
	"homeland/backend/internal/store/memory"
	pgstore "homeland/backend/internal/store/postgres"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := validateSecurityConfig(cfg); err != nil {
		log.Fatalf("invalid security configuration: %v", err)
	}
	withholdMode, err := parseWithholdMode(cfg.TaxWithholdBase)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var repo store.Repository
	closers := make([]func() error, 0, 2)

	if cfg.DatabaseURL != "" {
		pg, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres unavailable (%v) and DATABASE_URL is set; refusing to start with in-memory fallback", err)
		}
		repo = pg
		closers = append(closers, pg.Close)
		log.Println("repository: postgres")
	} else {
		repo = memory.NewSeeded()
		log.Println("repository: in-memory")
	}

	sessionStore := session.Store(session.NewMemoryStore())
	if cfg.RedisAddr != "" {
		redisStore := session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisStore.Ping(ctx); err != nil {
			log.Printf("redis unavailable (%v), using in-memory sessions", err)
		} else {
			sessionStore = redisStore
			closers = append(closers, redisStore.Close)
			log.Println("sessions: redis")
		}
	} else {
		log.Println("sessions: in-memory")
	}

	sessions := session.NewManager(sessionStore, []byte(cfg.SessionSecret), time.Duration(cfg.SessionTTLHours)*time.Hour)
	svc := service.New(repo, withholdMode)
	api := httpapi.New(svc, sessions, cfg.AllowedOrigin, cfg.SecureCookies)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("booking backend listening on %s", cfg.Address())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Printf("close error: %v", err)
		}
	}

	log.Println("server stopped")
}

func validateSecurityConfig(cfg config.Config) error {
	if len(cfg.SessionSecret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be set and at least 32 characters")
	}
	return nil
}

func parseWithholdMode(base string) (pricing.WithholdMode, error) {
	switch base {
	case "after_discount":
		return pricing.WithholdAfterDiscount, nil
	case "after_gst":
		return pricing.WithholdAfterGST, nil
	}
	return 0, fmt.Errorf("TAX_WITHHOLD_BASE must be after_discount or after_gst, got %q", base)
}
