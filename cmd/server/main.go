package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/DanielCC02/Acedema-Back/internal/config"
	"github.com/DanielCC02/Acedema-Back/internal/db"
	internalhttp "github.com/DanielCC02/Acedema-Back/internal/http"
	"github.com/DanielCC02/Acedema-Back/internal/mail"
	"github.com/DanielCC02/Acedema-Back/internal/ratelimit"
	"github.com/DanielCC02/Acedema-Back/internal/repository"
	"github.com/DanielCC02/Acedema-Back/internal/service"
)

func main() {
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connection failed: %v", err)
	}
	defer pool.Close()

	store := repository.NewStore(pool)
	personas := service.NewPersonaService(store)
	matriculas := service.NewMatriculaService(store, store)

	var mailer internalhttp.Mailer
	if cfg.SMTPHost != "" {
		mailer = mail.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFromName, cfg.MailFromAddress)
	} else {
		log.Printf("SMTP_HOST not set, recovery emails will be logged only")
		mailer = logMailer{}
	}

	var limiter *ratelimit.Limiter
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatalf("redis ping failed: %v", err)
		}
		cancel()
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Printf("redis close error: %v", err)
			}
		}()
		limiter = ratelimit.New(redisClient, cfg.RecoveryPerHour, time.Hour)
	}

	server := internalhttp.NewServer(cfg, personas, matriculas, mailer, limiter)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("acedema-back listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

// logMailer stands in for SMTP during local development.
type logMailer struct{}

func (logMailer) SendRecoveryEmail(_ context.Context, correo, url string) error {
	log.Printf("recovery email for %s: %s", correo, url)
	return nil
}
