// Package main is the entry point for the blog server. It reads
// configuration from the environment, builds the logger, and hands off to
// internal/server. All actual logic lives in imported packages.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/tahmid/blog-engine/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	dbPath := "data/blog.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(dbPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// SESSION_SECRET signs the session tokens. Generate one with:
	//   SESSION_SECRET=$(openssl rand -hex 32)
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		logger.Error("SESSION_SECRET not set")
		os.Exit(1)
	}

	lifetime := 24 * time.Hour
	if hoursStr := os.Getenv("SESSION_LIFETIME_HOURS"); hoursStr != "" {
		hours, err := strconv.Atoi(hoursStr)
		if err != nil || hours <= 0 {
			logger.Error("invalid SESSION_LIFETIME_HOURS value", slog.String("value", hoursStr))
			os.Exit(1)
		}
		lifetime = time.Duration(hours) * time.Hour
	}

	// The first account to register gets ID 1 and becomes the admin.
	adminID := int64(1)
	if idStr := os.Getenv("ADMIN_USER_ID"); idStr != "" {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil || id <= 0 {
			logger.Error("invalid ADMIN_USER_ID value", slog.String("value", idStr))
			os.Exit(1)
		}
		adminID = id
	}

	cfg := server.Config{
		Port:            port,
		DBPath:          dbPath,
		SessionSecret:   secret,
		SessionLifetime: lifetime,
		AdminUserID:     adminID,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
