package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/timeclock/internal/domain/models"
	"github.com/mamadbah2/timeclock/internal/widget"
	"github.com/mamadbah2/timeclock/pkg/clients/timeclock"
	"github.com/mamadbah2/timeclock/pkg/logger"
)

func main() {
	server := flag.String("server", getenvWithDefault("TIMECLOCK_SERVER", "http://localhost:8080"), "time tracking API base URL")
	staffID := flag.String("staff", "", "staff id")
	action := flag.String("action", "", "clock_in, clock_out, break or lunch; toggles clock in/out when empty")
	confirm := flag.Bool("confirm", false, "confirm clock_out")
	level := flag.String("log-level", "warn", "log level")
	flag.Parse()

	if *staffID == "" {
		fmt.Fprintln(os.Stderr, "-staff is required")
		flag.Usage()
		os.Exit(2)
	}

	baseLogger := logger.Must(logger.New(logger.Options{Level: *level}))
	defer func() { _ = baseLogger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	w := widget.New(timeclock.NewClient(*server), *staffID, logger.Named(baseLogger, "widget"))

	last, err := w.Load(ctx)
	if err != nil {
		baseLogger.Error("failed to load status", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Error occurred. Please check your connection.")
		os.Exit(1)
	}
	fmt.Printf("Current status: %s\n", last.Label())

	var msg string
	if *action == "" {
		_, msg, err = w.Toggle(ctx)
	} else {
		msg, err = w.Press(ctx, models.Action(*action), *confirm)
	}

	switch {
	case errors.Is(err, widget.ErrConfirmationRequired):
		fmt.Fprintln(os.Stderr, "Are you sure you want to clock out? Re-run with -confirm.")
		os.Exit(1)
	case errors.Is(err, widget.ErrAlreadyInState):
		fmt.Fprintf(os.Stderr, "You are already %s!\n", models.Action(*action).Label())
		os.Exit(1)
	case err != nil:
		baseLogger.Error("clock action failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println(msg)
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
