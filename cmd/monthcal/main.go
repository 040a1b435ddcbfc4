package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"monthcal/internal/calendar"
	"monthcal/internal/config"
	"monthcal/internal/events"
	appLog "monthcal/internal/log"
	"monthcal/internal/scheduler"
	"monthcal/internal/session"
	"monthcal/internal/web"
)

// flagConfig holds CLI flag values that override the config file.
type flagConfig struct {
	configPath string
	listen     string
	eventsFile string
}

func main() {
	appLog.Info("monthcal starting", "version", "0.1.0")

	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	if flags.listen != "" {
		conf.Listen = flags.listen
	}
	if flags.eventsFile != "" {
		conf.EventsFile = flags.eventsFile
	}
	appLog.SetLevel(appLog.ParseLevel(conf.LogLevel))

	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"week_start", conf.WeekStart,
		"events_file", conf.EventsFile,
		"rollover", conf.Rollover,
		"log_level", conf.LogLevel,
	)

	loc := resolveLocationOrLocal(conf.Timezone)
	now := func() time.Time { return time.Now().In(loc) }

	weekStart, err := calendar.ParseWeekStart(conf.WeekStart)
	if err != nil {
		appLog.Error("invalid week_start", err, "week_start", conf.WeekStart)
		os.Exit(1)
	}

	store := events.NewStore()
	if conf.EventsFile != "" {
		seed, err := events.LoadFile(conf.EventsFile)
		if err != nil {
			appLog.Error("failed to load events file", err, "path", conf.EventsFile)
			os.Exit(1)
		}
		if err := store.Seed(seed); err != nil {
			appLog.Error("failed to seed events", err, "path", conf.EventsFile)
			os.Exit(1)
		}
	}

	sess := session.New(store, weekStart, now)

	rollover, err := scheduler.NewRollover(conf.Rollover, loc, sess)
	if err != nil {
		appLog.Error("invalid rollover schedule", err, "rollover", conf.Rollover)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		appLog.Info("rollover scheduled", "next", rollover.Next().Format(time.RFC3339))
		rollover.Run(ctx)
	}()

	srv := web.NewServer(conf, sess, now)
	if err := srv.Serve(ctx); err != nil {
		appLog.Error("http server failed", err, "listen", conf.Listen)
		cancel()
		wg.Wait()
		os.Exit(1)
	}

	wg.Wait()
	appLog.Info("monthcal exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "./monthcal.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.StringVar(&cfg.eventsFile, "events", "", "Seed events file (.json, .yaml, .ics; overrides config if set)")

	flag.Parse()

	return cfg
}

func resolveLocationOrLocal(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", name)
		return time.Local
	}
	return loc
}
