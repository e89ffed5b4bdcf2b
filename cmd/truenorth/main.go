// Command truenorth runs the alignment feedback service: it fuses position
// and heading samples, drives the haptic state machine toward the selected
// destination, and publishes live state to UI clients.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/truenorth-nav/truenorth/internal/clock"
	"github.com/truenorth-nav/truenorth/internal/config"
	"github.com/truenorth-nav/truenorth/internal/geocode"
	"github.com/truenorth-nav/truenorth/internal/haptic"
	"github.com/truenorth-nav/truenorth/internal/history"
	"github.com/truenorth-nav/truenorth/internal/influx"
	"github.com/truenorth-nav/truenorth/internal/logging"
	"github.com/truenorth-nav/truenorth/internal/monitor"
	"github.com/truenorth-nav/truenorth/internal/places"
	"github.com/truenorth-nav/truenorth/internal/sensor"
	"github.com/truenorth-nav/truenorth/internal/session"
	"github.com/truenorth-nav/truenorth/internal/stream"
)

// set at build time via ldflags
var (
	CurrentVersion string = "0.1.0"
	BuildDate      string = "unknown"
)

func main() {
	configDir := flag.String("config", ".", "directory containing truenorth.cfg.json")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("truenorth %s (built %s)\n", CurrentVersion, BuildDate)
		return
	}

	if err := run(*configDir); err != nil {
		fmt.Fprintf(os.Stderr, "truenorth: %v\n", err)
		os.Exit(1)
	}
}

func run(configDir string) error {
	if err := config.Load(configDir); err != nil {
		return err
	}

	logsDir := viper.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs dir: %w", err)
	}

	logFile, err := os.Create(logging.LogFilePath(logsDir, "truenorth", time.Now()))
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer logFile.Close()

	log := logging.Setup(logFile, viper.GetString("logLevel"))
	log.Info().
		Str("version", CurrentVersion).
		Str("buildDate", BuildDate).
		Msg("Starting truenorth")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := history.NewStore(viper.GetString("history.type"), viper.GetString("history.path"), log)
	if err != nil {
		return err
	}
	defer store.Close()

	sess, err := session.New(session.Dependencies{
		Log:            log,
		Clock:          clock.System(),
		Engine:         haptic.Detect(nil, log),
		Store:          store,
		Resolver:       geocode.New(viper.GetString("geocode.serverUrl"), log),
		HapticConfig:   haptic.ConfigFromViper(),
		HistoryLimit:   viper.GetInt("history.limit"),
		GeocodeRefresh: time.Duration(viper.GetInt("geocode.refreshSeconds")) * time.Second,
	})
	if err != nil {
		return err
	}

	source, err := sensor.NewSource(sess, log)
	if err != nil {
		return err
	}

	var influxMgr *influx.Manager
	if viper.GetBool("influx.enabled") {
		influxMgr = influx.NewManager(log, filepath.Join(logsDir, "influx_backup.gz"))
		if err := influxMgr.Connect(); err != nil {
			log.Warn().Err(err).Msg("InfluxDB unavailable, telemetry disabled")
			influxMgr = nil
		} else {
			defer influxMgr.Close()
		}
	}

	var streamSrv *stream.Server
	if viper.GetBool("stream.enabled") {
		streamSrv = stream.New(viper.GetString("stream.listenAddr"), log)
		streamSrv.Start()
	}
	go publishUpdates(ctx, sess, streamSrv, influxMgr, log)

	mon := monitor.NewService(monitor.Dependencies{
		Log:        log,
		Session:    sess,
		Influx:     influxMgr,
		StatusPath: filepath.Join(logsDir, "status.json"),
	})
	mon.Start()
	defer mon.Stop()

	searcher := places.New(viper.GetString("places.serverUrl"), viper.GetInt("places.maxCandidates"), log)
	go runConsole(ctx, os.Stdin, os.Stdout, sess, searcher, log)

	errCh := make(chan error, 2)
	go func() { errCh <- sess.Run(ctx) }()
	go func() {
		if err := source.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("Sensor source stopped")
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}

	sess.Close()
	if streamSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		streamSrv.Shutdown(shutdownCtx)
	}
	log.Info().Msg("Stopped")
	return nil
}

// publishUpdates fans published session state out to the WebSocket stream and
// InfluxDB. A culmination gets its own stream message so clients can chime
// without diffing snapshots.
func publishUpdates(ctx context.Context, sess *session.Session, streamSrv *stream.Server, influxMgr *influx.Manager, log zerolog.Logger) {
	updates, unsubscribe := sess.Subscribe()
	defer unsubscribe()

	var lastCulminations uint64
	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-updates:
			if !ok {
				return
			}
			if streamSrv != nil {
				streamSrv.Broadcast(stream.TypeState, st)
				if st.Culminations > lastCulminations {
					streamSrv.Broadcast(stream.TypeCulmination, st)
				}
			}
			lastCulminations = st.Culminations

			if influxMgr != nil {
				if err := influxMgr.WritePoint(influx.BucketNavigation, influx.AlignmentPoint(st)); err != nil {
					log.Debug().Err(err).Msg("Alignment telemetry write failed")
				}
			}
		}
	}
}
