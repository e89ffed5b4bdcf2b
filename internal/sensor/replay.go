package sensor

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Replay feeds recorded NMEA sentences from a file, one sentence per
// interval, to simulate a live receiver.
type Replay struct {
	path     string
	interval time.Duration
	reader   *NMEAReader
	log      zerolog.Logger
}

func NewReplay(path string, sink Sink, log zerolog.Logger) *Replay {
	return &Replay{
		path:     path,
		interval: time.Duration(viper.GetInt("sensor.replayIntervalMillis")) * time.Millisecond,
		reader:   NewNMEAReader(sink, log),
		log:      log,
	}
}

func (r *Replay) Run(ctx context.Context) error {
	if r.path == "" {
		return fmt.Errorf("replay source requires sensor.replayPath")
	}

	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("failed to open replay file: %w", err)
	}
	defer f.Close()

	r.log.Info().Str("path", r.path).Dur("interval", r.interval).Msg("Replaying NMEA file")

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		r.reader.handleLine(scanner.Text())

		if r.interval > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.interval):
			}
		}
	}
	return scanner.Err()
}
