package sensor

import (
	"context"
	"fmt"

	serial "github.com/jacobsa/go-serial/serial"
	"github.com/rs/zerolog"
)

// SerialConfig describes the receiver port.
type SerialConfig struct {
	Port string
	Baud uint
}

// Serial reads NMEA sentences from a serial GPS or compass receiver.
type Serial struct {
	cfg    SerialConfig
	reader *NMEAReader
	log    zerolog.Logger
}

func NewSerial(cfg SerialConfig, sink Sink, log zerolog.Logger) *Serial {
	return &Serial{
		cfg:    cfg,
		reader: NewNMEAReader(sink, log),
		log:    log,
	}
}

func (s *Serial) Run(ctx context.Context) error {
	port, err := serial.Open(serial.OpenOptions{
		PortName:        s.cfg.Port,
		BaudRate:        s.cfg.Baud,
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
		ParityMode:      serial.PARITY_NONE,
	})
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", s.cfg.Port, err)
	}
	defer port.Close()

	s.log.Info().Str("port", s.cfg.Port).Uint("baud", s.cfg.Baud).Msg("Serial sensor port opened")

	// reads block in the scanner; closing the port on cancel unblocks it
	go func() {
		<-ctx.Done()
		port.Close()
	}()

	return s.reader.Read(ctx, port)
}
