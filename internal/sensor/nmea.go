package sensor

import (
	"bufio"
	"context"
	"io"
	"strings"

	nmea "github.com/adrianmo/go-nmea"
	"github.com/rs/zerolog"

	"github.com/truenorth-nav/truenorth/internal/model"
)

// courseSpeedFloorKnots is the minimum ground speed at which an RMC course is
// trusted as a heading. Below this the course is noise.
const courseSpeedFloorKnots = 0.5

// NMEAReader consumes a stream of NMEA sentences and feeds the sink.
// RMC provides position, HDT and HDG provide heading. When no dedicated
// heading sentence is present, the RMC course over ground stands in for
// heading while moving.
type NMEAReader struct {
	sink Sink
	log  zerolog.Logger
}

func NewNMEAReader(sink Sink, log zerolog.Logger) *NMEAReader {
	return &NMEAReader{sink: sink, log: log}
}

// Read parses sentences from r until EOF or context cancellation.
func (n *NMEAReader) Read(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		n.handleLine(scanner.Text())
	}
	return scanner.Err()
}

func (n *NMEAReader) handleLine(line string) {
	line = strings.TrimSpace(line)
	if line == "" || !strings.HasPrefix(line, "$") {
		return
	}

	sentence, err := nmea.Parse(line)
	if err != nil {
		// partial or garbled sentences are routine on live receivers
		n.log.Debug().Err(err).Str("line", line).Msg("NMEA parse error")
		return
	}

	switch sentence.DataType() {
	case nmea.TypeRMC:
		m := sentence.(nmea.RMC)
		if m.Validity != nmea.ValidRMC {
			return
		}
		n.sink.PositionUpdate(model.Coordinate{
			Latitude:  m.Latitude,
			Longitude: m.Longitude,
		})
		if m.Speed >= courseSpeedFloorKnots {
			n.sink.HeadingUpdate(m.Course)
		}
	case nmea.TypeHDT:
		m := sentence.(nmea.HDT)
		if m.True {
			n.sink.HeadingUpdate(m.Heading)
		}
	case nmea.TypeHDG:
		m := sentence.(nmea.HDG)
		n.sink.HeadingUpdate(m.Heading)
	}
}
