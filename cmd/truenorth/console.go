package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/truenorth-nav/truenorth/internal/cache"
	"github.com/truenorth-nav/truenorth/internal/geo"
	"github.com/truenorth-nav/truenorth/internal/model"
	"github.com/truenorth-nav/truenorth/internal/places"
	"github.com/truenorth-nav/truenorth/internal/session"
)

const searchTimeout = 10 * time.Second

// runConsole reads destination commands from in. It is the on-device stand-in
// for the UI's destination picker.
func runConsole(ctx context.Context, in io.Reader, out io.Writer, sess *session.Session, searcher places.Searcher, log zerolog.Logger) {
	var candidates []cache.Candidate

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "search":
			if len(fields) < 2 {
				fmt.Fprintln(out, "usage: search <query>")
				continue
			}
			query := strings.Join(fields[1:], " ")

			searchCtx, cancel := context.WithTimeout(ctx, searchTimeout)
			found, err := searcher.Search(searchCtx, query)
			cancel()
			if err != nil {
				fmt.Fprintf(out, "search failed: %v\n", err)
				continue
			}
			candidates = found
			for i, c := range candidates {
				fmt.Fprintf(out, "%2d  %s\n", i, c.Address)
			}
			if len(candidates) == 0 {
				fmt.Fprintln(out, "no matches")
			}

		case "go":
			if len(fields) != 2 {
				fmt.Fprintln(out, "usage: go <result number>")
				continue
			}
			idx, err := strconv.Atoi(fields[1])
			if err != nil || idx < 0 || idx >= len(candidates) {
				fmt.Fprintln(out, "no such search result")
				continue
			}

			resolveCtx, cancel := context.WithTimeout(ctx, searchTimeout)
			dest, err := searcher.Resolve(resolveCtx, candidates[idx].ID)
			cancel()
			if err != nil {
				fmt.Fprintf(out, "resolve failed: %v\n", err)
				continue
			}
			sess.SetDestination(dest)
			fmt.Fprintf(out, "destination: %s\n", dest.DisplayName)

		case "dest":
			if len(fields) < 3 {
				fmt.Fprintln(out, "usage: dest <lat,lon> <address>")
				continue
			}
			coord, err := geo.CoordinateFromString(fields[1])
			if err != nil {
				fmt.Fprintf(out, "bad coordinate: %v\n", err)
				continue
			}
			dest := model.NewDestination(strings.Join(fields[2:], " "), coord)
			sess.SetDestination(dest)
			fmt.Fprintf(out, "destination: %s\n", dest.DisplayName)

		case "recent":
			recent := sess.State().Recent
			if len(fields) == 2 {
				idx, err := strconv.Atoi(fields[1])
				if err != nil || idx < 0 || idx >= len(recent) {
					fmt.Fprintln(out, "no such recent destination")
					continue
				}
				sess.SetDestination(recent[idx])
				fmt.Fprintf(out, "destination: %s\n", recent[idx].DisplayName)
				continue
			}
			for i, d := range recent {
				fmt.Fprintf(out, "%2d  %s\n", i, d.Address)
			}
			if len(recent) == 0 {
				fmt.Fprintln(out, "no recent destinations")
			}

		case "status":
			printStatus(out, sess.State())

		case "help":
			fmt.Fprintln(out, "commands: search <query> | go <n> | dest <lat,lon> <address> | recent [n] | status | quit")

		case "quit", "exit":
			return

		default:
			fmt.Fprintf(out, "unknown command %q, try help\n", fields[0])
		}
	}

	if err := scanner.Err(); err != nil {
		log.Warn().Err(err).Msg("Console input closed")
	}
}

func printStatus(out io.Writer, st session.State) {
	if !st.HasFix {
		fmt.Fprintln(out, "waiting for position fix")
	} else {
		fmt.Fprintf(out, "position: %.5f,%.5f", st.Position.Coordinate.Latitude, st.Position.Coordinate.Longitude)
		if st.Position.Place != "" {
			fmt.Fprintf(out, " (%s, %.0f ft)", st.Position.Place, st.Position.ElevationFeet)
		}
		if st.HasHeading {
			fmt.Fprintf(out, "  heading %.1f %s\n", st.Position.Heading, st.Direction)
		} else {
			fmt.Fprintln(out, "  heading unknown")
		}
	}

	if st.Destination == nil {
		fmt.Fprintln(out, "no destination set")
		return
	}
	fmt.Fprintf(out, "destination: %s\n", st.Destination.DisplayName)

	if st.HasReading {
		fmt.Fprintf(out, "bearing %.1f  distance %.2f mi  error %+.1f\n",
			st.Reading.Bearing, st.Reading.DistanceMiles, st.Reading.Error)
	}
	fmt.Fprintf(out, "haptics: %s  hold %3.0f%%  culminations %d\n",
		st.HapticState, st.HoldProgress*100, st.Culminations)
}
