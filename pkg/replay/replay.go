// Package replay produces turbine-state series for driving an exchange
// adapter: either a prerecorded CSV time series or a constant operating point.
package replay

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/OpenTraceLab/OpenTraceDISCON/pkg/avrswap"
)

// ErrBadSeries is returned for malformed state files.
var ErrBadSeries = errors.New("replay: bad state series")

// Columns lists the required CSV header names in canonical order.
var Columns = []string{
	"time", "dt", "bld_pitch", "gen_speed", "gen_torque",
	"gen_eff", "rot_speed", "ws", "yaw_from_north", "yaw_err",
}

func field(st *avrswap.TurbineState, column string) *float64 {
	switch column {
	case "time":
		return &st.Time
	case "dt":
		return &st.TimeStep
	case "bld_pitch":
		return &st.BladePitch
	case "gen_speed":
		return &st.GeneratorSpeed
	case "gen_torque":
		return &st.GeneratorTorque
	case "gen_eff":
		return &st.GeneratorEfficiency
	case "rot_speed":
		return &st.RotorSpeed
	case "ws":
		return &st.WindSpeed
	case "yaw_from_north":
		return &st.YawFromNorth
	case "yaw_err":
		return &st.YawError
	}
	return nil
}

// ReadCSV parses a header row followed by one state per row. Column order is
// free, every column in Columns must be present, unknown columns are ignored.
func ReadCSV(r io.Reader) ([]avrswap.TurbineState, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: missing header", ErrBadSeries)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSeries, err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range Columns {
		if _, ok := index[c]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrBadSeries, c)
		}
	}

	var states []avrswap.TurbineState
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadSeries, err)
		}
		line, _ := cr.FieldPos(0)

		var st avrswap.TurbineState
		for _, c := range Columns {
			raw := strings.TrimSpace(rec[index[c]])
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %s: %q is not a number",
					ErrBadSeries, line, c, raw)
			}
			*field(&st, c) = v
		}
		states = append(states, st)
	}

	logrus.WithFields(logrus.Fields{
		"function": "replay.ReadCSV",
		"states":   len(states),
	}).Debug("Read state series")

	return states, nil
}

// ReadFile opens and parses a CSV state file.
func ReadFile(path string) ([]avrswap.TurbineState, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSeries, err)
	}
	defer f.Close()

	states, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return states, nil
}

// Constant repeats st for the given number of steps, advancing Time by
// TimeStep each step starting at st.Time.
func Constant(st avrswap.TurbineState, steps int) []avrswap.TurbineState {
	if steps <= 0 {
		return nil
	}
	out := make([]avrswap.TurbineState, steps)
	for i := range out {
		out[i] = st
		out[i].Time = st.Time + float64(i)*st.TimeStep
	}
	return out
}
