package replay

import (
	"errors"
	"strings"
	"testing"

	"github.com/OpenTraceLab/OpenTraceDISCON/pkg/avrswap"
)

func TestReadFile(t *testing.T) {
	states, err := ReadFile("testdata/states.csv")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(states) != 3 {
		t.Fatalf("got %d states, want 3", len(states))
	}

	last := states[2]
	if last.Time != 0.2 || last.TimeStep != 0.1 {
		t.Errorf("time/dt = %g/%g", last.Time, last.TimeStep)
	}
	if last.GeneratorSpeed != 122.7 || last.GeneratorEfficiency != 0.944 {
		t.Errorf("generator = %g/%g", last.GeneratorSpeed, last.GeneratorEfficiency)
	}
	if last.WindSpeed != 11.6 || last.YawError != -0.02 {
		t.Errorf("ws/yaw_err = %g/%g", last.WindSpeed, last.YawError)
	}
}

func TestReadCSVColumnOrderFree(t *testing.T) {
	in := "yaw_err,yaw_from_north,ws,rot_speed,gen_eff,gen_torque,gen_speed,bld_pitch,dt,time,extra\n" +
		"1,2,3,4,5,6,7,8,9,10,ignored\n"
	states, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	want := avrswap.TurbineState{
		Time: 10, TimeStep: 9, BladePitch: 8, GeneratorSpeed: 7, GeneratorTorque: 6,
		GeneratorEfficiency: 5, RotorSpeed: 4, WindSpeed: 3, YawFromNorth: 2, YawError: 1,
	}
	if len(states) != 1 || states[0] != want {
		t.Errorf("got %+v, want %+v", states, want)
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"missing column", "time,dt\n0,0.1\n"},
		{"not a number", strings.Join(Columns, ",") + "\n0,0.1,x,0,0,0,0,0,0,0\n"},
		{"short row", strings.Join(Columns, ",") + "\n0,0.1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.in))
			if !errors.Is(err, ErrBadSeries) {
				t.Errorf("error = %v, want ErrBadSeries", err)
			}
		})
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile("testdata/nope.csv"); !errors.Is(err, ErrBadSeries) {
		t.Errorf("error = %v, want ErrBadSeries", err)
	}
}

func TestConstant(t *testing.T) {
	st := avrswap.TurbineState{Time: 1, TimeStep: 0.5, WindSpeed: 8}
	series := Constant(st, 4)
	if len(series) != 4 {
		t.Fatalf("len = %d", len(series))
	}
	for i, s := range series {
		if want := 1 + float64(i)*0.5; s.Time != want {
			t.Errorf("step %d time = %g, want %g", i, s.Time, want)
		}
		if s.WindSpeed != 8 {
			t.Errorf("step %d wind = %g", i, s.WindSpeed)
		}
	}
	if Constant(st, 0) != nil {
		t.Error("zero steps should give nil")
	}
}
