package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceDISCON/pkg/avrswap"
	"github.com/OpenTraceLab/OpenTraceDISCON/pkg/discon"
	"github.com/OpenTraceLab/OpenTraceDISCON/pkg/exchange"
	"github.com/OpenTraceLab/OpenTraceDISCON/pkg/params"
	"github.com/OpenTraceLab/OpenTraceDISCON/pkg/record"
	"github.com/OpenTraceLab/OpenTraceDISCON/pkg/replay"
)

var (
	libraryPath string
	paramPath   string
	symbolName  string
	statesPath  string
	recordPath  string
	quiet       bool

	// Constant operating point, used when --states is not given
	stepCount    int
	timeStep     float64
	windSpeed    float64
	rotorSpeed   float64
	genTorque    float64
	genEff       float64
	bladePitch   float64
	yawFromNorth float64
	yawError     float64

	// Simulator controller
	simPitch       float64
	simTorque      float64
	simYawRate     float64
	simFailAfter   int
	simFailMessage string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Drive a controller through a sequence of turbine states",
	Long: `Load a controller, make its first call, then advance it once per
turbine state and print the commanded torque, pitch and nacelle yaw rate.

States come from a CSV file (--states) or a constant operating point
repeated --steps times. The generator speed of the constant operating
point is the rotor speed times the gearbox ratio from the parameter file.

Use --library sim to run against a built-in controller that commands
fixed values, useful for checking parameter files and state series.

Examples:
  # Constant wind against a compiled controller
  discon run --library ./libdiscon.so --params DISCON.IN --steps 100 --wind 11.4

  # Replay a state series and record every exchange
  discon run --library ./libdiscon.so --params DISCON.IN --states run.csv --record run

  # Simulator that fails after five steps
  discon run --library sim --params DISCON.IN --sim-fail-after 5`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&libraryPath, "library", "l", "sim",
		"controller shared library, or \"sim\" for the built-in simulator")
	runCmd.Flags().StringVarP(&paramPath, "params", "p", "",
		"controller parameter file (DISCON.IN)")
	runCmd.Flags().StringVar(&symbolName, "symbol", discon.DefaultSymbol,
		"exported controller entry point")
	runCmd.Flags().StringVarP(&statesPath, "states", "s", "",
		"CSV file of turbine states")
	runCmd.Flags().StringVarP(&recordPath, "record", "r", "",
		"record every exchange into this SQLite database")
	runCmd.Flags().BoolVarP(&quiet, "quiet", "q", false,
		"only print the final commands")

	runCmd.Flags().IntVarP(&stepCount, "steps", "n", 10,
		"number of steps for a constant operating point")
	runCmd.Flags().Float64Var(&timeStep, "dt", 0.1, "time step (s)")
	runCmd.Flags().Float64Var(&windSpeed, "wind", 10.0, "wind speed (m/s)")
	runCmd.Flags().Float64Var(&rotorSpeed, "rotor-speed", 4.0*avrswap.RPMToRadPerSec, "rotor speed (rad/s)")
	runCmd.Flags().Float64Var(&genTorque, "gen-torque", 0, "measured generator torque (N.m)")
	runCmd.Flags().Float64Var(&genEff, "gen-eff", 0.944, "generator efficiency")
	runCmd.Flags().Float64Var(&bladePitch, "pitch", 0, "blade pitch (rad)")
	runCmd.Flags().Float64Var(&yawFromNorth, "yaw", 0, "nacelle yaw from north (rad)")
	runCmd.Flags().Float64Var(&yawError, "yaw-error", 0, "yaw error (rad)")

	runCmd.Flags().Float64Var(&simPitch, "sim-pitch", 0.1, "simulator: commanded pitch (rad)")
	runCmd.Flags().Float64Var(&simTorque, "sim-torque", 1000, "simulator: commanded torque (N.m)")
	runCmd.Flags().Float64Var(&simYawRate, "sim-yaw-rate", 0.01, "simulator: commanded yaw rate (rad/s)")
	runCmd.Flags().IntVar(&simFailAfter, "sim-fail-after", -1,
		"simulator: report failure on every call after this many steps")
	runCmd.Flags().StringVar(&simFailMessage, "sim-fail-message", "ERROR",
		"simulator: failure message")

	runCmd.MarkFlagRequired("params")
}

func runRun(cmd *cobra.Command, args []string) error {
	if statesPath == "" && stepCount < 1 {
		return fmt.Errorf("--steps must be at least 1")
	}

	file, err := params.ReadFile(paramPath)
	if err != nil {
		return err
	}
	ratio, err := file.GearboxRatio()
	if err != nil {
		return err
	}

	states, err := loadStates(ratio)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("%s: no states", statesPath)
	}

	opts := seedOptions(states[0])

	if verbose {
		fmt.Printf("Loading controller %s (%s)...\n", libraryPath, opts.Symbol)
	}

	routine, err := createRoutine(libraryPath, opts.Symbol)
	if err != nil {
		return err
	}

	adapter, err := exchange.New(routine, file.Path, ratio, opts)
	if err != nil {
		routine.Close()
		return fmt.Errorf("failed to initialise controller: %w", err)
	}
	defer adapter.Close()

	var rec *record.SQLiteRecorder
	if recordPath != "" {
		rec, err = record.New(recordPath)
		if err != nil {
			return err
		}
		defer rec.Close()
		if verbose {
			fmt.Printf("Recording to %s\n", rec.Path())
		}
	}

	if !quiet {
		fmt.Printf("%6s %10s %14s %12s %12s\n", "STEP", "TIME", "TORQUE", "PITCH", "YAW RATE")
	}

	for i, st := range states {
		out, stepErr := adapter.Advance(st)

		if rec != nil {
			status, msg := adapter.Status()
			if err := rec.Record(record.NewStep(i, st, out, status, msg)); err != nil {
				return err
			}
		}

		if stepErr != nil {
			var serr *discon.StatusError
			if errors.As(stepErr, &serr) {
				logrus.WithFields(logrus.Fields{
					"step":   i,
					"status": serr.Status,
				}).Error(serr.Message)
			}
			return fmt.Errorf("step %d: %w", i, stepErr)
		}

		if !quiet {
			fmt.Printf("%6d %10.3f %14.6g %12.6g %12.6g\n",
				i, st.Time, out.Torque, out.Pitch, out.NacelleYawRate)
		}
	}

	fmt.Printf("\nFinal commands after %d step(s):\n", len(states))
	if err := adapter.Show(os.Stdout); err != nil {
		return err
	}
	if name := adapter.OutName(); name != "" && verbose {
		fmt.Printf("OutName %s\n", name)
	}
	return nil
}

// loadStates reads --states or builds the constant operating point.
func loadStates(gearboxRatio float64) ([]avrswap.TurbineState, error) {
	if statesPath != "" {
		return replay.ReadFile(statesPath)
	}

	return replay.Constant(avrswap.TurbineState{
		TimeStep:            timeStep,
		BladePitch:          bladePitch,
		GeneratorSpeed:      rotorSpeed * gearboxRatio,
		GeneratorTorque:     genTorque,
		GeneratorEfficiency: genEff,
		RotorSpeed:          rotorSpeed,
		WindSpeed:           windSpeed,
		YawFromNorth:        yawFromNorth,
		YawError:            yawError,
	}, stepCount), nil
}

// seedOptions derives the first-call estimates from the first state.
func seedOptions(first avrswap.TurbineState) *exchange.Options {
	opts := exchange.DefaultOptions()
	opts.WindSpeed = first.WindSpeed
	opts.RotorRPM = first.RotorSpeed / avrswap.RPMToRadPerSec
	opts.Yaw = first.YawFromNorth * avrswap.RadToDeg
	opts.YawError = first.YawError
	if first.TimeStep > 0 {
		opts.TimeStep = first.TimeStep
	}
	opts.Symbol = symbolName
	return opts
}

func createRoutine(path, symbol string) (discon.Routine, error) {
	switch path {
	case "sim", "simulator":
		if verbose {
			fmt.Println("Using simulator controller")
		}
		hook := discon.ConstantController(float32(simPitch), float32(simTorque), float32(simYawRate))
		if simFailAfter >= 0 {
			// The first call is initialisation; steps start after it.
			fail := discon.FailingController(-1, simFailMessage)
			calls := 0
			hook = discon.Chain(hook, func(avrSwap []float32, status *int32, inFile string, outName, msg []byte) {
				calls++
				if calls > simFailAfter+1 {
					fail(avrSwap, status, inFile, outName, msg)
				}
			})
		}
		return discon.NewSimRoutine(hook), nil

	default:
		return discon.Open(path, symbol)
	}
}
