package exchange

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/OpenTraceLab/OpenTraceDISCON/pkg/avrswap"
	"github.com/OpenTraceLab/OpenTraceDISCON/pkg/discon"
	"github.com/OpenTraceLab/OpenTraceDISCON/pkg/params"
)

// ErrClosed is returned by Advance after Close.
var ErrClosed = errors.New("exchange: adapter closed")

// Adapter owns the exchange buffer and drives a controller routine one
// timestep at a time. It is not safe for concurrent use.
type Adapter struct {
	routine discon.Routine
	buf     *avrswap.Buffer

	// Arguments of the native call, allocated once and reused.
	status  int32
	inFile  []byte
	outName []byte
	msg     []byte

	paramPath    string
	gearboxRatio float64

	last   avrswap.ControlOutput
	calls  int
	closed bool

	log *logrus.Entry
}

// Open loads the controller library at libraryPath and constructs an Adapter
// around it. Library failures wrap discon.ErrLibraryLoad; parameter file
// failures wrap params.ErrConfigRead.
func Open(libraryPath, paramPath string, opts *Options) (*Adapter, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	lib, err := discon.Open(libraryPath, opts.Symbol)
	if err != nil {
		return nil, fmt.Errorf("exchange: %w", err)
	}

	return OpenRoutine(lib, paramPath, opts)
}

// OpenRoutine reads the gearbox ratio from paramPath and constructs an
// Adapter around routine. The routine is closed if construction fails.
func OpenRoutine(routine discon.Routine, paramPath string, opts *Options) (*Adapter, error) {
	pf, err := params.ReadFile(paramPath)
	if err != nil {
		routine.Close()
		return nil, fmt.Errorf("exchange: %w", err)
	}

	ratio, err := pf.GearboxRatio()
	if err != nil {
		routine.Close()
		return nil, fmt.Errorf("exchange: %w", err)
	}

	a, err := New(routine, paramPath, ratio, opts)
	if err != nil {
		routine.Close()
		return nil, err
	}
	return a, nil
}

// New seeds a fresh exchange buffer, runs the controller's first call and
// switches the call-phase marker to subsequent. A negative status from the
// first call fails construction with a *discon.StatusError. New does not
// close routine on failure.
func New(routine discon.Routine, paramPath string, gearboxRatio float64, opts *Options) (*Adapter, error) {
	if routine == nil {
		return nil, fmt.Errorf("exchange: routine is nil")
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if gearboxRatio <= 0 {
		return nil, fmt.Errorf("exchange: gearbox ratio must be positive, got %g", gearboxRatio)
	}

	buf, err := avrswap.NewBuffer(opts.BufferSize)
	if err != nil {
		return nil, fmt.Errorf("exchange: %w", err)
	}

	a := &Adapter{
		routine:      routine,
		buf:          buf,
		inFile:       discon.CBytes(paramPath),
		outName:      make([]byte, discon.MessageBufferSize),
		msg:          make([]byte, discon.MessageBufferSize),
		paramPath:    paramPath,
		gearboxRatio: gearboxRatio,
		log: logrus.WithFields(logrus.Fields{
			"component": "exchange.Adapter",
			"params":    paramPath,
		}),
	}

	a.seed(opts)

	if err := buf.SetPhase(avrswap.PhaseFirstCall); err != nil {
		return nil, fmt.Errorf("exchange: %w", err)
	}
	a.invoke()
	if err := discon.CheckStatus(a.status, a.msg); err != nil {
		a.log.WithFields(logrus.Fields{
			"function": "New",
			"status":   a.status,
		}).Error("Controller rejected first call")
		return nil, fmt.Errorf("exchange: first call: %w", err)
	}
	a.reportWarning("New")

	if err := buf.SetPhase(avrswap.PhaseSubsequent); err != nil {
		return nil, fmt.Errorf("exchange: %w", err)
	}

	a.log.WithFields(logrus.Fields{
		"function":      "New",
		"gearbox_ratio": gearboxRatio,
		"wind_speed":    opts.WindSpeed,
		"rotor_rpm":     opts.RotorRPM,
		"buffer_size":   opts.BufferSize,
	}).Info("Controller initialized")

	return a, nil
}

// seed writes the first-call values into the buffer.
func (a *Adapter) seed(opts *Options) {
	rotorSpeed := opts.RotorRPM * avrswap.RPMToRadPerSec

	a.buf.Put(avrswap.SlotTimeStep, opts.TimeStep)
	a.buf.Put(avrswap.SlotBladeCount, float64(opts.NumBlades))
	a.buf.Put(avrswap.SlotGeneratorSpeed, rotorSpeed*a.gearboxRatio)
	a.buf.Put(avrswap.SlotRotorSpeed, rotorSpeed)
	a.buf.Put(avrswap.SlotYawError, opts.YawError)
	a.buf.Put(avrswap.SlotWindSpeed, opts.WindSpeed)
	a.buf.Put(avrswap.SlotYawFromNorth, opts.Yaw*avrswap.DegToRad)

	a.buf.Put(avrswap.SlotMessageMax, float64(opts.CharBufferSize))
	a.buf.Put(avrswap.SlotInFileLength, float64(len(a.paramPath)))
	a.buf.Put(avrswap.SlotOutNameMax, float64(opts.CharBufferSize))
	a.buf.Put(avrswap.SlotReservedLength, float64(opts.CharBufferSize))
}

// invoke hands the buffer to the controller. The buffer already has the
// float32 wire layout, so the controller mutates it in place and no copy back
// is needed.
func (a *Adapter) invoke() {
	clear(a.outName)
	clear(a.msg)

	a.routine.Call(a.buf.Floats(), &a.status, a.inFile, a.outName, a.msg)
	a.calls++

	a.log.WithFields(logrus.Fields{
		"function": "invoke",
		"call":     a.calls,
		"phase":    a.buf.Phase(),
		"status":   a.status,
	}).Debug("Controller call returned")
}

func (a *Adapter) reportWarning(fn string) {
	if a.status > 0 {
		if text := discon.CString(a.msg); text != "" {
			a.log.WithFields(logrus.Fields{
				"function": fn,
				"status":   a.status,
			}).Warn(text)
		}
	}
}

// Advance writes state into the buffer, calls the controller and returns the
// commanded torque, pitch and nacelle yaw rate. The output is stored even
// when the controller reports failure; the failure is returned as an error
// wrapping a *discon.StatusError.
func (a *Adapter) Advance(state avrswap.TurbineState) (avrswap.ControlOutput, error) {
	if a.closed {
		return avrswap.ControlOutput{}, ErrClosed
	}

	state.Apply(a.buf)
	a.invoke()

	a.last = avrswap.ReadOutput(a.buf)

	if err := discon.CheckStatus(a.status, a.msg); err != nil {
		a.log.WithFields(logrus.Fields{
			"function": "Advance",
			"time":     state.Time,
			"status":   a.status,
		}).Error("Controller reported failure")
		return a.last, fmt.Errorf("exchange: t=%g: %w", state.Time, err)
	}
	a.reportWarning("Advance")

	return a.last, nil
}

// Last returns the most recent control output.
func (a *Adapter) Last() avrswap.ControlOutput {
	return a.last
}

// Show writes the last control output for diagnostic display.
func (a *Adapter) Show(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Pitch %g\nTorque %g\nNacelleYawRate %g\nStatus %d\n",
		a.last.Pitch, a.last.Torque, a.last.NacelleYawRate, a.status)
	return err
}

// Status returns the flag and message left by the most recent call.
func (a *Adapter) Status() (int32, string) {
	return a.status, discon.CString(a.msg)
}

// OutName returns the output name text left by the most recent call.
func (a *Adapter) OutName() string {
	return discon.CString(a.outName)
}

// Phase returns the current call-phase marker.
func (a *Adapter) Phase() int {
	return a.buf.Phase()
}

// Snapshot returns a copy of the exchange buffer.
func (a *Adapter) Snapshot() []float32 {
	return a.buf.Snapshot()
}

// Calls reports how many times the controller has been invoked, including
// the first call made by New.
func (a *Adapter) Calls() int {
	return a.calls
}

// GearboxRatio returns the ratio used to seed the generator speed.
func (a *Adapter) GearboxRatio() float64 {
	return a.gearboxRatio
}

// Close releases the routine. Further calls to Advance return ErrClosed.
func (a *Adapter) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true

	a.log.WithFields(logrus.Fields{
		"function": "Close",
		"calls":    a.calls,
	}).Info("Releasing controller")

	return a.routine.Close()
}
