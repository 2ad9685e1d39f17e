package discon

import (
	"github.com/OpenTraceLab/OpenTraceDISCON/pkg/avrswap"
)

// CallHook lets the simulator emulate controller behaviour. It receives the
// same arguments as the native entry point, with inFile already decoded.
type CallHook func(avrSwap []float32, status *int32, inFile string, outName, msg []byte)

// CallRecord captures one invocation for inspection within tests.
type CallRecord struct {
	Phase   int
	InFile  string
	Before  []float32
	After   []float32
	Status  int32
	Message string
}

// SimRoutine is an in-memory Routine. It records every call and can
// optionally mutate the buffer through OnCall. Without a hook the buffer is
// left untouched.
type SimRoutine struct {
	OnCall CallHook

	calls  []CallRecord
	closed bool
}

// NewSimRoutine constructs a simulator with the given hook, which may be nil.
func NewSimRoutine(hook CallHook) *SimRoutine {
	return &SimRoutine{OnCall: hook}
}

func (s *SimRoutine) Call(avrSwap []float32, status *int32, inFile []byte, outName, msg []byte) {
	rec := CallRecord{
		InFile: CString(inFile),
		Before: append([]float32(nil), avrSwap...),
	}
	if len(avrSwap) > 0 {
		rec.Phase = int(avrSwap[avrswap.SlotStatus.Index])
	}

	if s.closed {
		*status = -1
		writeCString(msg, "discon: simulator closed")
	} else if s.OnCall != nil {
		s.OnCall(avrSwap, status, rec.InFile, outName, msg)
	}

	rec.After = append([]float32(nil), avrSwap...)
	rec.Status = *status
	rec.Message = CString(msg)
	s.calls = append(s.calls, rec)
}

// Calls returns a copy of every recorded invocation in order.
func (s *SimRoutine) Calls() []CallRecord {
	return append([]CallRecord(nil), s.calls...)
}

// LastCall returns the most recent invocation.
func (s *SimRoutine) LastCall() (CallRecord, bool) {
	if len(s.calls) == 0 {
		return CallRecord{}, false
	}
	return s.calls[len(s.calls)-1], true
}

// Closed reports whether Close has been called.
func (s *SimRoutine) Closed() bool {
	return s.closed
}

func (s *SimRoutine) Close() error {
	s.closed = true
	return nil
}

// ConstantController returns a hook that commands the same pitch, torque and
// yaw rate on every call and reports success.
func ConstantController(pitch, torque, yawRate float32) CallHook {
	return func(avrSwap []float32, status *int32, _ string, _, _ []byte) {
		avrSwap[avrswap.SlotPitchCommand.Index] = pitch
		avrSwap[avrswap.SlotTorqueCommand.Index] = torque
		avrSwap[avrswap.SlotNacelleYawRate.Index] = yawRate
		*status = 0
	}
}

// FailingController returns a hook that sets status and writes message, as a
// controller does when it rejects its inputs.
func FailingController(status int32, message string) CallHook {
	return func(_ []float32, fail *int32, _ string, _, msg []byte) {
		*fail = status
		writeCString(msg, message)
	}
}

// Chain runs hooks in order.
func Chain(hooks ...CallHook) CallHook {
	return func(avrSwap []float32, status *int32, inFile string, outName, msg []byte) {
		for _, h := range hooks {
			if h != nil {
				h(avrSwap, status, inFile, outName, msg)
			}
		}
	}
}
