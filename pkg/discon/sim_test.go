package discon

import (
	"errors"
	"testing"
)

func newCallBuffers() ([]float32, []byte, []byte) {
	return make([]float32, 500), make([]byte, MessageBufferSize), make([]byte, MessageBufferSize)
}

func TestSimRoutineDefaultLeavesBuffer(t *testing.T) {
	sim := NewSimRoutine(nil)
	avr, out, msg := newCallBuffers()
	avr[26] = 11.4

	var status int32
	sim.Call(avr, &status, CBytes("DISCON.IN"), out, msg)

	if avr[26] != 11.4 {
		t.Fatalf("default simulator modified the buffer")
	}
	last, ok := sim.LastCall()
	if !ok {
		t.Fatalf("expected a recorded call")
	}
	if last.InFile != "DISCON.IN" || last.Phase != 0 || last.Status != 0 {
		t.Fatalf("unexpected call record: %+v", last)
	}
}

func TestSimRoutineConstantController(t *testing.T) {
	sim := NewSimRoutine(ConstantController(0.1, 1000, 0.01))
	avr, out, msg := newCallBuffers()

	var status int32 = 5
	sim.Call(avr, &status, CBytes("x"), out, msg)

	if avr[41] != 0.1 || avr[46] != 1000 || avr[47] != 0.01 {
		t.Fatalf("outputs = %v/%v/%v", avr[41], avr[46], avr[47])
	}
	if status != 0 {
		t.Fatalf("status = %d, want 0", status)
	}
}

func TestSimRoutineRecordsBeforeAndAfter(t *testing.T) {
	sim := NewSimRoutine(ConstantController(0.2, 0, 0))
	avr, out, msg := newCallBuffers()
	avr[0] = 1

	var status int32
	sim.Call(avr, &status, CBytes("x"), out, msg)

	rec := sim.Calls()[0]
	if rec.Phase != 1 {
		t.Fatalf("Phase = %d, want 1", rec.Phase)
	}
	if rec.Before[41] != 0 || rec.After[41] != 0.2 {
		t.Fatalf("before/after snapshots wrong: %v -> %v", rec.Before[41], rec.After[41])
	}
}

func TestSimRoutineFailingController(t *testing.T) {
	sim := NewSimRoutine(FailingController(-1, "ERROR"))
	avr, out, msg := newCallBuffers()

	var status int32
	sim.Call(avr, &status, CBytes("x"), out, msg)

	err := CheckStatus(status, msg)
	if err == nil {
		t.Fatalf("expected error for status %d", status)
	}
	if !errors.Is(err, ErrControllerFailure) {
		t.Fatalf("error %v does not wrap ErrControllerFailure", err)
	}
	var se *StatusError
	if !errors.As(err, &se) || se.Status != -1 || se.Message != "ERROR" {
		t.Fatalf("unexpected status error: %#v", err)
	}
}

func TestSimRoutineClosed(t *testing.T) {
	sim := NewSimRoutine(ConstantController(1, 1, 1))
	if err := sim.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	avr, out, msg := newCallBuffers()

	var status int32
	sim.Call(avr, &status, CBytes("x"), out, msg)
	if status != -1 || avr[41] != 0 {
		t.Fatalf("closed simulator should fail without running hook, status=%d", status)
	}
	if !sim.Closed() {
		t.Fatalf("Closed() = false after Close")
	}
}

func TestChainRunsInOrder(t *testing.T) {
	var order []int
	hook := Chain(
		func(_ []float32, _ *int32, _ string, _, _ []byte) { order = append(order, 1) },
		nil,
		func(_ []float32, _ *int32, _ string, _, _ []byte) { order = append(order, 2) },
	)
	avr, out, msg := newCallBuffers()
	var status int32
	hook(avr, &status, "", out, msg)
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("order = %v", order)
	}
}

func TestCStringAndCBytes(t *testing.T) {
	b := CBytes("DISCON.IN")
	if len(b) != 10 || b[9] != 0 {
		t.Fatalf("CBytes not NUL-terminated: %v", b)
	}
	if got := CString([]byte("ERROR   \x00garbage")); got != "ERROR" {
		t.Fatalf("CString = %q", got)
	}
	if got := CString([]byte("no terminator")); got != "no terminator" {
		t.Fatalf("CString = %q", got)
	}

	small := make([]byte, 4)
	writeCString(small, "overflow")
	if CString(small) != "ove" {
		t.Fatalf("writeCString did not truncate: %q", small)
	}
}

func TestCheckStatusSuccess(t *testing.T) {
	if err := CheckStatus(0, nil); err != nil {
		t.Fatalf("status 0: %v", err)
	}
	if err := CheckStatus(1, []byte("warning\x00")); err != nil {
		t.Fatalf("positive status should not fail: %v", err)
	}
}
