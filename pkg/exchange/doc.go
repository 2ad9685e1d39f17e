// Package exchange drives a DISCON controller from a simulation loop.
//
// An Adapter owns one exchange buffer for its whole lifetime. Construction
// seeds the buffer with initial estimates, makes the controller's first call
// (call-phase marker 0) and then flips the marker to 1. Each Advance writes
// the turbine state, calls the controller and reads back torque, pitch and
// nacelle yaw rate.
//
//	a, err := exchange.Open("./libdiscon.so", "DISCON.IN", nil)
//	if err != nil {
//		return err
//	}
//	defer a.Close()
//
//	out, err := a.Advance(state)
//
// # Failures
//
// The controller reports errors only through its status flag and message
// buffer. A negative status is returned from Advance as an error wrapping
// discon.ErrControllerFailure; the commands read back on that step are still
// returned and stored. Positive statuses are logged as warnings.
//
// # Caller constraints
//
// Calls are synchronous and blocking with no timeout: a controller that never
// returns blocks the caller. Most controllers keep static state, so only one
// Adapter should drive a given library in a process at a time. The Adapter
// does not enforce this.
package exchange
