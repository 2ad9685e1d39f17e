// Package avrswap models the exchange buffer shared between a simulation
// driver and a Bladed-style DISCON controller library.
//
// The buffer (historically called avrSWAP) is a flat array of 32-bit floats.
// Each index has a single fixed meaning defined by the controller interface:
// index 1 carries simulation time, index 26 the hub-height wind speed, index
// 41 the commanded pitch, and so on. This package replaces bare index
// arithmetic with a named slot table so the contract can be audited and
// tested, while keeping the exact binary layout handed to the native call.
//
// # Overview
//
// The package provides:
//   - Slot / Slots: the static index → name → unit → direction table
//   - Buffer: a fixed-length float32 array with bounds-checked access
//   - TurbineState: the per-step measurements written before each call
//   - ControlOutput: the commands read back after each call
//
// # Usage
//
//	buf, err := avrswap.NewBuffer(avrswap.MinSize)
//	if err != nil {
//		return err
//	}
//
//	state := avrswap.TurbineState{Time: 1.0, TimeStep: 0.1, WindSpeed: 11.4}
//	state.Apply(buf)
//
//	// ... hand buf.Floats() to the controller ...
//
//	out := avrswap.ReadOutput(buf)
//	fmt.Println(out.Torque, out.Pitch, out.NacelleYawRate)
//
// # Call Phase
//
// Index 0 is the call-phase marker. The controller treats 0 as the first
// call (it reads its parameter file and initializes internal state) and 1 as
// a regular timestep. Buffer.SetPhase refuses to move the marker backwards.
//
// # Units
//
// Angles in the buffer are radians and rotational speeds are rad/s. The
// helpers RPMToRadPerSec and DegToRad perform the conversions used when the
// buffer is seeded.
package avrswap
