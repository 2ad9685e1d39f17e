package avrswap

import "fmt"

// TurbineState is the set of measurements the driver supplies every step.
// All fields are required; a zero value is written as zero.
type TurbineState struct {
	Time                float64 // s
	TimeStep            float64 // s
	BladePitch          float64 // rad, applied to all three blades
	GeneratorSpeed      float64 // rad/s
	GeneratorTorque     float64 // N.m
	GeneratorEfficiency float64 // -
	RotorSpeed          float64 // rad/s
	WindSpeed           float64 // m/s
	YawFromNorth        float64 // rad
	YawError            float64 // rad
}

// Power is the generator power estimate written to the measured power slot.
func (s TurbineState) Power() float64 {
	return s.GeneratorSpeed * s.GeneratorTorque * s.GeneratorEfficiency
}

// InputSlots lists every slot Apply writes, in write order.
var InputSlots = []Slot{
	SlotTime,
	SlotTimeStep,
	SlotBlade1Pitch,
	SlotBlade2Pitch,
	SlotBlade3Pitch,
	SlotMeasuredPower,
	SlotGeneratorTorque,
	SlotGeneratorSpeed,
	SlotRotorSpeed,
	SlotWindSpeed,
	SlotYawFromNorth,
	SlotYawError,
}

// Apply writes the state into its designated slots and nothing else.
func (s TurbineState) Apply(buf *Buffer) {
	buf.Put(SlotTime, s.Time)
	buf.Put(SlotTimeStep, s.TimeStep)
	buf.Put(SlotBlade1Pitch, s.BladePitch)
	buf.Put(SlotBlade2Pitch, s.BladePitch)
	buf.Put(SlotBlade3Pitch, s.BladePitch)
	buf.Put(SlotMeasuredPower, s.Power())
	buf.Put(SlotGeneratorTorque, s.GeneratorTorque)
	buf.Put(SlotGeneratorSpeed, s.GeneratorSpeed)
	buf.Put(SlotRotorSpeed, s.RotorSpeed)
	buf.Put(SlotWindSpeed, s.WindSpeed)
	buf.Put(SlotYawFromNorth, s.YawFromNorth)
	buf.Put(SlotYawError, s.YawError)
}

// ControlOutput holds the commands read back after a call.
type ControlOutput struct {
	Torque         float64 // N.m
	Pitch          float64 // rad
	NacelleYawRate float64 // rad/s
}

// OutputSlots lists every slot ReadOutput reads.
var OutputSlots = []Slot{SlotTorqueCommand, SlotPitchCommand, SlotNacelleYawRate}

// ReadOutput collects the commanded values from the buffer.
func ReadOutput(buf *Buffer) ControlOutput {
	return ControlOutput{
		Torque:         buf.Get(SlotTorqueCommand),
		Pitch:          buf.Get(SlotPitchCommand),
		NacelleYawRate: buf.Get(SlotNacelleYawRate),
	}
}

// String returns a one-line summary.
func (o ControlOutput) String() string {
	return fmt.Sprintf("torque=%.4g N.m pitch=%.4g rad yaw_rate=%.4g rad/s",
		o.Torque, o.Pitch, o.NacelleYawRate)
}
