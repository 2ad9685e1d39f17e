package avrswap

import (
	"fmt"
	"math"
)

// MinSize is the smallest buffer accepted by controllers built against the
// Bladed interface.
const MinSize = 500

// Call-phase marker values stored at index 0.
const (
	PhaseFirstCall  = 0
	PhaseSubsequent = 1
)

// Unit conversions used when seeding the buffer.
const (
	RPMToRadPerSec = 2.0 * math.Pi / 60.0
	DegToRad       = math.Pi / 180.0
	RadToDeg       = 180.0 / math.Pi
)

// Direction classifies who owns a slot during an exchange.
type Direction uint8

const (
	// DirMarker is the call-phase marker, owned by the adapter.
	DirMarker Direction = iota
	// DirInit slots are only seeded at construction.
	DirInit
	// DirInput slots are written by the driver before every call.
	DirInput
	// DirOutput slots are written by the controller and read back.
	DirOutput
	// DirBookkeeping slots describe string and buffer lengths.
	DirBookkeeping
)

func (d Direction) String() string {
	switch d {
	case DirMarker:
		return "marker"
	case DirInit:
		return "init"
	case DirInput:
		return "input"
	case DirOutput:
		return "output"
	case DirBookkeeping:
		return "bookkeeping"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// Slot names one index of the exchange buffer.
type Slot struct {
	Index int
	Name  string
	Unit  string
	Dir   Direction
	Notes string
}

func (s Slot) String() string {
	return fmt.Sprintf("avrSWAP[%d] %s", s.Index, s.Name)
}

// Well-known slots. Indexes are zero-based, so avrSWAP[41] here is record 42
// in the Bladed documentation.
var (
	SlotStatus          = Slot{Index: 0, Name: "status", Unit: "-", Dir: DirMarker, Notes: "0 first call, 1 subsequent"}
	SlotTime            = Slot{Index: 1, Name: "time", Unit: "s", Dir: DirInput}
	SlotTimeStep        = Slot{Index: 2, Name: "timestep", Unit: "s", Dir: DirInput, Notes: "also seeded at init"}
	SlotBlade1Pitch     = Slot{Index: 3, Name: "blade1_pitch", Unit: "rad", Dir: DirInput}
	SlotMeasuredPower   = Slot{Index: 14, Name: "measured_power", Unit: "W", Dir: DirInput, Notes: "gen speed * gen torque * efficiency"}
	SlotGeneratorSpeed  = Slot{Index: 19, Name: "generator_speed", Unit: "rad/s", Dir: DirInput, Notes: "also seeded at init"}
	SlotRotorSpeed      = Slot{Index: 20, Name: "rotor_speed", Unit: "rad/s", Dir: DirInput, Notes: "also seeded at init"}
	SlotGeneratorTorque = Slot{Index: 22, Name: "generator_torque", Unit: "N.m", Dir: DirInput}
	SlotYawError        = Slot{Index: 23, Name: "yaw_error", Unit: "rad", Dir: DirInput, Notes: "also seeded at init"}
	SlotWindSpeed       = Slot{Index: 26, Name: "wind_speed", Unit: "m/s", Dir: DirInput, Notes: "also seeded at init"}
	SlotBlade2Pitch     = Slot{Index: 32, Name: "blade2_pitch", Unit: "rad", Dir: DirInput}
	SlotBlade3Pitch     = Slot{Index: 33, Name: "blade3_pitch", Unit: "rad", Dir: DirInput}
	SlotYawFromNorth    = Slot{Index: 36, Name: "yaw_from_north", Unit: "rad", Dir: DirInput, Notes: "also seeded at init"}
	SlotPitchCommand    = Slot{Index: 41, Name: "pitch_command", Unit: "rad", Dir: DirOutput}
	SlotTorqueCommand   = Slot{Index: 46, Name: "torque_command", Unit: "N.m", Dir: DirOutput}
	SlotNacelleYawRate  = Slot{Index: 47, Name: "nacelle_yaw_rate", Unit: "rad/s", Dir: DirOutput}
	SlotMessageMax      = Slot{Index: 48, Name: "message_max_length", Unit: "chars", Dir: DirBookkeeping}
	SlotInFileLength    = Slot{Index: 49, Name: "infile_length", Unit: "chars", Dir: DirBookkeeping}
	SlotOutNameMax      = Slot{Index: 50, Name: "outname_max_length", Unit: "chars", Dir: DirBookkeeping}
	SlotReservedLength  = Slot{Index: 51, Name: "reserved_length", Unit: "chars", Dir: DirBookkeeping}
	SlotBladeCount      = Slot{Index: 60, Name: "blade_count", Unit: "-", Dir: DirInit}
)

// Slots is the full exchange contract in index order.
var Slots = []Slot{
	SlotStatus,
	SlotTime,
	SlotTimeStep,
	SlotBlade1Pitch,
	SlotMeasuredPower,
	SlotGeneratorSpeed,
	SlotRotorSpeed,
	SlotGeneratorTorque,
	SlotYawError,
	SlotWindSpeed,
	SlotBlade2Pitch,
	SlotBlade3Pitch,
	SlotYawFromNorth,
	SlotPitchCommand,
	SlotTorqueCommand,
	SlotNacelleYawRate,
	SlotMessageMax,
	SlotInFileLength,
	SlotOutNameMax,
	SlotReservedLength,
	SlotBladeCount,
}

// SlotByName looks up a slot in the contract table.
func SlotByName(name string) (Slot, bool) {
	for _, s := range Slots {
		if s.Name == name {
			return s, true
		}
	}
	return Slot{}, false
}

// SlotAt returns the named slot for an index, if the contract defines one.
func SlotAt(index int) (Slot, bool) {
	for _, s := range Slots {
		if s.Index == index {
			return s, true
		}
	}
	return Slot{}, false
}

// SlotsByDirection filters the contract table.
func SlotsByDirection(dir Direction) []Slot {
	var out []Slot
	for _, s := range Slots {
		if s.Dir == dir {
			out = append(out, s)
		}
	}
	return out
}

// ValidateLayout checks that a slot table fits a buffer of the given size and
// that indexes and names are unique.
func ValidateLayout(slots []Slot, size int) error {
	seenIdx := make(map[int]string, len(slots))
	seenName := make(map[string]int, len(slots))
	for _, s := range slots {
		if s.Index < 0 || s.Index >= size {
			return fmt.Errorf("avrswap: slot %s outside buffer of %d", s.Name, size)
		}
		if prev, ok := seenIdx[s.Index]; ok {
			return fmt.Errorf("avrswap: index %d used by both %s and %s", s.Index, prev, s.Name)
		}
		if prev, ok := seenName[s.Name]; ok {
			return fmt.Errorf("avrswap: name %s used by indexes %d and %d", s.Name, prev, s.Index)
		}
		seenIdx[s.Index] = s.Name
		seenName[s.Name] = s.Index
	}
	return nil
}
