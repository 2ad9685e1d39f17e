package avrswap

import "testing"

func sampleState() TurbineState {
	return TurbineState{
		Time:                12.5,
		TimeStep:            0.025,
		BladePitch:          0.05,
		GeneratorSpeed:      120,
		GeneratorTorque:     40000,
		GeneratorEfficiency: 0.944,
		RotorSpeed:          1.25,
		WindSpeed:           11.4,
		YawFromNorth:        0.3,
		YawError:            -0.02,
	}
}

func TestLayoutIsValid(t *testing.T) {
	if err := ValidateLayout(Slots, MinSize); err != nil {
		t.Fatalf("contract table invalid: %v", err)
	}

	dup := append([]Slot(nil), Slots...)
	dup = append(dup, Slot{Index: SlotTime.Index, Name: "other"})
	if err := ValidateLayout(dup, MinSize); err == nil {
		t.Fatalf("expected duplicate index error")
	}

	if err := ValidateLayout([]Slot{{Index: MinSize, Name: "late"}}, MinSize); err == nil {
		t.Fatalf("expected out-of-range error")
	}
}

func TestSlotLookup(t *testing.T) {
	s, ok := SlotByName("pitch_command")
	if !ok || s.Index != 41 {
		t.Fatalf("SlotByName(pitch_command) = %+v, %v", s, ok)
	}
	s, ok = SlotAt(46)
	if !ok || s.Name != "torque_command" {
		t.Fatalf("SlotAt(46) = %+v, %v", s, ok)
	}
	if _, ok := SlotAt(499); ok {
		t.Fatalf("index 499 is not part of the contract")
	}
	if got := len(SlotsByDirection(DirOutput)); got != 3 {
		t.Fatalf("expected 3 output slots, got %d", got)
	}
}

func TestApplyWritesOnlyInputSlots(t *testing.T) {
	buf, _ := NewBuffer(MinSize)
	for i := range buf.Floats() {
		buf.Floats()[i] = -7
	}

	st := sampleState()
	st.Apply(buf)

	written := make(map[int]bool)
	for _, s := range InputSlots {
		written[s.Index] = true
	}
	if len(written) != 12 {
		t.Fatalf("expected 12 distinct input slots, got %d", len(written))
	}

	for i, v := range buf.Floats() {
		if !written[i] && v != -7 {
			t.Fatalf("slot %d clobbered: %v", i, v)
		}
	}

	checks := []struct {
		slot Slot
		want float64
	}{
		{SlotTime, st.Time},
		{SlotTimeStep, st.TimeStep},
		{SlotBlade1Pitch, st.BladePitch},
		{SlotBlade2Pitch, st.BladePitch},
		{SlotBlade3Pitch, st.BladePitch},
		{SlotMeasuredPower, st.GeneratorSpeed * st.GeneratorTorque * st.GeneratorEfficiency},
		{SlotGeneratorTorque, st.GeneratorTorque},
		{SlotGeneratorSpeed, st.GeneratorSpeed},
		{SlotRotorSpeed, st.RotorSpeed},
		{SlotWindSpeed, st.WindSpeed},
		{SlotYawFromNorth, st.YawFromNorth},
		{SlotYawError, st.YawError},
	}
	for _, c := range checks {
		if got, want := buf.Get(c.slot), float64(float32(c.want)); got != want {
			t.Errorf("%s = %v, want %v", c.slot, got, want)
		}
	}
}

func TestReadOutput(t *testing.T) {
	buf, _ := NewBuffer(MinSize)
	buf.Put(SlotPitchCommand, 0.5)
	buf.Put(SlotTorqueCommand, 1000)
	buf.Put(SlotNacelleYawRate, 0.25)

	out := ReadOutput(buf)
	if out.Torque != 1000 || out.Pitch != 0.5 || out.NacelleYawRate != 0.25 {
		t.Fatalf("ReadOutput = %+v", out)
	}
	if out.String() == "" {
		t.Fatalf("String returned empty summary")
	}
}
