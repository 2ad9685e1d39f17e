package exchange

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceDISCON/pkg/avrswap"
	"github.com/OpenTraceLab/OpenTraceDISCON/pkg/discon"
)

// Options controls how the exchange buffer is seeded before the controller's
// first call.
type Options struct {
	// Initial estimates handed to the controller on its first call
	WindSpeed float64 // m/s (default: 10.0)
	RotorRPM  float64 // rpm (default: 4.0)
	Yaw       float64 // nacelle yaw from north, deg (default: 0)
	YawError  float64 // written as given (default: 0)

	TimeStep  float64 // s (default: 0.1)
	NumBlades int     // (default: 3)

	// Buffer geometry
	BufferSize     int // exchange buffer slots (default: avrswap.MinSize)
	CharBufferSize int // advertised length of the string buffers (default: 500)

	Symbol string // library entry point (default: discon.DefaultSymbol)
}

// DefaultOptions returns Options matching the values most controllers are
// tuned against.
func DefaultOptions() *Options {
	return &Options{
		WindSpeed:      10.0,
		RotorRPM:       4.0,
		Yaw:            0.0,
		YawError:       0.0,
		TimeStep:       0.1,
		NumBlades:      3,
		BufferSize:     avrswap.MinSize,
		CharBufferSize: 500,
		Symbol:         discon.DefaultSymbol,
	}
}

// Validate checks the options and fills in defaults for unset geometry.
func (o *Options) Validate() error {
	if o.BufferSize == 0 {
		o.BufferSize = avrswap.MinSize
	}
	if o.CharBufferSize <= 0 {
		o.CharBufferSize = 500
	}
	if o.Symbol == "" {
		o.Symbol = discon.DefaultSymbol
	}

	if o.BufferSize < avrswap.MinSize {
		return fmt.Errorf("exchange: buffer size %d below minimum %d", o.BufferSize, avrswap.MinSize)
	}
	if o.TimeStep <= 0 {
		return fmt.Errorf("exchange: timestep must be positive, got %g", o.TimeStep)
	}
	if o.NumBlades < 1 {
		return fmt.Errorf("exchange: blade count must be positive, got %d", o.NumBlades)
	}
	if o.CharBufferSize > discon.MessageBufferSize {
		return fmt.Errorf("exchange: char buffer size %d exceeds %d", o.CharBufferSize, discon.MessageBufferSize)
	}
	return nil
}
