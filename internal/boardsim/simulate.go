package boardsim

import (
	"context"
	"time"

	"github.com/telemetrix-protocol/telemetrix-go/pkg/wire"
)

// Simulate emits synthetic readings for every registered input and
// sensor until the context is cancelled: digital inputs toggle, analog
// channels sweep a triangle wave, sonars wander, DHTs drift around
// room conditions. It blocks; run it in a goroutine.
func (b *Board) Simulate(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var tick int
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick++
			b.simulateTick(tick)
		}
	}
}

func (b *Board) simulateTick(tick int) {
	for _, pin := range b.snapshotPins(func(p *pinState) bool { return p.isDigitalInput() }) {
		_ = b.SetDigitalInput(pin, uint8(tick%2))
	}
	for _, pin := range b.snapshotPins(func(p *pinState) bool { return p.mode == wire.PinModeAnalogInput }) {
		_ = b.SetAnalogInput(pin, triangle(tick+int(pin), 1023))
	}
	for _, pin := range b.snapshotSonars() {
		_ = b.SendSonar(pin, 20+triangle(tick+int(pin), 130))
	}
	if tick%5 == 0 {
		for _, pin := range b.snapshotDHTs() {
			humidity := 40 + float32(triangle(tick, 20))
			temperature := 18 + float32(triangle(tick, 8))
			_ = b.SendDHT(pin, humidity, temperature)
		}
	}
}

// triangle maps a counter onto a 0..peak..0 sweep.
func triangle(tick, peak int) uint16 {
	step := 37 // coprime with typical peaks, so sweeps don't alias
	v := (tick * step) % (2 * peak)
	if v > peak {
		v = 2*peak - v
	}
	return uint16(v)
}

func (b *Board) snapshotPins(match func(*pinState) bool) []uint8 {
	b.mu.Lock()
	defer b.mu.Unlock()

	var pins []uint8
	for pin, p := range b.pins {
		if match(p) {
			pins = append(pins, pin)
		}
	}
	return pins
}

func (b *Board) snapshotSonars() []uint8 {
	b.mu.Lock()
	defer b.mu.Unlock()

	pins := make([]uint8, 0, len(b.sonars))
	for pin := range b.sonars {
		pins = append(pins, pin)
	}
	return pins
}

func (b *Board) snapshotDHTs() []uint8 {
	b.mu.Lock()
	defer b.mu.Unlock()

	pins := make([]uint8, 0, len(b.dhts))
	for pin := range b.dhts {
		pins = append(pins, pin)
	}
	return pins
}
