package client

import (
	"sync"

	"github.com/telemetrix-protocol/telemetrix-go/pkg/wire"
)

// pinHandler pairs a callback with the mode the pin was registered in.
type pinHandler struct {
	mode wire.PinMode
	cb   PinCallback
}

// registry holds the callback state of one connection. Registrations
// race dispatch lookups, so everything is behind an RWMutex.
//
// The sonar and DHT counters mirror the firmware's fixed device slots:
// they only ever grow, because the firmware has no way to free a slot.
type registry struct {
	mu sync.RWMutex

	digital map[uint8]pinHandler
	analog  map[uint8]pinHandler
	sonar   map[uint8]SonarCallback
	dht     map[uint8]DHTCallback

	i2c       [wire.I2CPortCount]I2CCallback
	i2cActive [wire.I2CPortCount]bool

	loopback LoopbackCallback

	sonarCount int
	dhtCount   int
}

func newRegistry() *registry {
	return &registry{
		digital: make(map[uint8]pinHandler),
		analog:  make(map[uint8]pinHandler),
		sonar:   make(map[uint8]SonarCallback),
		dht:     make(map[uint8]DHTCallback),
	}
}

func (r *registry) setDigital(pin uint8, mode wire.PinMode, cb PinCallback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.digital[pin] = pinHandler{mode: mode, cb: cb}
}

func (r *registry) digitalFor(pin uint8) (pinHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.digital[pin]
	return h, ok
}

func (r *registry) setAnalog(pin uint8, cb PinCallback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.analog[pin] = pinHandler{mode: wire.PinModeAnalogInput, cb: cb}
}

func (r *registry) analogFor(pin uint8) (pinHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.analog[pin]
	return h, ok
}

// addSonar claims a sonar slot. Each registration consumes a firmware
// slot even when the trigger pin was registered before.
func (r *registry) addSonar(triggerPin uint8, cb SonarCallback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sonarCount >= wire.MaxSonars {
		return ErrDeviceLimit
	}
	r.sonarCount++
	r.sonar[triggerPin] = cb
	return nil
}

func (r *registry) sonarFor(triggerPin uint8) (SonarCallback, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cb, ok := r.sonar[triggerPin]
	return cb, ok
}

// addDHT claims a DHT slot, like addSonar.
func (r *registry) addDHT(pin uint8, cb DHTCallback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dhtCount >= wire.MaxDHTs {
		return ErrDeviceLimit
	}
	r.dhtCount++
	r.dht[pin] = cb
	return nil
}

func (r *registry) dhtFor(pin uint8) (DHTCallback, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cb, ok := r.dht[pin]
	return cb, ok
}

// activateI2C marks a port active. Reports whether it was already
// active, in which case the begin command must not be sent again.
func (r *registry) activateI2C(port uint8) (alreadyActive bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.i2cActive[port] {
		return true
	}
	r.i2cActive[port] = true
	return false
}

func (r *registry) i2cIsActive(port uint8) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.i2cActive[port]
}

func (r *registry) setI2C(port uint8, cb I2CCallback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.i2c[port] = cb
}

func (r *registry) i2cFor(port uint8) (I2CCallback, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cb := r.i2c[port]
	return cb, cb != nil
}

func (r *registry) setLoopback(cb LoopbackCallback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loopback = cb
}

func (r *registry) loopbackCb() (LoopbackCallback, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loopback, r.loopback != nil
}
