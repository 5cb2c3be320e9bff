package auth

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// TimingConfig controls how long failed credential checks are padded
type TimingConfig struct {
	BaseDelayMs    int
	RandomDelayMs  int
	DelayOnSuccess bool
}

// TimingDelay pads login failures so that an unknown email and a wrong
// password take about the same time to answer. A nil *TimingDelay is a no-op.
type TimingDelay struct {
	config TimingConfig
	sleep  func(time.Duration)
}

// NewTimingDelay creates a new TimingDelay instance
func NewTimingDelay(config TimingConfig) *TimingDelay {
	return &TimingDelay{
		config: config,
		sleep:  time.Sleep,
	}
}

// Wait sleeps for the full padding interval
func (td *TimingDelay) Wait(success bool) {
	if !td.applies(success) {
		return
	}
	td.sleep(td.target())
}

// WaitFrom sleeps until at least the padding interval has passed since start
func (td *TimingDelay) WaitFrom(start time.Time, success bool) {
	if !td.applies(success) {
		return
	}
	if remaining := td.target() - time.Since(start); remaining > 0 {
		td.sleep(remaining)
	}
}

func (td *TimingDelay) applies(success bool) bool {
	if td == nil {
		return false
	}
	return !success || td.config.DelayOnSuccess
}

// target is the base delay plus a crypto/rand jitter
func (td *TimingDelay) target() time.Duration {
	delay := time.Duration(td.config.BaseDelayMs) * time.Millisecond
	if td.config.RandomDelayMs > 0 {
		if jitter, err := cryptoRandIntn(td.config.RandomDelayMs); err == nil {
			delay += time.Duration(jitter) * time.Millisecond
		}
	}
	return delay
}

func cryptoRandIntn(max int) (int, error) {
	if max <= 0 {
		return 0, nil
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, err
	}
	return int(binary.BigEndian.Uint64(buf[:]) % uint64(max)), nil
}
