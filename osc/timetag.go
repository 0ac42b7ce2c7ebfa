package osc

import (
	"encoding/binary"
	"math"
	"time"
)

const (
	// ImmediateTimetag is the time tag meaning "execute immediately".
	ImmediateTimetag Timetag = 1

	secondsFrom1900To1970 = 2208988800
	fractionScale         = 1 << 32
)

// Timetag represents an OSC Time Tag.
// An OSC Time Tag is defined as follows:
// Time tags are represented by a 64 bit fixed point number. The first 32 bits
// specify the number of seconds since midnight on January 1, 1900, and the
// last 32 bits specify fractional parts of a second to a precision of about
// 200 picoseconds. This is the representation used by Internet NTP timestamps.
type Timetag uint64

// NewTimetag returns a time tag for the current time.
func NewTimetag() Timetag {
	return NewTimetagFromTime(time.Now())
}

// NewTimetagFromTime returns a new OSC time tag object from a time.Time.
func NewTimetagFromTime(t time.Time) Timetag {
	secs := uint64(t.Unix()+secondsFrom1900To1970) << 32
	frac := uint64(t.Nanosecond()) * fractionScale / uint64(time.Second)
	return Timetag(secs + frac)
}

// TimetagFromSeconds converts seconds since the Unix epoch into a time tag.
func TimetagFromSeconds(seconds float64) Timetag {
	whole, frac := math.Modf(seconds)
	if frac < 0 {
		whole--
		frac++
	}
	secs := uint64(int64(whole)+secondsFrom1900To1970) << 32
	return Timetag(secs + uint64(frac*fractionScale))
}

// Time returns the time.
func (t Timetag) Time() time.Time {
	secs := int64(t.SecondsSinceEpoch()) - secondsFrom1900To1970
	nsec := int64(uint64(t.FractionalSecond()) * uint64(time.Second) / fractionScale)
	return time.Unix(secs, nsec)
}

// Seconds returns the time tag as seconds since the Unix epoch.
func (t Timetag) Seconds() float64 {
	return float64(int64(t.SecondsSinceEpoch())-secondsFrom1900To1970) + float64(t.FractionalSecond())/fractionScale
}

// FractionalSecond returns the last 32 bits of the OSC time tag. Specifies the
// fractional part of a second.
func (t Timetag) FractionalSecond() uint32 {
	return uint32(t)
}

// SecondsSinceEpoch returns the first 32 bits (the number of seconds since the
// midnight 1900) from the OSC time tag.
func (t Timetag) SecondsSinceEpoch() uint32 {
	return uint32(t >> 32)
}

// IsImmediate reports whether t is the immediate sentinel.
func (t Timetag) IsImmediate() bool {
	return t == ImmediateTimetag
}

// MarshalBinary converts the OSC time tag to a byte array.
func (t Timetag) MarshalBinary() ([]byte, error) {
	return binary.BigEndian.AppendUint64(nil, uint64(t)), nil
}

// ExpiresIn calculates the duration until the time tag is due. It returns
// zero for the immediate sentinel and for time tags in the past.
func (t Timetag) ExpiresIn() time.Duration {
	if t <= ImmediateTimetag {
		return 0
	}

	d := time.Until(t.Time())
	if d <= 0 {
		return 0
	}
	return d
}

func (t Timetag) String() string {
	if t.IsImmediate() {
		return "immediate"
	}
	return t.Time().UTC().Format(time.RFC3339Nano)
}
