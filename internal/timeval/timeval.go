// Package timeval implements the nanosecond instant stored in repository
// records. The zero value means "unknown" or "never".
package timeval

import (
	"fmt"
	"strconv"
	"syscall"
	"time"
)

const (
	nanosPerSec = 1_000_000_000

	// fieldWidth is two hex digits per byte of an int64.
	fieldWidth = 16
	// EncodedLen is the length of Encode's output.
	EncodedLen = 2 * fieldWidth
)

// Time is an instant with nanosecond precision. Nsec is always in [0, 1e9).
type Time struct {
	Sec  int64
	Nsec int64
}

// New returns a normalized Time.
func New(sec, nsec int64) Time {
	sec += nsec / nanosPerSec
	nsec %= nanosPerSec
	if nsec < 0 {
		nsec += nanosPerSec
		sec--
	}
	return Time{Sec: sec, Nsec: nsec}
}

// FromTime converts a time.Time.
func FromTime(t time.Time) Time {
	return New(t.Unix(), int64(t.Nanosecond()))
}

// FromTimeval converts a microsecond syscall.Timeval, as found in rusage.
func FromTimeval(tv syscall.Timeval) Time {
	return New(int64(tv.Sec), int64(tv.Usec)*1000)
}

// Now returns the current wall-clock time.
func Now() Time {
	return FromTime(time.Now())
}

func (t Time) IsZero() bool { return t.Sec == 0 && t.Nsec == 0 }

func (t Time) Equal(u Time) bool { return t.Sec == u.Sec && t.Nsec == u.Nsec }

// Before reports whether t is strictly earlier than u.
func (t Time) Before(u Time) bool {
	if t.Sec != u.Sec {
		return t.Sec < u.Sec
	}
	return t.Nsec < u.Nsec
}

// Sub returns t-u.
func (t Time) Sub(u Time) Time {
	sec := t.Sec - u.Sec
	nsec := t.Nsec - u.Nsec
	if nsec < 0 {
		nsec += nanosPerSec
		sec--
	}
	return Time{Sec: sec, Nsec: nsec}
}

// Add returns t+u.
func (t Time) Add(u Time) Time {
	return New(t.Sec+u.Sec, t.Nsec+u.Nsec)
}

// Seconds returns t as fractional seconds.
func (t Time) Seconds() float64 {
	return float64(t.Sec) + float64(t.Nsec)/nanosPerSec
}

// Duration converts t to a time.Duration, saturating on overflow.
func (t Time) Duration() time.Duration {
	const maxSec = int64(1<<63-1) / nanosPerSec
	if t.Sec > maxSec {
		return time.Duration(1<<63 - 1)
	}
	if t.Sec < -maxSec {
		return time.Duration(-1 << 63)
	}
	return time.Duration(t.Sec*nanosPerSec + t.Nsec)
}

// Encode returns the fixed-width persistence form: the seconds as 16
// upper-case hex digits followed by the nanoseconds as 16 hex digits.
func (t Time) Encode() string {
	return fmt.Sprintf("%016X%016X", uint64(t.Sec), uint64(t.Nsec))
}

func (t Time) String() string { return t.Encode() }

// Parse decodes the output of Encode. The empty string decodes to the zero Time.
func Parse(s string) (Time, error) {
	if s == "" {
		return Time{}, nil
	}
	if len(s) != EncodedLen {
		return Time{}, fmt.Errorf("invalid time %q: want %d hex digits, got %d", s, EncodedLen, len(s))
	}
	sec, err := strconv.ParseUint(s[:fieldWidth], 16, 64)
	if err != nil {
		return Time{}, fmt.Errorf("invalid time %q: seconds: %w", s, err)
	}
	nsec, err := strconv.ParseUint(s[fieldWidth:], 16, 64)
	if err != nil {
		return Time{}, fmt.Errorf("invalid time %q: nanoseconds: %w", s, err)
	}
	if nsec >= nanosPerSec {
		return Time{}, fmt.Errorf("invalid time %q: nanoseconds out of range", s)
	}
	return Time{Sec: int64(sec), Nsec: int64(nsec)}, nil
}
