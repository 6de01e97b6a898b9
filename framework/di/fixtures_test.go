package di_test

import "time"

// Shared test fixtures: a small service vocabulary used across the suite.

// Clock is an abstract dependency with one obvious implementation.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock.
type SystemClock struct {
	Tick int
}

func (c *SystemClock) Now() time.Time { return time.Unix(int64(c.Tick), 0) }

// NewSystemClock is the canonical Clock constructor.
func NewSystemClock() *SystemClock { return &SystemClock{} }

// Conn stands in for any constructed resource whose identity matters.
type Conn struct {
	ID int
}

// Pair pulls the same dependency in twice, for Shared-scope identity tests.
// With no declared constructor it builds via the aggregate-field fallback.
type Pair struct {
	A *Conn
	B *Conn
}

// Stamper and Alarmer are two interfaces satisfied by one implementation,
// for multi-interface ("any of") binding tests.
type Stamper interface {
	Stamp() string
}

type Alarmer interface {
	Alarm() string
}

// MultiTool implements both Stamper and Alarmer.
type MultiTool struct {
	Label string
}

func (m *MultiTool) Stamp() string { return "stamp:" + m.Label }
func (m *MultiTool) Alarm() string { return "alarm:" + m.Label }
