package log

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

var (
	sampleInt      = 3
	sampleBytes    = []byte("123")
	sampleList     = []int64{10, 0, -10}
	sampleDuration = time.Second
	sampleTime     = time.Unix(12345678, 0)

	errSample = errors.New("some error")
)

func doLogs() {
	Infof("signed pod with %d entries %x", sampleInt, sampleBytes)
	Debugw("executing operation", "label", "EQUAL:eq", "code", 3)
	Errorf("cannot store pod: %v", errSample)
	Warnw("various types",
		"list", sampleList,
		"duration", sampleDuration,
		"time", sampleTime,
	)
	Error(errSample)
}

func TestCheckInvalidChars(t *testing.T) {
	t.Cleanup(func() { panicOnInvalidChars = false })

	v := []byte{'h', 'e', 'l', 'l', 'o', 0xff, 'w', 'o', 'r', 'l', 'd'}
	panicOnInvalidChars = false
	Init("debug", "stderr", nil)
	Debugf("%s", v)
	// should not panic since env var is false. if it panics, test will fail

	// now enable panic and try again: should recover() and never reach t.Errorf()
	panicOnInvalidChars = true
	Init("debug", "stderr", nil)
	defer func() { recover() }()
	Debugf("%s", v)
	t.Errorf("Debugf(%s) should have panicked because of invalid char", v)
}

func TestErrorOutput(t *testing.T) {
	c := qt.New(t)
	t.Cleanup(func() { logTestWriter = io.Discard })

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	logTestWriter = out
	Init("info", logTestWriterName, errOut)
	Infow("proof generated", "took", sampleDuration)
	Warnw("slow prover", "took", sampleDuration)

	c.Assert(out.String(), qt.Contains, "proof generated")
	c.Assert(out.String(), qt.Contains, "slow prover")
	c.Assert(errOut.String(), qt.Not(qt.Contains), "proof generated")
	c.Assert(errOut.String(), qt.Contains, "slow prover")
	c.Assert(Level(), qt.Equals, LogLevelInfo)
}

func BenchmarkLogger(b *testing.B) {
	logTestWriter = io.Discard // to not grow a buffer
	Init("debug", logTestWriterName, nil)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		doLogs()
	}
}
