/*
 * Copyright (c) 2026 The idavoll authors.
 * See the LICENSE file for more information.
 */

package log

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testLogWriter struct {
	C chan string
}

func newTestLogWriter() *testLogWriter {
	return &testLogWriter{C: make(chan string, 16)}
}

func (tw *testLogWriter) Write(p []byte) (int, error) {
	tw.C <- string(p)
	return len(p), nil
}

func TestDebugLog(t *testing.T) {
	Initialize(&Config{Level: DebugLevel})
	defer Shutdown()

	lw := newTestLogWriter()
	instance().outWriter = lw

	Debugf("test debug log!")
	select {
	case l := <-lw.C:
		require.True(t, strings.Contains(l, "[DBG]"))
		require.True(t, strings.Contains(l, "test debug log!"))

	case <-time.After(time.Millisecond * 200):
		require.Fail(t, "log fetch timeout")
	}
}

func TestErrorLog(t *testing.T) {
	Initialize(&Config{Level: ErrorLevel})
	defer Shutdown()

	lw := newTestLogWriter()
	instance().outWriter = lw

	Errorf("test error log!")
	select {
	case l := <-lw.C:
		require.True(t, strings.Contains(l, "[ERR]"))
		require.True(t, strings.Contains(l, "test error log!"))

	case <-time.After(time.Millisecond * 200):
		require.Fail(t, "log fetch timeout")
	}
}

func TestFatalLog(t *testing.T) {
	Initialize(&Config{Level: FatalLevel})
	defer Shutdown()

	lw := newTestLogWriter()
	instance().outWriter = lw

	var exited bool
	exitHandler = func() { exited = true }

	Fatalf("test fatal log!")
	select {
	case l := <-lw.C:
		require.True(t, strings.Contains(l, "[FTL]"))
		require.True(t, exited)

	case <-time.After(time.Millisecond * 200):
		require.Fail(t, "log fetch timeout")
	}
}
