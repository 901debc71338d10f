package go_func_utils

import (
	"bytes"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSafeGo_RunsFunction(t *testing.T) {
	logger := log.New(&bytes.Buffer{}, "", 0)
	done := make(chan struct{})

	SafeGo(logger, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("function was not run")
	}
}

func TestSafeGoTracked_WaitGroup(t *testing.T) {
	logger := log.New(&bytes.Buffer{}, "", 0)
	var wg sync.WaitGroup
	var mu sync.Mutex
	ran := 0

	for i := 0; i < 5; i++ {
		SafeGoTracked(logger, &wg, func() {
			mu.Lock()
			ran++
			mu.Unlock()
		})
	}
	wg.Wait()
	assert.Equal(t, 5, ran)
}

func TestLogPanic_WritesStackAndRepanics(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	assert.PanicsWithValue(t, "boom", func() {
		defer logPanic(logger)
		panic("boom")
	})
	assert.Contains(t, buf.String(), "PANIC: boom")
	assert.Contains(t, buf.String(), "goroutine")
}
