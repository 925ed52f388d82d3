package afe4400

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReporterOrder(t *testing.T) {
	var got []string
	r := newReporter(ListenerFunc(func(text string) {
		got = append(got, text)
	}))

	const n = 100
	for i := 0; i < n; i++ {
		r.report(fmt.Sprintf("status-%d", i))
	}
	r.close()

	assert.Len(t, got, n)
	for i, text := range got {
		assert.Equal(t, fmt.Sprintf("status-%d", i), text)
	}
}

func TestReporterStalledListener(t *testing.T) {
	release := make(chan struct{})
	var (
		mu  sync.Mutex
		got []int
	)
	r := newReporter(ListenerFunc(func(text string) {
		<-release
		mu.Lock()
		got = append(got, len(got))
		mu.Unlock()
	}))

	sent := make(chan struct{})
	go func() {
		defer close(sent)
		for i := 0; i < 50; i++ {
			r.report(fmt.Sprint(i))
		}
	}()
	select {
	case <-sent:
	case <-time.After(time.Second):
		t.Fatal("report blocked on a stalled listener")
	}

	close(release)
	r.close()

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, got, 50)
}

func TestReporterCloseEmpty(t *testing.T) {
	calls := 0
	r := newReporter(ListenerFunc(func(string) { calls++ }))
	r.close()
	assert.Zero(t, calls)

	r = newReporter(nil)
	r.report("dropped")
	r.close()
}
