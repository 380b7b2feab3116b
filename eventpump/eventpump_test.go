package eventpump

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkgrade/darkgrade/container"
	"github.com/darkgrade/darkgrade/registry"
	"github.com/darkgrade/darkgrade/transport"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	require.True(t, cond(), "condition never became true within %s", timeout)
}

func TestPumpDispatchesDecodedEventsInOrder(t *testing.T) {
	f := transport.NewFake()
	ev1, err := container.BuildEvent(0x4002, 1, []uint32{100})
	require.NoError(t, err)
	ev2, err := container.BuildEvent(0x4003, 2, []uint32{100})
	require.NoError(t, err)
	f.Events = [][]byte{ev1, ev2}

	reg := registry.NewGeneric()
	p := New(InterruptSource{Transport: f}, reg, nil)

	var mu sync.Mutex
	var names []string
	p.On(func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		names = append(names, e.Name)
	})

	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	waitFor(t, time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(names) >= 2
	})

	mu.Lock()
	got := append([]string{}, names...)
	mu.Unlock()
	assert.Equal(t, []string{"ObjectAdded", "ObjectRemoved"}, got)

	cancel()
	p.Stop(context.Background(), f)
}

func TestPumpSkipsMalformedContainersAndContinues(t *testing.T) {
	f := transport.NewFake()
	good, err := container.BuildEvent(0x4002, 1, nil)
	require.NoError(t, err)
	f.Events = [][]byte{{0x01, 0x02}, good}

	reg := registry.NewGeneric()
	p := New(InterruptSource{Transport: f}, reg, nil)

	var mu sync.Mutex
	count := 0
	p.On(func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		count++
	})

	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	waitFor(t, time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count >= 1
	})

	cancel()
	p.Stop(context.Background(), f)
}

func TestPumpStopBlocksUntilLoopExits(t *testing.T) {
	f := transport.NewFake()
	reg := registry.NewGeneric()
	p := New(InterruptSource{Transport: f}, reg, nil)
	p.Start(context.Background())
	p.Stop(context.Background(), f)
	assert.True(t, f.Closed())
}
