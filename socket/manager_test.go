package socket

import (
	"bytes"
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/connio-go/connio/api"
	"github.com/connio-go/connio/internal/testbridge"
)

// loopbackPair starts a TCP listener, connects a Manager to it via
// BeginConnectAsync, and returns the Bridge plus the server-side
// net.Conn the test can write to/read from directly.
func loopbackPair(t *testing.T, m *Manager, br *testbridge.Bridge) net.Conn {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	serverConnCh := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			serverConnCh <- c
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.BeginConnectAsync(ctx, ln.Addr().String(), br); err != nil {
		t.Fatalf("BeginConnectAsync: %v", err)
	}

	select {
	case c := <-serverConnCh:
		t.Cleanup(func() { _ = c.Close() })
		return c
	case <-time.After(2 * time.Second):
		t.Fatalf("server never accepted the connection")
		return nil
	}
}

// TestS1SingleRequestReply covers spec §8 scenario S1: a single enqueue
// drains to NothingToDo/ConfirmRemoveFromWriteQueue and the bridge leaves
// the FIFO with queued == 0.
func TestS1SingleRequestReply(t *testing.T) {
	m := NewManager("s1")
	defer m.Dispose()

	br := testbridge.New(nil, 0)
	server := loopbackPair(t, m, br)

	br.Enqueue([]byte("PING\r\n"))
	m.RequestWrite(br, false)

	buf := make([]byte, 6)
	_ = server.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, err := readFull(server, buf)
	if err != nil || n != len(buf) {
		t.Fatalf("server read: n=%d err=%v", n, err)
	}
	if !bytes.Equal(buf, []byte("PING\r\n")) {
		t.Fatalf("server got %q", buf)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if br.Queued().Load() == 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := br.Queued().Load(); got != 0 {
		t.Fatalf("queued flag = %d after drain, want 0", got)
	}
}

// TestS2BurstDrainsBothBridges covers spec §8 scenario S2: two bridges
// queued back-to-back both get drained, so each server side receives the
// byte its bridge enqueued.
func TestS2BurstDrainsBothBridges(t *testing.T) {
	m := NewManager("s2")
	defer m.Dispose()

	brA := testbridge.New(nil, 0)
	brB := testbridge.New(nil, 0)
	srvA := loopbackPair(t, m, brA)
	srvB := loopbackPair(t, m, brB)

	brA.Enqueue([]byte("A"))
	brB.Enqueue([]byte("B"))
	m.RequestWrite(brA, false)
	m.RequestWrite(brB, false)

	var wg sync.WaitGroup
	results := make(map[string]byte)
	var mu sync.Mutex
	wg.Add(2)
	readOne := func(name string, c net.Conn) {
		defer wg.Done()
		buf := make([]byte, 1)
		_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
		if _, err := readFull(c, buf); err == nil {
			mu.Lock()
			results[name] = buf[0]
			mu.Unlock()
		}
	}
	go readOne("A", srvA)
	go readOne("B", srvB)
	wg.Wait()

	if results["A"] != 'A' || results["B"] != 'B' {
		t.Fatalf("results = %v, want A/B", results)
	}
}

// TestS3BackOfLineFairness covers spec §8 scenario S3: a bridge with a
// large backlog must not prevent a small bridge queued shortly after from
// completing quickly, thanks to the bounded drain budget (50ms here).
func TestS3BackOfLineFairness(t *testing.T) {
	m := NewManager("s3", api.WithWriteBudget(50*time.Millisecond))
	defer m.Dispose()

	big := testbridge.New(nil, 0)
	small := testbridge.New(nil, 0)
	srvBig := loopbackPair(t, m, big)
	srvSmall := loopbackPair(t, m, small)

	// Drain the server side of "big" slowly so the bridge's WriteQueue
	// keeps reporting MoreWork and stays queued.
	stop := make(chan struct{})
	go func() {
		buf := make([]byte, 4096)
		for {
			select {
			case <-stop:
				return
			default:
				_ = srvBig.SetReadDeadline(time.Now().Add(20 * time.Millisecond))
				_, _ = srvBig.Read(buf)
			}
		}
	}()
	defer close(stop)

	big.Enqueue(bytes.Repeat([]byte("x"), 8<<20))
	m.RequestWrite(big, false)

	time.Sleep(20 * time.Millisecond) // let the big bridge start monopolizing

	small.Enqueue([]byte("hi"))
	start := time.Now()
	m.RequestWrite(small, false)

	buf := make([]byte, 2)
	_ = srvSmall.SetReadDeadline(time.Now().Add(time.Second))
	if _, err := readFull(srvSmall, buf); err != nil {
		t.Fatalf("small bridge read: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 400*time.Millisecond {
		t.Fatalf("small bridge took %v, want < 400ms", elapsed)
	}
}

// TestHeartbeatLiveness covers spec §8 property 4: with a short configured
// interval, a connected bridge observes repeated OnHeartbeat calls.
func TestHeartbeatLiveness(t *testing.T) {
	m := NewManager("heartbeat", api.WithHeartbeatInterval(20*time.Millisecond))
	defer m.Dispose()

	br := testbridge.New(nil, 0)
	loopbackPair(t, m, br)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if br.Heartbeats() >= 2 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("only observed %d heartbeats in 2s", br.Heartbeats())
}

// TestDisposeIdempotent covers spec §8 "Dispose is idempotent".
func TestDisposeIdempotent(t *testing.T) {
	m := NewManager("dispose-idempotent")
	m.Dispose()
	m.Dispose() // must not panic or block
	if !m.Disposed() {
		t.Fatalf("Disposed() = false after Dispose")
	}
}

// TestSingleSlotFairness covers spec §8 property 1: RequestWrite(forced =
// false) never lets a bridge occupy more than one FIFO slot.
func TestSingleSlotFairness(t *testing.T) {
	m := NewManager("single-slot")
	defer m.Dispose()

	br := testbridge.New(nil, 0)
	loopbackPair(t, m, br)

	br.Enqueue([]byte("x"))
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RequestWrite(br, false)
		}()
	}
	wg.Wait()

	if n := m.fifo.Len(); n > 1 {
		t.Fatalf("FIFO depth = %d with a single bridge, want at most 1", n)
	}
	if q := br.Queued().Load(); q != 0 && q != 1 {
		t.Fatalf("queued flag = %d, want 0 or 1", q)
	}
}

// readFull is a tiny local alias so this file does not need to import
// io solely for io.ReadFull in three call sites.
func readFull(c net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := c.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
