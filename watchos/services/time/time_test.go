package timesvc

import (
	"sync"
	"testing"
	"time"

	"gridface/watchos/kernel"
	"gridface/watchos/proto"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

type harness struct {
	k       *kernel.Kernel
	timeCap kernel.Capability
	reply   kernel.Capability
	ctx     chan *kernel.Context
}

func newHarness(t *testing.T, clock *testClock) *harness {
	t.Helper()
	k := kernel.New()
	ep := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	h := &harness{
		k:       k,
		timeCap: ep.Restrict(kernel.RightSend),
		reply:   k.NewEndpoint(kernel.RightSend | kernel.RightRecv),
		ctx:     make(chan *kernel.Context, 1),
	}
	k.AddTask(New(clock, ep))
	k.AddTask(kernel.TaskFunc(func(ctx *kernel.Context) { h.ctx <- ctx }))
	return h
}

func (h *harness) context(t *testing.T) *kernel.Context {
	t.Helper()
	select {
	case ctx := <-h.ctx:
		h.ctx <- ctx
		return ctx
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for task context")
		return nil
	}
}

func (h *harness) send(t *testing.T, kind proto.Kind, payload []byte) {
	t.Helper()
	ctx := h.context(t)
	if res := ctx.SendToCapResult(h.timeCap, uint16(kind), payload, h.reply.Restrict(kernel.RightSend)); res != kernel.SendOK {
		t.Fatalf("send %s: %s", kind, res)
	}
}

func (h *harness) recv(t *testing.T) kernel.Message {
	t.Helper()
	ctx := h.context(t)
	ch, ok := ctx.RecvChan(h.reply.Restrict(kernel.RightRecv))
	if !ok {
		t.Fatal("expected reply channel")
	}
	select {
	case msg := <-ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for reply")
		return kernel.Message{}
	}
}

func (h *harness) expectNothing(t *testing.T) {
	t.Helper()
	ctx := h.context(t)
	if msg, ok := ctx.TryRecv(h.reply.Restrict(kernel.RightRecv)); ok {
		t.Fatalf("unexpected reply kind %s", proto.Kind(msg.Kind))
	}
}

// tickTo advances the kernel clock in small steps so the service observes each one.
func (h *harness) tickTo(from, to uint64) {
	for seq := from; seq <= to; seq++ {
		h.k.TickTo(seq)
		time.Sleep(50 * time.Microsecond)
	}
}

func TestSleepWakesAfterDelay(t *testing.T) {
	h := newHarness(t, &testClock{t: time.Unix(0, 0)})

	h.send(t, proto.MsgSleep, proto.SleepPayload(7, 100))
	time.Sleep(5 * time.Millisecond)
	h.tickTo(1, 50)
	h.expectNothing(t)

	h.tickTo(51, 120)
	msg := h.recv(t)
	if proto.Kind(msg.Kind) != proto.MsgWake {
		t.Fatalf("expected wake, got %s", proto.Kind(msg.Kind))
	}
	if id, ok := proto.DecodeWakePayload(msg.Payload()); !ok || id != 7 {
		t.Fatalf("expected request 7, got %d", id)
	}
}

func TestSleepZeroWakesImmediately(t *testing.T) {
	h := newHarness(t, &testClock{t: time.Unix(0, 0)})

	h.send(t, proto.MsgSleep, proto.SleepPayload(3, 0))
	msg := h.recv(t)
	if proto.Kind(msg.Kind) != proto.MsgWake {
		t.Fatalf("expected wake, got %s", proto.Kind(msg.Kind))
	}
}

func TestSleepBadPayload(t *testing.T) {
	h := newHarness(t, &testClock{t: time.Unix(0, 0)})

	h.send(t, proto.MsgSleep, []byte{1, 2, 3})
	msg := h.recv(t)
	code, ref, _, ok := proto.DecodeErrorPayload(msg.Payload())
	if proto.Kind(msg.Kind) != proto.MsgError || !ok || code != proto.ErrBadMessage || ref != proto.MsgSleep {
		t.Fatalf("expected bad message error, got kind=%s code=%s", proto.Kind(msg.Kind), code)
	}
}

func TestScheduleOverflow(t *testing.T) {
	s := New(&testClock{}, kernel.Capability{})
	for i := 0; i < maxSleepers; i++ {
		if !s.schedule(10, uint32(i+1), kernel.Capability{}) {
			t.Fatalf("slot %d: expected schedule to succeed", i)
		}
	}
	if s.schedule(10, 99, kernel.Capability{}) {
		t.Fatal("expected overflow")
	}
}

func TestMinuteSubscription(t *testing.T) {
	clock := &testClock{t: time.Date(2024, 3, 1, 0, 5, 30, 0, time.UTC)}
	h := newHarness(t, clock)

	h.send(t, proto.MsgMinuteSubscribe, nil)
	msg := h.recv(t)
	wt, ok := proto.DecodeMinuteTickPayload(msg.Payload())
	if proto.Kind(msg.Kind) != proto.MsgMinuteTick || !ok {
		t.Fatalf("expected minute tick, got %s", proto.Kind(msg.Kind))
	}
	if wt.Hour != 0 || wt.Minute != 5 || wt.Year != 2024 || wt.Month != 3 || wt.Day != 1 {
		t.Fatalf("unexpected wall time %+v", wt)
	}

	h.tickTo(1, 2*clockPollTicks)
	h.expectNothing(t)

	clock.Set(time.Date(2024, 3, 1, 0, 6, 0, 0, time.UTC))
	h.tickTo(2*clockPollTicks+1, 4*clockPollTicks)
	msg = h.recv(t)
	wt, ok = proto.DecodeMinuteTickPayload(msg.Payload())
	if !ok || wt.Minute != 6 {
		t.Fatalf("expected minute 6, got %+v", wt)
	}
	h.expectNothing(t)
}
