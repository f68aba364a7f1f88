package kernel

import (
	"testing"
	"time"
)

func TestMessagePayloadClampsLen(t *testing.T) {
	var msg Message
	msg.Len = MaxMessageBytes + 10
	if got := len(msg.Payload()); got != MaxMessageBytes {
		t.Fatalf("expected payload length %d, got %d", MaxMessageBytes, got)
	}
}

func fillQueue(t *testing.T, ctx *Context, to Capability) {
	t.Helper()
	for i := 0; i < mailboxSlots; i++ {
		if res := ctx.SendToCapResult(to, 1, []byte("x"), Capability{}); res != SendOK {
			t.Fatalf("expected SendOK filling queue, got %s", res)
		}
	}
}

func tickInBackground(k *Kernel, n uint64) {
	go func() {
		for i := uint64(1); i <= n; i++ {
			k.TickTo(i)
			time.Sleep(1 * time.Millisecond)
		}
	}()
}

func TestSendToCapRetry(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		drain bool
		want  SendResult
	}{
		{name: "zero limit does not block", limit: 0, want: SendErrQueueFull},
		{name: "succeeds after drain", limit: 5, drain: true, want: SendOK},
		{name: "respects limit", limit: 1, want: SendErrQueueFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := New()
			ep := k.NewEndpoint(RightSend | RightRecv)
			ctx := &Context{k: k, taskID: 1}
			to := ep.Restrict(RightSend)
			ch, ok := ctx.RecvChan(ep.Restrict(RightRecv))
			if !ok {
				t.Fatal("expected recv channel")
			}
			fillQueue(t, ctx, to)

			resultCh := make(chan SendResult, 1)
			go func() {
				resultCh <- ctx.SendToCapRetry(to, 1, []byte("y"), Capability{}, tt.limit)
			}()

			if tt.drain {
				<-ch
			}
			tickInBackground(k, 10)

			select {
			case res := <-resultCh:
				if res != tt.want {
					t.Fatalf("expected %s, got %s", tt.want, res)
				}
			case <-time.After(200 * time.Millisecond):
				t.Fatal("timed out waiting for send retry")
			}
		})
	}
}
