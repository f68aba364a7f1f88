package time

import (
	"errors"
	"fmt"
	stdtime "time"

	"gridface/watchos/kernel"
	"gridface/watchos/proto"
)

// Ticks are milliseconds.
const tickDuration = stdtime.Millisecond

// ErrStale reports a wake or error addressed to a superseded request.
var ErrStale = errors.New("time: stale reply")

// Client talks to the time service through a private reply endpoint.
//
// Replies (wakes, errors and minute ticks) arrive on Events; a Client must be
// used from a single task.
type Client struct {
	timeCap kernel.Capability
	reply   kernel.Capability
	nextID  uint32
}

// New allocates a reply endpoint for talking to the time service at timeCap.
func New(ctx *kernel.Context, timeCap kernel.Capability) (*Client, error) {
	if ctx == nil {
		return nil, fmt.Errorf("time client: nil context")
	}
	reply := ctx.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	if !reply.Valid() {
		return nil, fmt.Errorf("time client: allocate reply endpoint")
	}
	return &Client{timeCap: timeCap, reply: reply}, nil
}

// Events returns the channel replies arrive on.
func (c *Client) Events(ctx *kernel.Context) <-chan kernel.Message {
	ch, _ := ctx.RecvChan(c.reply.Restrict(kernel.RightRecv))
	return ch
}

// After asks for a single wake after d and returns the request ID the wake
// will carry.
func (c *Client) After(ctx *kernel.Context, d stdtime.Duration) (uint32, error) {
	c.nextID++
	if c.nextID == 0 {
		c.nextID++
	}
	id := c.nextID

	dt := uint32(0)
	if d > 0 {
		dt = uint32((d + tickDuration - 1) / tickDuration)
	}
	res := ctx.SendToCapRetry(c.timeCap, uint16(proto.MsgSleep), proto.SleepPayload(id, dt), c.reply.Restrict(kernel.RightSend), 4)
	if res != kernel.SendOK {
		return 0, fmt.Errorf("time sleep send: %s", res)
	}
	return id, nil
}

// SubscribeMinutes registers for minute ticks. The service answers right away
// with the current minute.
func (c *Client) SubscribeMinutes(ctx *kernel.Context) error {
	res := ctx.SendToCapRetry(c.timeCap, uint16(proto.MsgMinuteSubscribe), nil, c.reply.Restrict(kernel.RightSend), 4)
	if res != kernel.SendOK {
		return fmt.Errorf("time subscribe send: %s", res)
	}
	return nil
}

// CheckWake reports whether msg completes request id. It returns nil for the
// matching wake, ErrStale for anything addressed elsewhere and a descriptive
// error for a service failure on id.
func CheckWake(msg kernel.Message, id uint32) error {
	switch proto.Kind(msg.Kind) {
	case proto.MsgWake:
		reqID, ok := proto.DecodeWakePayload(msg.Payload())
		if !ok {
			return fmt.Errorf("time wake: bad payload")
		}
		if reqID != id {
			return ErrStale
		}
		return nil

	case proto.MsgError:
		code, ref, reqID, ok := proto.DecodeErrorPayload(msg.Payload())
		if !ok {
			return fmt.Errorf("time error: bad payload")
		}
		if reqID != 0 && reqID != id {
			return ErrStale
		}
		return fmt.Errorf("time error: code=%s ref=%s", code, ref)

	default:
		return ErrStale
	}
}
