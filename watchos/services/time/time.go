package timesvc

import (
	"time"

	"gridface/hal"
	"gridface/watchos/kernel"
	"gridface/watchos/proto"
)

const (
	maxSleepers    = 32
	maxSubscribers = 8

	// The wall clock is sampled at most this often (in ticks).
	clockPollTicks = 50
)

type sleeper struct {
	inUse bool
	due   uint64
	id    uint32
	reply kernel.Capability
}

// Service provides fire-once timers and minute-boundary notifications.
type Service struct {
	clock hal.Clock
	ep    kernel.Capability

	now      uint64
	sleepers [maxSleepers]sleeper

	subs     [maxSubscribers]kernel.Capability
	last     proto.WallTime
	lastPoll uint64
	polled   bool
}

func New(clock hal.Clock, ep kernel.Capability) *Service {
	if clock == nil {
		clock = hal.SystemClock{}
	}
	return &Service{clock: clock, ep: ep}
}

func (s *Service) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(s.ep)
	if !ok {
		return
	}

	done := make(chan struct{})
	defer close(done)

	tickCh := make(chan uint64, 16)
	go func() {
		last := ctx.NowTick()
		for {
			last = ctx.WaitTick(last)
			select {
			case <-done:
				return
			case tickCh <- last:
			default:
			}
		}
	}()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			s.now = ctx.NowTick()
			s.handle(ctx, msg)

		case now := <-tickCh:
			s.now = now
			s.wakeReady(ctx)
			s.pollClock(ctx)
		}
	}
}

func (s *Service) handle(ctx *kernel.Context, msg kernel.Message) {
	if !msg.Cap.Valid() {
		return
	}

	switch proto.Kind(msg.Kind) {
	case proto.MsgSleep:
		s.handleSleep(ctx, msg)
	case proto.MsgMinuteSubscribe:
		s.handleSubscribe(ctx, msg)
	}
}

func (s *Service) handleSleep(ctx *kernel.Context, msg kernel.Message) {
	requestID, dt, ok := proto.DecodeSleepPayload(msg.Payload())
	if !ok {
		_ = ctx.Send(s.ep, msg.Cap, uint16(proto.MsgError), proto.ErrorPayload(proto.ErrBadMessage, proto.MsgSleep, 0))
		return
	}
	if dt == 0 {
		_ = ctx.Send(s.ep, msg.Cap, uint16(proto.MsgWake), proto.WakePayload(requestID))
		return
	}
	if !s.schedule(s.now+uint64(dt), requestID, msg.Cap) {
		_ = ctx.Send(s.ep, msg.Cap, uint16(proto.MsgError), proto.ErrorPayload(proto.ErrOverflow, proto.MsgSleep, requestID))
	}
}

func (s *Service) handleSubscribe(ctx *kernel.Context, msg kernel.Message) {
	slot := -1
	for i := range s.subs {
		if !s.subs[i].Valid() {
			slot = i
			break
		}
	}
	if slot < 0 {
		_ = ctx.Send(s.ep, msg.Cap, uint16(proto.MsgError), proto.ErrorPayload(proto.ErrOverflow, proto.MsgMinuteSubscribe, 0))
		return
	}
	// Bring existing subscribers up to date before the newcomer's first tick.
	s.checkMinute(ctx)
	s.subs[slot] = msg.Cap
	_ = ctx.Send(s.ep, msg.Cap, uint16(proto.MsgMinuteTick), proto.MinuteTickPayload(s.last))
}

func (s *Service) schedule(due uint64, requestID uint32, reply kernel.Capability) bool {
	for i := range s.sleepers {
		if s.sleepers[i].inUse {
			continue
		}
		s.sleepers[i] = sleeper{inUse: true, due: due, id: requestID, reply: reply}
		return true
	}
	return false
}

func (s *Service) wakeReady(ctx *kernel.Context) {
	for i := range s.sleepers {
		sl := &s.sleepers[i]
		if !sl.inUse || sl.due > s.now {
			continue
		}
		_ = ctx.Send(s.ep, sl.reply, uint16(proto.MsgWake), proto.WakePayload(sl.id))
		*sl = sleeper{}
	}
}

func (s *Service) pollClock(ctx *kernel.Context) {
	if s.polled && s.now-s.lastPoll < clockPollTicks {
		return
	}
	s.lastPoll = s.now
	s.checkMinute(ctx)
}

// checkMinute samples the wall clock and notifies subscribers when the minute changed.
func (s *Service) checkMinute(ctx *kernel.Context) {
	wt := wallTime(s.clock.Now())
	if s.polled && wt == s.last {
		return
	}
	first := !s.polled
	s.polled = true
	s.last = wt
	if first {
		return
	}

	payload := proto.MinuteTickPayload(wt)
	for _, sub := range s.subs {
		if !sub.Valid() {
			continue
		}
		_ = ctx.Send(s.ep, sub, uint16(proto.MsgMinuteTick), payload)
	}
}

func wallTime(t time.Time) proto.WallTime {
	return proto.WallTime{
		Year:   uint16(t.Year()),
		Month:  uint8(t.Month()),
		Day:    uint8(t.Day()),
		Hour:   uint8(t.Hour()),
		Minute: uint8(t.Minute()),
	}
}
