package logger

import (
	"gridface/hal"
	"gridface/watchos/kernel"
	"gridface/watchos/proto"
)

// Service writes MsgLogLine payloads to the platform logger, one per line.
type Service struct {
	log hal.Logger
	ep  kernel.Capability
}

func New(log hal.Logger, ep kernel.Capability) *Service {
	return &Service{log: log, ep: ep}
}

func (s *Service) Run(ctx *kernel.Context) {
	for {
		msg, ok := ctx.Recv(s.ep)
		if !ok {
			return
		}
		if s.log == nil || proto.Kind(msg.Kind) != proto.MsgLogLine {
			continue
		}
		s.log.WriteLineBytes(msg.Payload())
	}
}
