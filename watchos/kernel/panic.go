package kernel

import (
	"sync"
	"sync/atomic"
)

// PanicInfo describes a panic recovered from a task goroutine.
type PanicInfo struct {
	TaskID TaskID
	Value  any
	Stack  []byte
}

var (
	panicActive atomic.Bool
	panicOnce   sync.Once

	panicHandler atomic.Value // func(PanicInfo)
)

// InPanicMode reports whether any task has panicked.
func InPanicMode() bool {
	return panicActive.Load()
}

// SetPanicHandler installs the process-wide panic handler.
//
// Only the first task panic reaches the handler. It must not panic itself.
func SetPanicHandler(fn func(PanicInfo)) {
	panicHandler.Store(fn)
}

func runTask(id TaskID, t Task, ctx *Context) {
	defer func() {
		if r := recover(); r != nil {
			triggerPanic(PanicInfo{TaskID: id, Value: r})
		}
	}()
	t.Run(ctx)
}

func triggerPanic(info PanicInfo) {
	panicOnce.Do(func() {
		panicActive.Store(true)
		info.Stack = captureStack()
		fn, _ := panicHandler.Load().(func(PanicInfo))
		if fn != nil {
			fn(info)
		}
	})
}
