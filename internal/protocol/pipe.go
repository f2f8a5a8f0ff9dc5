package protocol

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrClosed is returned once the port has been closed or its context is done.
var ErrClosed = errors.New("protocol: port closed")

// Pipe owns the two queues of one worker/presentation pairing. Events are
// bounded by size; the worker blocks when the presentation falls behind.
type Pipe struct {
	events   chan Event
	commands chan Command
}

// NewPipe creates a pipe whose event queue holds size events.
func NewPipe(size int) *Pipe {
	if size < 1 {
		size = 1
	}
	return &Pipe{
		events:   make(chan Event, size),
		commands: make(chan Command, 1),
	}
}

// Events is the presentation side of the event stream. It is closed when the
// worker closes its port.
func (p *Pipe) Events() <-chan Event {
	return p.events
}

// Submit hands a completed text entry to the worker. It never blocks: a
// submission made while a previous one is still unread is dropped and Submit
// returns false.
func (p *Pipe) Submit(text string) bool {
	select {
	case p.commands <- Submit(text):
		return true
	default:
		return false
	}
}

// Port returns the worker side, bound to ctx. Cancelling ctx unblocks the worker.
func (p *Pipe) Port(ctx context.Context) *Port {
	return &Port{ctx: ctx, events: p.events, commands: p.commands}
}

// Port is the worker side of a Pipe. Emit calls do not return errors; the first
// failure is kept and reported by Err, Await and Ask.
type Port struct {
	ctx      context.Context
	events   chan<- Event
	commands <-chan Command

	mu     sync.Mutex
	err    error
	closed bool
}

// Emit queues ev, blocking while the queue is full.
func (p *Port) Emit(ev Event) {
	if p.Err() != nil {
		return
	}
	select {
	case p.events <- ev:
	case <-p.ctx.Done():
		p.fail(p.ctx.Err())
	}
}

// Log emits a Log event.
func (p *Port) Log(level LogLevel, text string) {
	p.Emit(Log(text, level))
}

// Await emits WaitForInput and blocks until the next submission. This is the
// worker's only suspension point. The submission is echoed as an info log.
func (p *Port) Await() (string, error) {
	p.Emit(WaitForInput())
	if err := p.Err(); err != nil {
		return "", err
	}
	select {
	case cmd := <-p.commands:
		answer := strings.TrimSpace(cmd.Text)
		p.Log(LevelInfo, answer)
		return answer, p.Err()
	case <-p.ctx.Done():
		p.fail(p.ctx.Err())
		return "", p.Err()
	}
}

// Ask shows prompt and waits until accept approves a submission. A rejected
// submission is reported at error level and the same question is re-armed
// without any other event.
func (p *Port) Ask(prompt string, accept func(answer string) error) (string, error) {
	p.Log(LevelInfo, prompt)
	for {
		answer, err := p.Await()
		if err != nil {
			return "", err
		}
		if err := accept(answer); err != nil {
			p.Log(LevelError, err.Error())
			continue
		}
		return answer, nil
	}
}

// Err returns the first failure, if any.
func (p *Port) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Close ends the event stream. It is safe to call more than once.
func (p *Port) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	if p.err == nil {
		p.err = ErrClosed
	}
	close(p.events)
}

func (p *Port) fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err == nil {
		p.err = errors.Join(ErrClosed, err)
	}
}
