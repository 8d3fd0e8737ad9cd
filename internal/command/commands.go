package command

import (
	"time"

	"github.com/kees-jan/swoq-bot/internal/concurrency"
)

// QueueState pairs a player's command queue with the time its head was
// last replaced, the clock the starvation wait is measured against.
type QueueState struct {
	Queue           Queue
	LastCommandTime time.Time
}

// Commands is a player's mutex+condvar guarded command queue.
type Commands = concurrency.ThreadSafe[QueueState]

// NewCommands returns an empty, guarded queue.
func NewCommands() *Commands {
	return concurrency.NewThreadSafe(QueueState{LastCommandTime: time.Now()})
}

// SetCommands replaces the whole queue, as the mission planner does when
// it starts a new command sequence.
func SetCommands(c *Commands, cmds ...Command) {
	c.Set(QueueState{Queue: Set(cmds...), LastCommandTime: time.Now()})
}

// Reset empties the queue, as the tick loop does on every level transition.
func Reset(c *Commands) {
	c.Set(QueueState{LastCommandTime: time.Now()})
}

// FirstDo inserts cmds ahead of whatever is already queued.
func FirstDo(c *Commands, cmds ...Command) {
	p := c.Lock()
	defer p.Unlock()
	qs := p.Get()
	qs.Queue = qs.Queue.FirstDo(cmds...)
	qs.LastCommandTime = time.Now()
	p.Set(qs)
}
