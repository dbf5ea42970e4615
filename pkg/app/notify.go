package app

import "tableflip.dev/anthem/pkg/command"

// Notifier receives the replies produced while handling a request, in order.
type Notifier interface {
	Notify(replies ...command.Reply)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(replies ...command.Reply)

func (f NotifierFunc) Notify(replies ...command.Reply) {
	f(replies...)
}

// Collector records replies in memory.
type Collector struct {
	Replies []command.Reply
}

func (c *Collector) Notify(replies ...command.Reply) {
	c.Replies = append(c.Replies, replies...)
}

// Take returns the recorded replies and resets the collector.
func (c *Collector) Take() []command.Reply {
	out := c.Replies
	c.Replies = nil
	return out
}

// Kinds lists the kinds of the recorded replies.
func (c *Collector) Kinds() []command.Kind {
	kinds := make([]command.Kind, len(c.Replies))
	for i, r := range c.Replies {
		kinds[i] = r.Kind
	}
	return kinds
}
