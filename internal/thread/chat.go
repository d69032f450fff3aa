package thread

import (
	"strings" // trims message text
	"sync"    // guards the thread map

	"github.com/iliyamo/studentdev-hub/internal/clock" // injectable time source
	"github.com/iliyamo/studentdev-hub/internal/model" // message types
)

type messages = Thread[model.Message, model.MessagePatch]

// Chat holds the Q&A thread of each resource.
type Chat struct {
	clock clock.Clock // shared by every thread

	mu      sync.Mutex
	threads map[int]*messages // by resource id, created on first message
}

// NewChat returns a chat with no threads.
func NewChat(c clock.Clock) *Chat {
	return &Chat{clock: c, threads: make(map[int]*messages)}
}

// Send posts text to the resource's thread. Blank text is rejected.
func (c *Chat) Send(caller *model.User, resourceID int, text string) (model.Message, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Message{}, false
	}
	c.mu.Lock()
	t, ok := c.threads[resourceID]
	if !ok { // first message on this resource
		t = NewThread[model.Message, model.MessagePatch](c.clock)
		c.threads[resourceID] = t
	}
	c.mu.Unlock()
	return t.Post(caller, model.Message{Text: text}), true // the thread has its own lock
}

// EditMessage lets the author replace the text. Blank text is rejected.
func (c *Chat) EditMessage(caller *model.User, resourceID int, id, text string) (model.Message, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Message{}, false
	}
	t := c.thread(resourceID)
	if t == nil {
		return model.Message{}, false
	}
	return t.Edit(caller, id, model.MessagePatch{Text: &text})
}

// DeleteMessage removes a message. Admin only.
func (c *Chat) DeleteMessage(caller *model.User, resourceID int, id string) bool {
	t := c.thread(resourceID)
	return t != nil && t.Delete(caller, id)
}

// Messages returns the thread of resourceID in posting order.
func (c *Chat) Messages(resourceID int) []model.Message {
	if t := c.thread(resourceID); t != nil {
		return t.List()
	}
	return []model.Message{}
}

// Purge drops the thread of a deleted resource.
func (c *Chat) Purge(resourceID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.threads, resourceID)
}

// thread returns the thread of resourceID without creating it.
func (c *Chat) thread(resourceID int) *messages {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.threads[resourceID]
}
