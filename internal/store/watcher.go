package store

import (
	"fmt"
	"sync"

	"github.com/ghost/mediabolt/internal/models"
)

// Notifier broadcasts coarse change signals after committed writes so
// composite-detail and feed watchers can re-read. Signals carry no
// payload; subscribers re-query the store. Publishes never block: a
// subscriber that has a signal pending coalesces further ones.
type Notifier struct {
	mu   sync.Mutex
	subs map[string]map[chan struct{}]struct{}
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[string]map[chan struct{}]struct{})}
}

// Subscribe registers interest in a topic. The returned cancel func must
// be called to release the subscription.
func (n *Notifier) Subscribe(topic string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	n.mu.Lock()
	if n.subs[topic] == nil {
		n.subs[topic] = make(map[chan struct{}]struct{})
	}
	n.subs[topic][ch] = struct{}{}
	n.mu.Unlock()

	cancel := func() {
		n.mu.Lock()
		if set, ok := n.subs[topic]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(n.subs, topic)
			}
		}
		n.mu.Unlock()
	}
	return ch, cancel
}

// Publish signals every subscriber of a topic.
func (n *Notifier) Publish(topic string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.subs[topic] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// MediaTopic names the change topic for one media identity.
func MediaTopic(id models.Identity) string {
	return fmt.Sprintf("media/%s", id)
}

// CategoryTopic names the change topic for one category's placements.
func CategoryTopic(categoryID int) string {
	return fmt.Sprintf("category/%d", categoryID)
}

// FeedTopic names the change topic for one cursor label.
func FeedTopic(label string) string {
	return fmt.Sprintf("feed/%s", label)
}
