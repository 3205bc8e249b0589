package ws

import "sync"

const (
	ChannelAssessed    = "loans:assessed"
	channelGradePrefix = "loans:grade:"
)

// GradeChannel names the channel carrying assessments of a single grade.
func GradeChannel(grade string) string {
	return channelGradePrefix + grade
}

// Hub fans published payloads out to the clients subscribed to a channel.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{subscribers: map[string]map[*Client]struct{}{}}
}

func (h *Hub) Subscribe(channel string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.subscribers[channel]
	if !ok {
		subs = map[*Client]struct{}{}
		h.subscribers[channel] = subs
	}
	subs[client] = struct{}{}
	client.addChannel(channel)
}

func (h *Hub) UnsubscribeAll(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, channel := range client.listChannels() {
		subs, ok := h.subscribers[channel]
		if !ok {
			continue
		}
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.subscribers, channel)
		}
	}
}

// Publish delivers payload to every subscriber of channel and returns how
// many clients it was offered to.
func (h *Hub) Publish(channel string, payload []byte) int {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.subscribers[channel]))
	for c := range h.subscribers[channel] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.send(payload)
	}
	return len(targets)
}
