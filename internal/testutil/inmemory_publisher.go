package testutil

import (
	"context"
	"sync"

	"github.com/Huulamnguyen/biztime/internal/messaging"
)

// InMemoryPublisher is a messaging.Client that records published messages.
type InMemoryPublisher struct {
	mu       sync.Mutex
	topic    string
	messages []messaging.Message

	// FailWith, when set, is returned by Publish.
	FailWith error
}

// NewInMemoryPublisher returns a publisher for topic.
func NewInMemoryPublisher(topic string) *InMemoryPublisher {
	return &InMemoryPublisher{topic: topic}
}

func (p *InMemoryPublisher) Publish(ctx context.Context, msg messaging.Message) error {
	if p.FailWith != nil {
		return p.FailWith
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	msg.Topic = p.topic
	p.messages = append(p.messages, msg)
	return nil
}

// Consume replays recorded messages through handler, then waits for ctx.
func (p *InMemoryPublisher) Consume(ctx context.Context, handler messaging.Handler) error {
	for _, msg := range p.Messages() {
		if err := handler(ctx, msg); err != nil {
			return err
		}
	}
	<-ctx.Done()
	return ctx.Err()
}

func (p *InMemoryPublisher) Topic() string { return p.topic }

// Messages returns a copy of everything published so far.
func (p *InMemoryPublisher) Messages() []messaging.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]messaging.Message(nil), p.messages...)
}
