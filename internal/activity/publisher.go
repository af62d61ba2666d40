package activity

import "context"

// Publisher hands activities to the feed. Implementations may deliver asynchronously.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// Recorder persists an activity message.
type Recorder interface {
	Record(ctx context.Context, msg Message) error
}

// DirectPublisher records messages synchronously, used when Kafka is disabled.
type DirectPublisher struct {
	recorder Recorder
}

func NewDirectPublisher(recorder Recorder) *DirectPublisher {
	return &DirectPublisher{recorder: recorder}
}

func (p *DirectPublisher) Publish(ctx context.Context, msg Message) error {
	return p.recorder.Record(ctx, msg)
}

// NopPublisher drops every message.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Message) error { return nil }
