package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nasermirzaei89/pressroom/contents"
	"github.com/nasermirzaei89/pressroom/reviews"
)

// ReviewQueue is where review decisions travel to the post store.
const ReviewQueue = "review"

const contentTypeJSON = "application/json"

type reviewEvent struct {
	PostID        string `json:"postId"`
	Approved      bool   `json:"approved"`
	Editor        string `json:"editor"`
	ReviewComment string `json:"reviewComment"`
}

type ReviewPublisher struct {
	broker Broker
	queue  string
}

var _ reviews.DecisionPublisher = (*ReviewPublisher)(nil)

func NewReviewPublisher(broker Broker, queue string) *ReviewPublisher {
	return &ReviewPublisher{
		broker: broker,
		queue:  queue,
	}
}

func (p *ReviewPublisher) PublishDecision(ctx context.Context, review *reviews.Review) error {
	body, err := json.Marshal(reviewEvent{
		PostID:        review.PostID,
		Approved:      review.Approved,
		Editor:        review.Editor,
		ReviewComment: review.Comment,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal review event: %w", err)
	}

	err = p.broker.Publish(ctx, p.queue, Message{
		ID:          uuid.NewString(),
		ContentType: contentTypeJSON,
		Body:        body,
		Timestamp:   time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to publish review event: %w", err)
	}

	return nil
}

// DecisionReceiver applies review decisions to posts.
type DecisionReceiver interface {
	ReceiveReviewDecision(ctx context.Context, decision contents.ReviewDecision) (err error)
}

type ReviewConsumer struct {
	broker   Broker
	queue    string
	receiver DecisionReceiver
}

func NewReviewConsumer(broker Broker, queue string, receiver DecisionReceiver) *ReviewConsumer {
	return &ReviewConsumer{
		broker:   broker,
		queue:    queue,
		receiver: receiver,
	}
}

// Run consumes review decisions until ctx is done.
func (c *ReviewConsumer) Run(ctx context.Context) error {
	err := c.broker.Consume(ctx, c.queue, c.handle)
	if err != nil {
		return fmt.Errorf("failed to consume review queue: %w", err)
	}

	return nil
}

func (c *ReviewConsumer) handle(ctx context.Context, msg Message) error {
	var event reviewEvent

	err := json.Unmarshal(msg.Body, &event)
	if err != nil {
		return &InvalidMessageError{MessageID: msg.ID, Reason: err.Error()}
	}

	if event.PostID == "" {
		return &InvalidMessageError{MessageID: msg.ID, Reason: "missing postId"}
	}

	err = c.receiver.ReceiveReviewDecision(ctx, contents.ReviewDecision{
		PostID:   event.PostID,
		Approved: event.Approved,
		Editor:   event.Editor,
		Comment:  event.ReviewComment,
	})
	if err != nil {
		return fmt.Errorf("failed to receive review decision: %w", err)
	}

	return nil
}
