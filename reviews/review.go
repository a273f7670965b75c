package reviews

import (
	"context"
	"fmt"
	"time"

	"github.com/nasermirzaei89/pressroom/contents"
)

// Review is the latest editor decision for a post. There is at most one per post.
type Review struct {
	ID        string
	PostID    string
	Editor    string
	Approved  bool
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ReviewRepository interface {
	Insert(ctx context.Context, review *Review) (err error)
	FindByPostID(ctx context.Context, postID string) (review *Review, err error)
	Update(ctx context.Context, review *Review) (err error)
}

type PostFinder interface {
	FindPost(ctx context.Context, postID string) (post *contents.Post, err error)
}

// DecisionPublisher hands a decision over to the post store.
type DecisionPublisher interface {
	PublishDecision(ctx context.Context, review *Review) (err error)
}

type ReviewNotFoundError struct {
	PostID string
}

func (err ReviewNotFoundError) Error() string {
	return fmt.Sprintf("review for post %q not found", err.PostID)
}
