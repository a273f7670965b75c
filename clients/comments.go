package clients

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nasermirzaei89/pressroom/contents"
	"github.com/nasermirzaei89/pressroom/web"
)

type CommentsClient struct {
	baseClient
}

var _ contents.CommentLister = (*CommentsClient)(nil)

func NewCommentsClient(baseURL string, httpClient *http.Client) *CommentsClient {
	return &CommentsClient{baseClient: newBaseClient(baseURL, httpClient)}
}

func (c *CommentsClient) ListComments(ctx context.Context, postID string) ([]*contents.PostComment, error) {
	var res []*web.CommentResponse

	err := c.get(ctx, "/api/comments/"+pathEscape(postID), &res, func(int) error { return nil })
	if err != nil {
		return nil, fmt.Errorf("failed to list comments from comment store: %w", err)
	}

	comments := make([]*contents.PostComment, 0, len(res))
	for _, comment := range res {
		comments = append(comments, web.PostCommentFromResponse(comment))
	}

	return comments, nil
}
