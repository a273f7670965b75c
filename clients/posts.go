package clients

import (
	"context"
	"fmt"
	"net/http"

	authcontext "github.com/nasermirzaei89/pressroom/auth/context"
	"github.com/nasermirzaei89/pressroom/authorization"
	"github.com/nasermirzaei89/pressroom/contents"
	"github.com/nasermirzaei89/pressroom/discuss"
	"github.com/nasermirzaei89/pressroom/reviews"
	"github.com/nasermirzaei89/pressroom/web"
)

type PostsClient struct {
	baseClient

	// role overrides the caller role when set
	role string
}

var (
	_ discuss.PostFinder = (*PostsClient)(nil)
	_ reviews.PostFinder = (*PostsClient)(nil)
)

func NewPostsClient(baseURL string, httpClient *http.Client) *PostsClient {
	return &PostsClient{baseClient: newBaseClient(baseURL, httpClient)}
}

// WithRole returns a client that calls the post store with the given role
// instead of the role of the caller.
func (c *PostsClient) WithRole(role string) *PostsClient {
	return &PostsClient{baseClient: c.baseClient, role: role}
}

func (c *PostsClient) FindPost(ctx context.Context, postID string) (*contents.Post, error) {
	if c.role != "" {
		ctx = authcontext.WithRole(ctx, c.role)
	}

	var res web.PostResponse

	err := c.get(ctx, "/api/posts/"+pathEscape(postID)+"/without-comments", &res, func(status int) error {
		switch status {
		case http.StatusNotFound:
			return &contents.PostNotFoundError{ID: postID}
		case http.StatusForbidden:
			return &authorization.AccessDeniedError{
				User:   authcontext.GetSubject(ctx),
				Role:   authcontext.GetRole(ctx),
				Domain: contents.ServiceName,
				Object: postID,
				Action: contents.ActionGetPost,
			}
		default:
			return nil
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get post from post store: %w", err)
	}

	post, err := web.PostFromResponse(&res)
	if err != nil {
		return nil, fmt.Errorf("failed to read post: %w", err)
	}

	return post, nil
}
