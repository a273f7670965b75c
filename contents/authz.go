package contents

import (
	"context"
	"fmt"

	"github.com/nasermirzaei89/pressroom/authorization"
)

const (
	ActionListPosts             = "listPosts"
	ActionGetPost               = "getPost"
	ActionListPostsByStatus     = "listPostsByStatus"
	ActionListPublishedPosts    = "listPublishedPosts"
	ActionListNotPublishedPosts = "listNotPublishedPosts"
	ActionCreatePost            = "createPost"
	ActionUpdatePost            = "updatePost"
	ActionPublishPost           = "publishPost"
)

type AuthorizationMiddleware struct {
	authzClient *authorization.Client
	next        Service
}

var _ Service = (*AuthorizationMiddleware)(nil)

func NewAuthorizationMiddleware(authzClient *authorization.Client, next Service) *AuthorizationMiddleware {
	return &AuthorizationMiddleware{
		authzClient: authzClient,
		next:        next,
	}
}

func (mw *AuthorizationMiddleware) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	err := mw.authzClient.CheckAccess(ctx, ServiceName, "", ActionCreatePost)
	if err != nil {
		return nil, fmt.Errorf("failed to check authorization: %w", err)
	}

	post, err := mw.next.CreatePost(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to call next method: %w", err)
	}

	return post, nil
}

func (mw *AuthorizationMiddleware) GetPost(ctx context.Context, postID string) (*Post, error) {
	err := mw.authzClient.CheckAccess(ctx, ServiceName, postID, ActionGetPost)
	if err != nil {
		return nil, fmt.Errorf("failed to check authorization: %w", err)
	}

	post, err := mw.next.GetPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to call next method: %w", err)
	}

	return post, nil
}

func (mw *AuthorizationMiddleware) GetPostWithComments(ctx context.Context, postID string) (*PostWithComments, error) {
	err := mw.authzClient.CheckAccess(ctx, ServiceName, postID, ActionGetPost)
	if err != nil {
		return nil, fmt.Errorf("failed to check authorization: %w", err)
	}

	post, err := mw.next.GetPostWithComments(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to call next method: %w", err)
	}

	return post, nil
}

func (mw *AuthorizationMiddleware) ListPosts(ctx context.Context) ([]*Post, error) {
	err := mw.authzClient.CheckAccess(ctx, ServiceName, "", ActionListPosts)
	if err != nil {
		return nil, fmt.Errorf("failed to check authorization: %w", err)
	}

	posts, err := mw.next.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to call next method: %w", err)
	}

	return posts, nil
}

func (mw *AuthorizationMiddleware) ListNotPublishedPosts(ctx context.Context) ([]*Post, error) {
	err := mw.authzClient.CheckAccess(ctx, ServiceName, "", ActionListNotPublishedPosts)
	if err != nil {
		return nil, fmt.Errorf("failed to check authorization: %w", err)
	}

	posts, err := mw.next.ListNotPublishedPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to call next method: %w", err)
	}

	return posts, nil
}

func (mw *AuthorizationMiddleware) ListPostsByStatus(ctx context.Context, status PostStatus) ([]*Post, error) {
	err := mw.authzClient.CheckAccess(ctx, ServiceName, "", ActionListPostsByStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to check authorization: %w", err)
	}

	posts, err := mw.next.ListPostsByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to call next method: %w", err)
	}

	return posts, nil
}

func (mw *AuthorizationMiddleware) ListPublishedPostsWithComments(ctx context.Context) ([]*PostWithComments, error) {
	err := mw.authzClient.CheckAccess(ctx, ServiceName, "", ActionListPublishedPosts)
	if err != nil {
		return nil, fmt.Errorf("failed to check authorization: %w", err)
	}

	posts, err := mw.next.ListPublishedPostsWithComments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to call next method: %w", err)
	}

	return posts, nil
}

func (mw *AuthorizationMiddleware) UpdatePost(ctx context.Context, req UpdatePostRequest) (*Post, error) {
	err := mw.authzClient.CheckAccess(ctx, ServiceName, req.ID, ActionUpdatePost)
	if err != nil {
		return nil, fmt.Errorf("failed to check authorization: %w", err)
	}

	post, err := mw.next.UpdatePost(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to call next method: %w", err)
	}

	return post, nil
}

func (mw *AuthorizationMiddleware) PublishPost(ctx context.Context, postID string) (*Post, error) {
	err := mw.authzClient.CheckAccess(ctx, ServiceName, postID, ActionPublishPost)
	if err != nil {
		return nil, fmt.Errorf("failed to check authorization: %w", err)
	}

	post, err := mw.next.PublishPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to call next method: %w", err)
	}

	return post, nil
}
