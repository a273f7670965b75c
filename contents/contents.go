package contents

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

const ServiceName = "posts"

// Service is the post store as exposed to callers.
type Service interface {
	CreatePost(ctx context.Context, req CreatePostRequest) (post *Post, err error)
	GetPost(ctx context.Context, postID string) (post *Post, err error)
	GetPostWithComments(ctx context.Context, postID string) (post *PostWithComments, err error)
	ListPosts(ctx context.Context) (posts []*Post, err error)
	ListNotPublishedPosts(ctx context.Context) (posts []*Post, err error)
	ListPostsByStatus(ctx context.Context, status PostStatus) (posts []*Post, err error)
	ListPublishedPostsWithComments(ctx context.Context) (posts []*PostWithComments, err error)
	UpdatePost(ctx context.Context, req UpdatePostRequest) (post *Post, err error)
	PublishPost(ctx context.Context, postID string) (post *Post, err error)
}

type BaseService struct {
	postRepo      PostRepository
	commentLister CommentLister
	notifier      Notifier
}

var _ Service = (*BaseService)(nil)

func NewService(postRepo PostRepository, commentLister CommentLister, notifier Notifier) *BaseService {
	return &BaseService{
		postRepo:      postRepo,
		commentLister: commentLister,
		notifier:      notifier,
	}
}

type CreatePostRequest struct {
	Title   string
	Content string
	Author  string
}

func (svc *BaseService) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	err := requireNotBlank(field{"title", req.Title}, field{"content", req.Content}, field{"author", req.Author})
	if err != nil {
		return nil, err
	}

	timeNow := time.Now()

	post := &Post{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Content:   req.Content,
		Author:    req.Author,
		Status:    PostStatusDraft,
		CreatedAt: timeNow,
		UpdatedAt: timeNow,
	}

	err = svc.postRepo.Insert(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	slog.InfoContext(ctx, "post created", "postId", post.ID, "author", post.Author)

	return post, nil
}

func (svc *BaseService) GetPost(ctx context.Context, postID string) (*Post, error) {
	post, err := svc.postRepo.Find(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}

	return post, nil
}

func (svc *BaseService) GetPostWithComments(ctx context.Context, postID string) (*PostWithComments, error) {
	post, err := svc.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	return svc.withComments(ctx, post), nil
}

// withComments never fails: comments are supplementary, so any error fetching
// them yields an empty list.
func (svc *BaseService) withComments(ctx context.Context, post *Post) *PostWithComments {
	comments, err := svc.commentLister.ListComments(ctx, post.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch comments for post", "postId", post.ID, "error", err)

		comments = make([]*PostComment, 0)
	}

	return &PostWithComments{
		Post:     *post,
		Comments: comments,
	}
}

func (svc *BaseService) ListPosts(ctx context.Context) ([]*Post, error) {
	return svc.listPosts(ctx, nil)
}

func (svc *BaseService) ListNotPublishedPosts(ctx context.Context) ([]*Post, error) {
	return svc.listPosts(ctx, NotPublishedStatuses())
}

func (svc *BaseService) ListPostsByStatus(ctx context.Context, status PostStatus) ([]*Post, error) {
	if !status.IsValid() {
		return nil, &InvalidPostStatusError{Status: string(status)}
	}

	return svc.listPosts(ctx, []PostStatus{status})
}

func (svc *BaseService) ListPublishedPostsWithComments(ctx context.Context) ([]*PostWithComments, error) {
	posts, err := svc.listPosts(ctx, []PostStatus{PostStatusPublished})
	if err != nil {
		return nil, err
	}

	result := make([]*PostWithComments, 0, len(posts))
	for _, post := range posts {
		result = append(result, svc.withComments(ctx, post))
	}

	return result, nil
}

func (svc *BaseService) listPosts(ctx context.Context, statuses []PostStatus) ([]*Post, error) {
	posts, err := svc.postRepo.List(ctx, &ListPostsParams{Statuses: statuses})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	if len(posts) == 0 {
		return nil, &PostsNotFoundError{Statuses: statuses}
	}

	return posts, nil
}

type UpdatePostRequest struct {
	ID        string
	Title     string
	Content   string
	Requester string
}

// UpdatePost replaces the title and content of a post. Any previous review
// decision is invalidated, so the post goes back to draft.
func (svc *BaseService) UpdatePost(ctx context.Context, req UpdatePostRequest) (*Post, error) {
	err := requireNotBlank(field{"title", req.Title}, field{"content", req.Content})
	if err != nil {
		return nil, err
	}

	post, err := svc.postRepo.Find(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}

	if post.Author != req.Requester {
		return nil, &NotPostAuthorError{PostID: post.ID, User: req.Requester}
	}

	post.Title = req.Title
	post.Content = req.Content
	post.Status = PostStatusDraft
	post.UpdatedAt = time.Now()

	err = svc.postRepo.Update(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	return post, nil
}

func (svc *BaseService) PublishPost(ctx context.Context, postID string) (*Post, error) {
	post, err := svc.postRepo.Find(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}

	if post.Status != PostStatusApproved {
		return nil, &PostStatusConflictError{PostID: post.ID, Status: post.Status, Action: "publish"}
	}

	post.Status = PostStatusPublished
	post.UpdatedAt = time.Now()

	err = svc.postRepo.Update(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("failed to publish post: %w", err)
	}

	slog.InfoContext(ctx, "post published", "postId", post.ID)

	return post, nil
}

type ReviewDecision struct {
	PostID   string
	Approved bool
	Editor   string
	Comment  string
}

// ReceiveReviewDecision applies an editor decision to a post. Applying the same
// decision twice leaves the post in the same state.
func (svc *BaseService) ReceiveReviewDecision(ctx context.Context, decision ReviewDecision) error {
	slog.InfoContext(ctx, "received review", "postId", decision.PostID, "approved", decision.Approved)

	post, err := svc.postRepo.Find(ctx, decision.PostID)
	if err != nil {
		return fmt.Errorf("failed to find post: %w", err)
	}

	if post.Status == PostStatusPublished {
		return &PostStatusConflictError{PostID: post.ID, Status: post.Status, Action: "review"}
	}

	var subject, body string

	if decision.Approved {
		post.Status = PostStatusApproved
		subject = "Post Approved " + post.ID
		body = "Your post has been approved. by " + decision.Editor
	} else {
		comment := decision.Comment
		post.Status = PostStatusRejected
		post.ReviewComment = &comment
		subject = "Post Rejected " + post.ID
		body = "Your post has been rejected. By " + decision.Editor + " with comment " + decision.Comment
	}

	post.UpdatedAt = time.Now()

	err = svc.postRepo.Update(ctx, post)
	if err != nil {
		return fmt.Errorf("failed to update post status: %w", err)
	}

	err = svc.notifier.Notify(ctx, subject, body)
	if err != nil {
		slog.ErrorContext(ctx, "failed to send review notification", "postId", post.ID, "error", err)
	}

	slog.InfoContext(ctx, "post has a new review", "postId", post.ID, "status", post.Status)

	return nil
}

type field struct {
	name  string
	value string
}

func requireNotBlank(fields ...field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return &InvalidArgumentError{Name: f.name, Reason: "must not be empty"}
		}
	}

	return nil
}
