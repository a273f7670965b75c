package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nasermirzaei89/pressroom/contents"
	"github.com/nasermirzaei89/pressroom/discuss"
	"github.com/nasermirzaei89/pressroom/reviews"
)

var errEmptyBody = errors.New("request body is empty")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json field names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

func decodeRequest(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}

		return fmt.Errorf("failed to decode request body: %w", err)
	}

	err = validate.Struct(dst)
	if err != nil {
		return fmt.Errorf("failed to validate request: %w", err)
	}

	return nil
}

type PostRequest struct {
	Title   string `json:"title"   validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
}

type PostResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	ContentHTML   string    `json:"contentHtml,omitempty"`
	Author        string    `json:"author"`
	Status        string    `json:"status"`
	ReviewComment *string   `json:"reviewComment,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type PostWithCommentsResponse struct {
	PostResponse

	Comments []*CommentResponse `json:"comments"`
}

type CreateCommentRequest struct {
	PostID string `json:"postId" validate:"required"`
	Text   string `json:"text"   validate:"required,max=2000"`
}

type UpdateCommentRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

type CommentResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	Commenter string    `json:"commenter"`
	Text      string    `json:"text"`
	AddedAt   time.Time `json:"addedAt"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

type ReviewRequest struct {
	Approved      *bool  `json:"approved"      validate:"required"`
	ReviewComment string `json:"reviewComment" validate:"max=2000"`
}

type ReviewResponse struct {
	ID            string    `json:"id"`
	PostID        string    `json:"postId"`
	Editor        string    `json:"editor"`
	Approved      bool      `json:"approved"`
	ReviewComment string    `json:"reviewComment"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func commentResponseFromComment(comment *discuss.Comment) *CommentResponse {
	return &CommentResponse{
		ID:        comment.ID,
		PostID:    comment.PostID,
		Commenter: comment.Commenter,
		Text:      comment.Text,
		AddedAt:   comment.AddedAt,
		UpdatedAt: comment.UpdatedAt,
	}
}

func commentResponseFromPostComment(comment *contents.PostComment) *CommentResponse {
	return &CommentResponse{
		ID:        comment.ID,
		PostID:    comment.PostID,
		Commenter: comment.Commenter,
		Text:      comment.Text,
		AddedAt:   comment.AddedAt,
	}
}

func reviewResponseFromReview(review *reviews.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:            review.ID,
		PostID:        review.PostID,
		Editor:        review.Editor,
		Approved:      review.Approved,
		ReviewComment: review.Comment,
		CreatedAt:     review.CreatedAt,
		UpdatedAt:     review.UpdatedAt,
	}
}

// PostFromResponse converts a post read from the post store API.
func PostFromResponse(res *PostResponse) (*contents.Post, error) {
	status, err := contents.ParsePostStatus(res.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to parse post status: %w", err)
	}

	return &contents.Post{
		ID:            res.ID,
		Title:         res.Title,
		Content:       res.Content,
		Author:        res.Author,
		Status:        status,
		ReviewComment: res.ReviewComment,
		CreatedAt:     res.CreatedAt,
		UpdatedAt:     res.UpdatedAt,
	}, nil
}

// PostCommentFromResponse converts a comment read from the comment store API.
func PostCommentFromResponse(res *CommentResponse) *contents.PostComment {
	return &contents.PostComment{
		ID:        res.ID,
		PostID:    res.PostID,
		Commenter: res.Commenter,
		Text:      res.Text,
		AddedAt:   res.AddedAt,
	}
}
