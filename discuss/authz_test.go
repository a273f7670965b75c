package discuss_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	authcontext "github.com/nasermirzaei89/pressroom/auth/context"
	"github.com/nasermirzaei89/pressroom/authorization"
	"github.com/nasermirzaei89/pressroom/authorization/casbin"
	"github.com/nasermirzaei89/pressroom/discuss"
	"github.com/stretchr/testify/require"
)

type stubService struct{}

func (s *stubService) ListComments(_ context.Context, _ string) ([]*discuss.Comment, error) {
	return []*discuss.Comment{}, nil
}

func (s *stubService) CreateComment(_ context.Context, req discuss.CreateCommentRequest) (*discuss.Comment, error) {
	return &discuss.Comment{
		ID:        uuid.NewString(),
		PostID:    req.PostID,
		Commenter: req.Commenter,
		Text:      req.Text,
	}, nil
}

func (s *stubService) UpdateComment(_ context.Context, req discuss.UpdateCommentRequest) (*discuss.Comment, error) {
	return &discuss.Comment{ID: req.ID, Commenter: req.Requester, Text: req.Text}, nil
}

func (s *stubService) DeleteComment(context.Context, discuss.DeleteCommentRequest) error {
	return nil
}

func TestAuthorizationMiddleware(t *testing.T) {
	ctx := context.Background()

	provider, err := casbin.NewAuthorizationProvider(casbin.NewStringAdapter(`g, editor, user

p, user, comments, *, listComments
p, user, comments, *, createComment
p, user, comments, *, updateComment
p, user, comments, *, deleteComment
`))
	require.NoError(t, err)

	authzSvc, err := authorization.NewService(provider)
	require.NoError(t, err)

	svc := discuss.NewAuthorizationMiddleware(authorization.NewClient(authzSvc), &stubService{})

	postID := uuid.NewString()

	for _, role := range []string{authcontext.RoleUser, authcontext.RoleEditor} {
		t.Run(role, func(t *testing.T) {
			roleCtx := authcontext.WithIdentity(ctx, "bob", role)

			_, err := svc.ListComments(roleCtx, postID)
			require.NoError(t, err)

			comment, err := svc.CreateComment(roleCtx, discuss.CreateCommentRequest{
				PostID:    postID,
				Commenter: "bob",
				Text:      "comment",
			})
			require.NoError(t, err)

			_, err = svc.UpdateComment(roleCtx, discuss.UpdateCommentRequest{ID: comment.ID, Text: "edited", Requester: "bob"})
			require.NoError(t, err)

			err = svc.DeleteComment(roleCtx, discuss.DeleteCommentRequest{ID: comment.ID, Requester: "bob"})
			require.NoError(t, err)
		})
	}

	t.Run("unknown role", func(t *testing.T) {
		roleCtx := authcontext.WithIdentity(ctx, "eve", "guest")

		_, err := svc.CreateComment(roleCtx, discuss.CreateCommentRequest{
			PostID:    postID,
			Commenter: "eve",
			Text:      "comment",
		})
		require.Error(t, err)

		accessDeniedErr := &authorization.AccessDeniedError{}
		require.ErrorAs(t, err, &accessDeniedErr)

		err = svc.DeleteComment(roleCtx, discuss.DeleteCommentRequest{ID: "any", Requester: "eve"})
		require.ErrorAs(t, err, &accessDeniedErr)
	})
}
