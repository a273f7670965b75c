package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/nasermirzaei89/pressroom/authorization"
	"github.com/nasermirzaei89/pressroom/contents"
	"github.com/nasermirzaei89/pressroom/discuss"
	"github.com/nasermirzaei89/pressroom/reviews"
)

const (
	errorClassNotFound         = "NotFound"
	errorClassPermissionDenied = "PermissionDenied"
	errorClassValidation       = "Validation"
	errorClassConflict         = "Conflict"
	errorClassBadRequest       = "BadRequest"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, class, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   class,
		Message: message,
	})
}

// classifyError maps a service error to its response status and class.
// Nothing maps to a 5xx status.
func classifyError(err error) (int, string) {
	var (
		postNotFoundErr       *contents.PostNotFoundError
		postsNotFoundErr      *contents.PostsNotFoundError
		commentNotFoundErr    *discuss.CommentNotFoundError
		commentsNotFoundErr   *discuss.CommentsNotFoundError
		reviewNotFoundErr     *reviews.ReviewNotFoundError
		accessDeniedErr       *authorization.AccessDeniedError
		notPostAuthorErr      *contents.NotPostAuthorError
		notCommentAuthorErr   *discuss.NotCommentAuthorError
		validationErrs        validator.ValidationErrors
		syntaxErr             *json.SyntaxError
		unmarshalTypeErr      *json.UnmarshalTypeError
		postArgumentErr       *contents.InvalidArgumentError
		commentArgumentErr    *discuss.InvalidArgumentError
		invalidPostStatusErr  *contents.InvalidPostStatusError
		postStatusConflictErr *contents.PostStatusConflictError
	)

	switch {
	case errors.As(err, &postNotFoundErr),
		errors.As(err, &postsNotFoundErr),
		errors.As(err, &commentNotFoundErr),
		errors.As(err, &commentsNotFoundErr),
		errors.As(err, &reviewNotFoundErr):
		return http.StatusNotFound, errorClassNotFound
	case errors.As(err, &accessDeniedErr),
		errors.As(err, &notPostAuthorErr),
		errors.As(err, &notCommentAuthorErr):
		return http.StatusForbidden, errorClassPermissionDenied
	case errors.As(err, &validationErrs),
		errors.As(err, &syntaxErr),
		errors.As(err, &unmarshalTypeErr),
		errors.As(err, &postArgumentErr),
		errors.As(err, &commentArgumentErr),
		errors.As(err, &invalidPostStatusErr),
		errors.Is(err, errEmptyBody):
		return http.StatusBadRequest, errorClassValidation
	case errors.As(err, &postStatusConflictErr):
		return http.StatusBadRequest, errorClassConflict
	default:
		return http.StatusBadRequest, errorClassBadRequest
	}
}

func handleServiceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status, class := classifyError(err)

	if class == errorClassBadRequest {
		slog.ErrorContext(r.Context(), msg, "error", err)
	} else {
		slog.InfoContext(r.Context(), msg, "class", class, "error", err)
	}

	writeError(w, status, class, err.Error())
}
