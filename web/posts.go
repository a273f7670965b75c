package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	authcontext "github.com/nasermirzaei89/pressroom/auth/context"
	"github.com/nasermirzaei89/pressroom/contents"
	"github.com/nasermirzaei89/pressroom/markup"
)

type postsHandler struct {
	contentsSvc contents.Service
	renderer    *markup.Renderer
}

func NewPostsHandler(contentsSvc contents.Service, renderer *markup.Renderer, cfg Config) *Handler {
	h := &postsHandler{
		contentsSvc: contentsSvc,
		renderer:    renderer,
	}

	return newHandler(cfg, h.registerRoutes)
}

func (h *postsHandler) registerRoutes(r chi.Router) {
	r.Get("/posts", h.HandleListPosts)
	r.Post("/posts", h.HandleCreatePost)
	r.Get("/posts/not-published", h.HandleListNotPublishedPosts)
	r.Get("/posts/publishedPosts", h.HandleListPublishedPosts)
	r.Get("/posts/status/{status}", h.HandleListPostsByStatus)
	r.Get("/posts/{postId}", h.HandleGetPost)
	r.Get("/posts/{postId}/without-comments", h.HandleGetPostWithoutComments)
	r.Put("/posts/{postId}", h.HandleUpdatePost)
	r.Put("/posts/{postId}/publish", h.HandlePublishPost)
}

func (h *postsHandler) postResponse(r *http.Request, post *contents.Post) *PostResponse {
	contentHTML, err := h.renderer.Render(post.Content)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to render post content", "postId", post.ID, "error", err)
	}

	return &PostResponse{
		ID:            post.ID,
		Title:         post.Title,
		Content:       post.Content,
		ContentHTML:   contentHTML,
		Author:        post.Author,
		Status:        string(post.Status),
		ReviewComment: post.ReviewComment,
		CreatedAt:     post.CreatedAt,
		UpdatedAt:     post.UpdatedAt,
	}
}

func (h *postsHandler) postsResponse(r *http.Request, posts []*contents.Post) []*PostResponse {
	res := make([]*PostResponse, 0, len(posts))
	for _, post := range posts {
		res = append(res, h.postResponse(r, post))
	}

	return res
}

func (h *postsHandler) postWithCommentsResponse(r *http.Request, post *contents.PostWithComments) *PostWithCommentsResponse {
	comments := make([]*CommentResponse, 0, len(post.Comments))
	for _, comment := range post.Comments {
		comments = append(comments, commentResponseFromPostComment(comment))
	}

	return &PostWithCommentsResponse{
		PostResponse: *h.postResponse(r, &post.Post),
		Comments:     comments,
	}
}

func (h *postsHandler) HandleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.contentsSvc.ListPosts(r.Context())
	if err != nil {
		handleServiceError(w, r, "failed to list posts", err)

		return
	}

	writeJSON(w, http.StatusOK, h.postsResponse(r, posts))
}

func (h *postsHandler) HandleListNotPublishedPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.contentsSvc.ListNotPublishedPosts(r.Context())
	if err != nil {
		handleServiceError(w, r, "failed to list not published posts", err)

		return
	}

	writeJSON(w, http.StatusOK, h.postsResponse(r, posts))
}

func (h *postsHandler) HandleListPublishedPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.contentsSvc.ListPublishedPostsWithComments(r.Context())
	if err != nil {
		handleServiceError(w, r, "failed to list published posts", err)

		return
	}

	res := make([]*PostWithCommentsResponse, 0, len(posts))
	for _, post := range posts {
		res = append(res, h.postWithCommentsResponse(r, post))
	}

	writeJSON(w, http.StatusOK, res)
}

func (h *postsHandler) HandleListPostsByStatus(w http.ResponseWriter, r *http.Request) {
	status, err := contents.ParsePostStatus(chi.URLParam(r, "status"))
	if err != nil {
		handleServiceError(w, r, "invalid post status", err)

		return
	}

	posts, err := h.contentsSvc.ListPostsByStatus(r.Context(), status)
	if err != nil {
		handleServiceError(w, r, "failed to list posts by status", err)

		return
	}

	writeJSON(w, http.StatusOK, h.postsResponse(r, posts))
}

func (h *postsHandler) HandleGetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.contentsSvc.GetPostWithComments(r.Context(), chi.URLParam(r, "postId"))
	if err != nil {
		handleServiceError(w, r, "failed to get post", err)

		return
	}

	writeJSON(w, http.StatusOK, h.postWithCommentsResponse(r, post))
}

func (h *postsHandler) HandleGetPostWithoutComments(w http.ResponseWriter, r *http.Request) {
	post, err := h.contentsSvc.GetPost(r.Context(), chi.URLParam(r, "postId"))
	if err != nil {
		handleServiceError(w, r, "failed to get post", err)

		return
	}

	writeJSON(w, http.StatusOK, h.postResponse(r, post))
}

func (h *postsHandler) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req PostRequest

	err := decodeRequest(r, &req)
	if err != nil {
		handleServiceError(w, r, "invalid create post request", err)

		return
	}

	post, err := h.contentsSvc.CreatePost(r.Context(), contents.CreatePostRequest{
		Title:   req.Title,
		Content: req.Content,
		Author:  authcontext.GetSubject(r.Context()),
	})
	if err != nil {
		handleServiceError(w, r, "failed to create post", err)

		return
	}

	writeJSON(w, http.StatusCreated, h.postResponse(r, post))
}

func (h *postsHandler) HandleUpdatePost(w http.ResponseWriter, r *http.Request) {
	var req PostRequest

	err := decodeRequest(r, &req)
	if err != nil {
		handleServiceError(w, r, "invalid update post request", err)

		return
	}

	post, err := h.contentsSvc.UpdatePost(r.Context(), contents.UpdatePostRequest{
		ID:        chi.URLParam(r, "postId"),
		Title:     req.Title,
		Content:   req.Content,
		Requester: authcontext.GetSubject(r.Context()),
	})
	if err != nil {
		handleServiceError(w, r, "failed to update post", err)

		return
	}

	writeJSON(w, http.StatusOK, h.postResponse(r, post))
}

func (h *postsHandler) HandlePublishPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.contentsSvc.PublishPost(r.Context(), chi.URLParam(r, "postId"))
	if err != nil {
		handleServiceError(w, r, "failed to publish post", err)

		return
	}

	writeJSON(w, http.StatusOK, h.postResponse(r, post))
}
