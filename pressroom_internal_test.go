package pressroom

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/nasermirzaei89/pressroom/authorization"
	"github.com/nasermirzaei89/pressroom/authorization/casbin"
	"github.com/nasermirzaei89/pressroom/clients"
	"github.com/nasermirzaei89/pressroom/db/sqlstore"
	"github.com/nasermirzaei89/pressroom/db/sqlstore/sqlstoretest"
	"github.com/nasermirzaei89/pressroom/messaging"
	"github.com/nasermirzaei89/pressroom/messaging/memory"
	"github.com/nasermirzaei89/pressroom/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu       sync.Mutex
	subjects []string
}

func (n *recordingNotifier) Notify(_ context.Context, subject, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.subjects = append(n.subjects, subject)

	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return len(n.subjects)
}

type platform struct {
	postsURL    string
	commentsURL string
	reviewsURL  string
	notifier    *recordingNotifier
}

func newPlatform(t *testing.T) *platform {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	provider, err := casbin.NewAuthorizationProvider(casbin.NewStringAdapter(defaultAuthorizationPolicyContent))
	require.NoError(t, err)

	authzSvc, err := authorization.NewService(provider)
	require.NoError(t, err)

	authzClient := authorization.NewClient(authzSvc)

	broker := memory.NewBroker()
	notifier := &recordingNotifier{}

	var postsHandler http.Handler

	postsSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		postsHandler.ServeHTTP(w, r)
	}))
	t.Cleanup(postsSrv.Close)

	commentsSrv := httptest.NewServer(newCommentsHandler(
		sqlstoretest.NewDB(t, sqlstore.MigrationsComments),
		sqlstore.DialectSQLite,
		clients.NewPostsClient(postsSrv.URL, nil),
		authzClient,
	))
	t.Cleanup(commentsSrv.Close)

	contentsSvc := newContentsService(
		sqlstoretest.NewDB(t, sqlstore.MigrationsPosts),
		sqlstore.DialectSQLite,
		clients.NewCommentsClient(commentsSrv.URL, nil),
		notifier,
	)
	postsHandler = newPostsHandler(contentsSvc, authzClient)

	reviewsSrv := httptest.NewServer(newReviewsHandler(
		sqlstoretest.NewDB(t, sqlstore.MigrationsReviews),
		sqlstore.DialectSQLite,
		clients.NewPostsClient(postsSrv.URL, nil),
		broker,
		authzClient,
	))
	t.Cleanup(reviewsSrv.Close)

	consumer := messaging.NewReviewConsumer(broker, reviewQueueName(), contentsSvc)

	go func() {
		_ = consumer.Run(ctx)
	}()

	return &platform{
		postsURL:    postsSrv.URL,
		commentsURL: commentsSrv.URL,
		reviewsURL:  reviewsSrv.URL,
		notifier:    notifier,
	}
}

type caller struct {
	user string
	role string
}

var (
	alice = caller{user: "alice", role: "editor"}
	erin  = caller{user: "erin", role: "editor"}
	bob   = caller{user: "bob", role: "user"}
)

func (c caller) do(t *testing.T, method, url string, body, dst any) int {
	t.Helper()

	var reqBody io.Reader

	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)

		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, reqBody)
	require.NoError(t, err)

	req.Header.Set("Content-Type", "application/json")

	if c.user != "" {
		req.Header.Set(web.HeaderUser, c.user)
	}

	if c.role != "" {
		req.Header.Set(web.HeaderRole, c.role)
	}

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	defer func() {
		_ = res.Body.Close()
	}()

	if dst != nil && res.StatusCode < http.StatusMultipleChoices {
		err = json.NewDecoder(res.Body).Decode(dst)
		require.NoError(t, err)
	}

	return res.StatusCode
}

func (p *platform) createPost(t *testing.T, title string) web.PostResponse {
	t.Helper()

	var post web.PostResponse

	status := alice.do(t, http.MethodPost, p.postsURL+"/api/posts", map[string]string{
		"title":   title,
		"content": "Some **content**",
	}, &post)
	require.Equal(t, http.StatusCreated, status)

	return post
}

func (p *platform) review(t *testing.T, postID string, approved bool, comment string) {
	t.Helper()

	notified := p.notifier.count()

	status := erin.do(t, http.MethodPost, p.reviewsURL+"/api/review/"+postID, map[string]any{
		"approved":      approved,
		"reviewComment": comment,
	}, nil)
	require.Equal(t, http.StatusOK, status)

	// the decision reaches the post store asynchronously
	require.Eventually(t, func() bool {
		return p.notifier.count() > notified
	}, 5*time.Second, 10*time.Millisecond)
}

func (p *platform) getPost(t *testing.T, postID string) web.PostWithCommentsResponse {
	t.Helper()

	var post web.PostWithCommentsResponse

	status := bob.do(t, http.MethodGet, p.postsURL+"/api/posts/"+postID, nil, &post)
	require.Equal(t, http.StatusOK, status)

	return post
}

func TestReviewWorkflow(t *testing.T) {
	p := newPlatform(t)

	post := p.createPost(t, "A")
	require.Equal(t, "DRAFT", post.Status)
	require.Equal(t, "alice", post.Author)
	require.Contains(t, post.ContentHTML, "<strong>content</strong>")

	t.Run("publishing a draft fails", func(t *testing.T) {
		status := alice.do(t, http.MethodPut, p.postsURL+"/api/posts/"+post.ID+"/publish", nil, nil)
		assert.Equal(t, http.StatusBadRequest, status)

		assert.Equal(t, "DRAFT", p.getPost(t, post.ID).Status)
	})

	t.Run("rejection", func(t *testing.T) {
		p.review(t, post.ID, false, "needs work")

		got := p.getPost(t, post.ID)
		require.Equal(t, "REJECTED", got.Status)
		require.NotNil(t, got.ReviewComment)
		require.Equal(t, "needs work", *got.ReviewComment)
	})

	t.Run("approval and publish", func(t *testing.T) {
		p.review(t, post.ID, true, "")

		got := p.getPost(t, post.ID)
		require.Equal(t, "APPROVED", got.Status)
		require.NotNil(t, got.ReviewComment)
		require.Equal(t, "needs work", *got.ReviewComment)

		var published web.PostResponse

		status := alice.do(t, http.MethodPut, p.postsURL+"/api/posts/"+post.ID+"/publish", nil, &published)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "PUBLISHED", published.Status)
	})

	t.Run("one review per post", func(t *testing.T) {
		var review web.ReviewResponse

		status := erin.do(t, http.MethodGet, p.reviewsURL+"/api/review/"+post.ID, nil, &review)
		require.Equal(t, http.StatusOK, status)
		require.True(t, review.Approved)
		require.Equal(t, "erin", review.Editor)
	})

	t.Run("published posts", func(t *testing.T) {
		var posts []web.PostWithCommentsResponse

		status := bob.do(t, http.MethodGet, p.postsURL+"/api/posts/publishedPosts", nil, &posts)
		require.Equal(t, http.StatusOK, status)
		require.Len(t, posts, 1)
		require.Equal(t, post.ID, posts[0].ID)
		require.NotNil(t, posts[0].Comments)
	})
}

func TestReviewOfMissingPost(t *testing.T) {
	p := newPlatform(t)

	status := erin.do(t, http.MethodPost, p.reviewsURL+"/api/review/missing", map[string]any{"approved": true}, nil)
	require.Equal(t, http.StatusNotFound, status)

	status = erin.do(t, http.MethodGet, p.reviewsURL+"/api/review/missing", nil, nil)
	require.Equal(t, http.StatusNotFound, status)
}

func TestUpdatePostByAnotherEditor(t *testing.T) {
	p := newPlatform(t)

	post := p.createPost(t, "A")

	status := erin.do(t, http.MethodPut, p.postsURL+"/api/posts/"+post.ID, map[string]string{
		"title":   "B",
		"content": "changed",
	}, nil)
	require.Equal(t, http.StatusForbidden, status)

	var updated web.PostResponse

	status = alice.do(t, http.MethodPut, p.postsURL+"/api/posts/"+post.ID, map[string]string{
		"title":   "B",
		"content": "changed",
	}, &updated)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "B", updated.Title)
	require.Equal(t, "DRAFT", updated.Status)
}

func TestCommentOwnership(t *testing.T) {
	p := newPlatform(t)

	post := p.createPost(t, "A")

	var comment web.CommentResponse

	status := bob.do(t, http.MethodPost, p.commentsURL+"/api/comments", map[string]string{
		"postId": post.ID,
		"text":   "great read",
	}, &comment)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, "bob", comment.Commenter)

	status = alice.do(t, http.MethodDelete, p.commentsURL+"/api/comments/"+comment.ID, nil, nil)
	require.Equal(t, http.StatusForbidden, status)

	status = alice.do(t, http.MethodPut, p.commentsURL+"/api/comments/"+comment.ID, map[string]string{"text": "mine now"}, nil)
	require.Equal(t, http.StatusForbidden, status)

	var comments []web.CommentResponse

	status = bob.do(t, http.MethodGet, p.commentsURL+"/api/comments/"+post.ID, nil, &comments)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, comments, 1)
	require.Equal(t, "great read", comments[0].Text)

	got := p.getPost(t, post.ID)
	require.Len(t, got.Comments, 1)

	status = bob.do(t, http.MethodDelete, p.commentsURL+"/api/comments/"+comment.ID, nil, nil)
	require.Equal(t, http.StatusNoContent, status)

	status = bob.do(t, http.MethodGet, p.commentsURL+"/api/comments/"+post.ID, nil, nil)
	require.Equal(t, http.StatusNotFound, status)

	t.Run("comment on missing post", func(t *testing.T) {
		status := bob.do(t, http.MethodPost, p.commentsURL+"/api/comments", map[string]string{
			"postId": "missing",
			"text":   "hello?",
		}, nil)
		require.Equal(t, http.StatusNotFound, status)
	})
}

func TestRoleChecks(t *testing.T) {
	p := newPlatform(t)

	tests := []struct {
		name     string
		caller   caller
		method   string
		url      string
		body     any
		expected int
	}{
		{
			name:     "user cannot create posts",
			caller:   bob,
			method:   http.MethodPost,
			url:      p.postsURL + "/api/posts",
			body:     map[string]string{"title": "x", "content": "y"},
			expected: http.StatusForbidden,
		},
		{
			name:     "malformed body is rejected before the role check",
			caller:   bob,
			method:   http.MethodPost,
			url:      p.postsURL + "/api/posts",
			body:     "not a post",
			expected: http.StatusBadRequest,
		},
		{
			name:     "user cannot review",
			caller:   bob,
			method:   http.MethodPost,
			url:      p.reviewsURL + "/api/review/any",
			body:     map[string]any{"approved": true},
			expected: http.StatusForbidden,
		},
		{
			name:     "user cannot list not published posts",
			caller:   bob,
			method:   http.MethodGet,
			url:      p.postsURL + "/api/posts/not-published",
			expected: http.StatusForbidden,
		},
		{
			name:     "unknown role",
			caller:   caller{user: "eve", role: "admin"},
			method:   http.MethodGet,
			url:      p.postsURL + "/api/posts",
			expected: http.StatusForbidden,
		},
		{
			name:     "missing headers",
			caller:   caller{},
			method:   http.MethodGet,
			url:      p.postsURL + "/api/posts",
			expected: http.StatusBadRequest,
		},
		{
			name:     "no posts yet",
			caller:   bob,
			method:   http.MethodGet,
			url:      p.postsURL + "/api/posts",
			expected: http.StatusNotFound,
		},
		{
			name:     "invalid status",
			caller:   bob,
			method:   http.MethodGet,
			url:      p.postsURL + "/api/posts/status/ARCHIVED",
			expected: http.StatusBadRequest,
		},
		{
			name:     "missing title",
			caller:   alice,
			method:   http.MethodPost,
			url:      p.postsURL + "/api/posts",
			body:     map[string]string{"content": "y"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "missing approved flag",
			caller:   erin,
			method:   http.MethodPost,
			url:      p.reviewsURL + "/api/review/any",
			body:     map[string]any{"reviewComment": "hm"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "health without headers",
			caller:   caller{},
			method:   http.MethodGet,
			url:      p.postsURL + "/healthz",
			expected: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := tt.caller.do(t, tt.method, tt.url, tt.body, nil)
			assert.Equal(t, tt.expected, status)
		})
	}
}
