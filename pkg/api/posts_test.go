package api

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/inkspire/inkspire-client/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CreatePost(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/posts/create", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "sunset", r.FormValue("description"))
		assert.Equal(t, "true", r.FormValue("isPrivate"))

		files := r.MultipartForm.File["media"]
		require.Len(t, files, 2)
		assert.Equal(t, "a.png", files[0].Filename)
		assert.Equal(t, "image/png", files[0].Header.Get("Content-Type"))
		assert.Equal(t, "application/octet-stream", files[1].Header.Get("Content-Type"))

		_, _ = io.WriteString(w, "Post created successfully with ID: 12")
	})

	msg, err := c.CreatePost(context.Background(), models.NewPost{
		Description: "sunset",
		Private:     true,
		Media: []models.MediaFile{
			{Name: "a.png", ContentType: "image/png", Data: []byte("png")},
			{Name: "b.jpg", Data: []byte("jpg")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Post created successfully with ID: 12", msg)
}

func TestClient_UpdatePostSendsForm(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/posts/update/7", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "new caption", r.PostForm.Get("description"))
		assert.Equal(t, "false", r.PostForm.Get("isPrivate"))
	})

	assert.NoError(t, c.UpdatePost(context.Background(), 7, "new caption", false))
}

func TestClient_AddCommentIsPlainText(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts/7/comments", r.URL.Path)
		assert.Equal(t, "text/plain", r.Header.Get("Content-Type"))
		raw, _ := io.ReadAll(r.Body)
		assert.Equal(t, "Nice!", string(raw))
		_, _ = io.WriteString(w, `{"id":1,"content":"Nice!","commentBy":"Ada"}`)
	})

	comment, err := c.AddComment(context.Background(), 7, "Nice!")
	require.NoError(t, err)
	assert.Equal(t, "Ada", comment.CommentBy)
}

func TestClient_Likes(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/posts/7/likes/toggle":
			_, _ = io.WriteString(w, "Liked")
		case "/posts/7/likes/count":
			_, _ = io.WriteString(w, "42")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	liked, err := c.ToggleLike(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, liked)

	count, err := c.LikeCount(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
}
