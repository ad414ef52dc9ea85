package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/inkspire/inkspire-client/internal/models"
	"github.com/inkspire/inkspire-client/internal/notify"
	"github.com/inkspire/inkspire-client/internal/router"
	"github.com/inkspire/inkspire-client/internal/views"
	"github.com/inkspire/inkspire-client/pkg/logger"
	"go.uber.org/zap"
)

// PostsHandler serves the feed, the user's posts and the post composer
type PostsHandler struct {
	feed     *views.Feed
	mine     *views.MyPosts
	composer *views.NewPost
	notifier notify.Surface
}

func NewPostsHandler(feed *views.Feed, mine *views.MyPosts, composer *views.NewPost, notifier notify.Surface) *PostsHandler {
	return &PostsHandler{
		feed:     feed,
		mine:     mine,
		composer: composer,
		notifier: notifier,
	}
}

type UpdatePostRequest struct {
	Description string `json:"description"`
	Private     bool   `json:"private"`
}

type CommentRequest struct {
	Content string `json:"content"`
}

// Feed handles GET /feed
func (h *PostsHandler) Feed(c *gin.Context) {
	if err := h.feed.Mount(c.Request.Context()); err != nil {
		respondViewError(c, err, "Failed to load public posts")
		return
	}
	render(c, h.notifier, router.ViewFeed, gin.H{"posts": h.feed.Posts()})
}

// MyPosts handles GET /posts. ?visibility=public hides private posts.
func (h *PostsHandler) MyPosts(c *gin.Context) {
	if err := h.mine.Mount(c.Request.Context()); err != nil {
		respondViewError(c, err, "Failed to load your posts.")
		return
	}
	h.renderMine(c)
}

func (h *PostsHandler) renderMine(c *gin.Context) {
	cards := h.mine.Cards()
	if c.Query("visibility") == "public" {
		cards = h.mine.PublicOnly()
	}
	render(c, h.notifier, router.ViewMyPosts, gin.H{"posts": cards})
}

// Update handles PUT /posts/:id
func (h *PostsHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", bindDetails(err), err)
		return
	}

	if err := h.mine.Update(c.Request.Context(), id, req.Description, req.Private); err != nil {
		respondViewError(c, err, "Failed to update post")
		return
	}
	h.renderMine(c)
}

// Delete handles DELETE /posts/:id
func (h *PostsHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.mine.Delete(c.Request.Context(), id); err != nil {
		respondViewError(c, err, "Failed to delete post")
		return
	}
	h.renderMine(c)
}

// AddComment handles POST /posts/:id/comments
func (h *PostsHandler) AddComment(c *gin.Context) {
	postID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", bindDetails(err), err)
		return
	}

	if err := h.mine.AddComment(c.Request.Context(), postID, req.Content); err != nil {
		respondViewError(c, err, "Failed to add comment")
		return
	}
	h.renderMine(c)
}

// EditComment handles PUT /posts/:id/comments/:commentId
func (h *PostsHandler) EditComment(c *gin.Context) {
	postID, ok := idParam(c, "id")
	if !ok {
		return
	}
	commentID, ok := idParam(c, "commentId")
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", bindDetails(err), err)
		return
	}

	if err := h.mine.EditComment(c.Request.Context(), postID, commentID, req.Content); err != nil {
		respondViewError(c, err, "Failed to update comment")
		return
	}
	h.renderMine(c)
}

// DeleteComment handles DELETE /posts/:id/comments/:commentId
func (h *PostsHandler) DeleteComment(c *gin.Context) {
	postID, ok := idParam(c, "id")
	if !ok {
		return
	}
	commentID, ok := idParam(c, "commentId")
	if !ok {
		return
	}

	if err := h.mine.DeleteComment(c.Request.Context(), postID, commentID); err != nil {
		respondViewError(c, err, "Failed to delete comment")
		return
	}
	h.renderMine(c)
}

// ToggleLike handles POST /posts/:id/likes
func (h *PostsHandler) ToggleLike(c *gin.Context) {
	postID, ok := idParam(c, "id")
	if !ok {
		return
	}

	liked, count, err := h.mine.ToggleLike(c.Request.Context(), postID)
	if err != nil {
		respondViewError(c, err, "Failed to update like")
		return
	}
	render(c, h.notifier, router.ViewMyPosts, gin.H{"postId": postID, "liked": liked, "likes": count})
}

// ComposeForm handles GET /newpost
func (h *PostsHandler) ComposeForm(c *gin.Context) {
	render(c, h.notifier, router.ViewNewPost, nil)
}

// Create handles POST /newpost as multipart: description, private and
// any number of "media" files
func (h *PostsHandler) Create(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid multipart body", err)
		return
	}

	post := models.NewPost{Description: c.PostForm("description")}
	if raw := c.PostForm("private"); raw != "" {
		private, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid private flag", err)
			return
		}
		post.Private = private
	}

	for _, header := range form.File["media"] {
		file, err := header.Open()
		if err != nil {
			respondError(c, http.StatusBadRequest, "Failed to read upload", err)
			return
		}
		data, err := io.ReadAll(file)
		_ = file.Close() //nolint:errcheck
		if err != nil {
			respondError(c, http.StatusBadRequest, "Failed to read upload", err)
			return
		}
		post.Media = append(post.Media, models.MediaFile{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	if err := h.composer.Submit(c.Request.Context(), post); err != nil {
		respondViewError(c, err, "Failed to create post.")
		return
	}

	logger.Info("Post created", zap.Int("media", len(post.Media)), zap.Bool("private", post.Private))
	render(c, h.notifier, router.ViewNewPost, gin.H{"redirect": views.PathPosts})
}
