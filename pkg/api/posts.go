package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"

	"github.com/inkspire/inkspire-client/internal/models"
)

const postsPath = "/api/posts"

// PublicPosts lists the public feed. It needs no session.
func (c *Client) PublicPosts(ctx context.Context) ([]models.Post, error) {
	cl := call{operation: "publicPosts", method: http.MethodGet, path: postsPath + "/public"}
	var posts []models.Post
	if err := c.doJSON(ctx, cl, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) MyPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := c.getJSON(ctx, "myPosts", postsPath+"/my-posts", &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CreatePost uploads a post with its media as repeated "media" parts
func (c *Client) CreatePost(ctx context.Context, post models.NewPost) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	if err := w.WriteField("description", post.Description); err != nil {
		return "", err
	}
	if err := w.WriteField("isPrivate", strconv.FormatBool(post.Private)); err != nil {
		return "", err
	}
	for _, m := range post.Media {
		part, err := w.CreatePart(mediaHeader(m))
		if err != nil {
			return "", err
		}
		if _, err := part.Write(m.Data); err != nil {
			return "", err
		}
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	cl := call{
		operation:     "createPost",
		method:        http.MethodPost,
		path:          postsPath + "/create",
		body:          &body,
		contentType:   w.FormDataContentType(),
		accept:        "application/json, text/plain",
		authenticated: true,
	}
	return c.doText(ctx, cl)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func mediaHeader(m models.MediaFile) textproto.MIMEHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="media"; filename="%s"`, quoteEscaper.Replace(m.Name)))
	contentType := m.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	return h
}

// UpdatePost changes the caption and visibility, sent as form fields
func (c *Client) UpdatePost(ctx context.Context, id int64, description string, private bool) error {
	form := url.Values{}
	form.Set("description", description)
	form.Set("isPrivate", strconv.FormatBool(private))

	cl := call{
		operation:     "updatePost",
		method:        http.MethodPut,
		path:          fmt.Sprintf("%s/update/%d", postsPath, id),
		body:          strings.NewReader(form.Encode()),
		contentType:   "application/x-www-form-urlencoded",
		accept:        "application/json, text/plain",
		authenticated: true,
	}
	_, err := c.doText(ctx, cl)
	return err
}

func (c *Client) DeletePost(ctx context.Context, id int64) error {
	return c.sendJSON(ctx, "deletePost", http.MethodDelete, fmt.Sprintf("%s/delete/%d", postsPath, id), nil, nil)
}

func commentsPath(postID int64) string {
	return fmt.Sprintf("/posts/%d/comments", postID)
}

func (c *Client) Comments(ctx context.Context, postID int64) ([]models.Comment, error) {
	var comments []models.Comment
	if err := c.getJSON(ctx, "listComments", commentsPath(postID), &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment posts the raw comment text as text/plain
func (c *Client) AddComment(ctx context.Context, postID int64, content string) (*models.Comment, error) {
	cl := call{
		operation:     "addComment",
		method:        http.MethodPost,
		path:          commentsPath(postID),
		body:          strings.NewReader(content),
		contentType:   "text/plain",
		authenticated: true,
	}
	var comment models.Comment
	if err := c.doJSON(ctx, cl, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Client) UpdateComment(ctx context.Context, postID, commentID int64, content string) (*models.Comment, error) {
	cl := call{
		operation:     "updateComment",
		method:        http.MethodPut,
		path:          fmt.Sprintf("%s/%d", commentsPath(postID), commentID),
		body:          strings.NewReader(content),
		contentType:   "text/plain",
		authenticated: true,
	}
	var comment models.Comment
	if err := c.doJSON(ctx, cl, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Client) DeleteComment(ctx context.Context, postID, commentID int64) error {
	path := fmt.Sprintf("%s/%d", commentsPath(postID), commentID)
	return c.sendJSON(ctx, "deleteComment", http.MethodDelete, path, nil, nil)
}

// ToggleLike flips the caller's like and reports whether the post is now liked
func (c *Client) ToggleLike(ctx context.Context, postID int64) (bool, error) {
	cl := call{
		operation:     "toggleLike",
		method:        http.MethodPost,
		path:          fmt.Sprintf("/posts/%d/likes/toggle", postID),
		accept:        "text/plain, application/json",
		authenticated: true,
	}
	text, err := c.doText(ctx, cl)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(text, "Liked"), nil
}

func (c *Client) LikeCount(ctx context.Context, postID int64) (int64, error) {
	var count int64
	if err := c.getJSON(ctx, "likeCount", fmt.Sprintf("/posts/%d/likes/count", postID), &count); err != nil {
		return 0, err
	}
	return count, nil
}
