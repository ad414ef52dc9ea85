package views

import (
	"context"
	"strings"
	"sync"

	"github.com/inkspire/inkspire-client/internal/models"
	"github.com/inkspire/inkspire-client/internal/notify"
	"github.com/inkspire/inkspire-client/internal/validation"
	"github.com/inkspire/inkspire-client/pkg/errors"
	"github.com/inkspire/inkspire-client/pkg/logger"
	"go.uber.org/zap"
)

// Feed is the public post feed. It needs no session.
type Feed struct {
	api      PostsAPI
	notifier notify.Surface
	life     lifecycle

	mu    sync.RWMutex
	posts []models.Post
}

func NewFeed(postsAPI PostsAPI, notifier notify.Surface) *Feed {
	return &Feed{api: postsAPI, notifier: notifier}
}

func (v *Feed) Mount(ctx context.Context) error {
	gen := v.life.mount()
	posts, err := v.api.PublicPosts(ctx)
	if err != nil {
		return report(v.notifier, err, "Failed to load public posts")
	}
	if v.life.live(gen) {
		v.mu.Lock()
		v.posts = posts
		v.mu.Unlock()
	}
	return nil
}

func (v *Feed) Unmount() {
	v.life.unmount()
}

func (v *Feed) Posts() []models.Post {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]models.Post, len(v.posts))
	copy(out, v.posts)
	return out
}

// PostCard is one of the user's posts with its discussion
type PostCard struct {
	Post     models.Post      `json:"post"`
	Comments []models.Comment `json:"comments"`
	Likes    int64            `json:"likes"`
}

// MyPosts lists the user's own posts with their comments and like counts
type MyPosts struct {
	api      PostsAPI
	notifier notify.Surface
	life     lifecycle

	mu    sync.RWMutex
	cards []PostCard
}

func NewMyPosts(postsAPI PostsAPI, notifier notify.Surface) *MyPosts {
	return &MyPosts{api: postsAPI, notifier: notifier}
}

func (v *MyPosts) Mount(ctx context.Context) error {
	return v.refresh(ctx, v.life.mount())
}

func (v *MyPosts) Unmount() {
	v.life.unmount()
}

func (v *MyPosts) refresh(ctx context.Context, gen uint64) error {
	posts, err := v.api.MyPosts(ctx)
	if err != nil {
		return report(v.notifier, err, "Failed to load your posts.")
	}

	cards := make([]PostCard, 0, len(posts))
	for _, p := range posts {
		cards = append(cards, v.card(ctx, p))
	}

	if v.life.live(gen) {
		v.mu.Lock()
		v.cards = cards
		v.mu.Unlock()
	}
	return nil
}

// card loads the discussion of a post. Failures only cost the extras.
func (v *MyPosts) card(ctx context.Context, p models.Post) PostCard {
	card := PostCard{Post: p}

	comments, err := v.api.Comments(ctx, p.ID)
	if err != nil {
		logger.Warn("Failed to fetch comments", zap.Int64("post_id", p.ID), zap.Error(err))
	} else {
		card.Comments = comments
	}

	likes, err := v.api.LikeCount(ctx, p.ID)
	if err != nil {
		logger.Warn("Failed to fetch like count", zap.Int64("post_id", p.ID), zap.Error(err))
	} else {
		card.Likes = likes
	}
	return card
}

// Cards returns the rendered posts
func (v *MyPosts) Cards() []PostCard {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]PostCard, len(v.cards))
	copy(out, v.cards)
	return out
}

// PublicOnly returns the rendered posts that are not private
func (v *MyPosts) PublicOnly() []PostCard {
	v.mu.RLock()
	defer v.mu.RUnlock()
	var out []PostCard
	for _, c := range v.cards {
		if !c.Post.Private {
			out = append(out, c)
		}
	}
	return out
}

func (v *MyPosts) Update(ctx context.Context, id int64, description string, private bool) error {
	if len([]rune(description)) > 300 {
		v.notifier.ShowError("Caption must be less than 300 characters")
		return errors.InvalidInputError("description", "too long")
	}

	release, err := v.life.begin(resourceKey("post", id))
	if err != nil {
		return err
	}
	defer release()
	gen := v.life.generation()

	if err := v.api.UpdatePost(ctx, id, description, private); err != nil {
		return report(v.notifier, err, "Failed to update post")
	}
	if err := v.refresh(ctx, gen); err != nil {
		return err
	}
	v.notifier.ShowSuccess("Post updated successfully!")
	return nil
}

func (v *MyPosts) Delete(ctx context.Context, id int64) error {
	release, err := v.life.begin(resourceKey("post", id))
	if err != nil {
		return err
	}
	defer release()
	gen := v.life.generation()

	if err := v.api.DeletePost(ctx, id); err != nil {
		return report(v.notifier, err, "Failed to delete post")
	}
	if err := v.refresh(ctx, gen); err != nil {
		return err
	}
	v.notifier.ShowSuccess("Post deleted successfully!")
	return nil
}

// AddComment posts a comment and reloads that post's comments
func (v *MyPosts) AddComment(ctx context.Context, postID int64, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return errors.InvalidInputError("comment", "empty")
	}

	release, err := v.life.begin(resourceKey("comments", postID))
	if err != nil {
		return err
	}
	defer release()
	gen := v.life.generation()

	if _, err := v.api.AddComment(ctx, postID, content); err != nil {
		return report(v.notifier, err, "Failed to add comment")
	}
	return v.reloadComments(ctx, gen, postID)
}

func (v *MyPosts) EditComment(ctx context.Context, postID, commentID int64, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return errors.InvalidInputError("comment", "empty")
	}

	release, err := v.life.begin(resourceKey("comments", postID))
	if err != nil {
		return err
	}
	defer release()
	gen := v.life.generation()

	if _, err := v.api.UpdateComment(ctx, postID, commentID, content); err != nil {
		return report(v.notifier, err, "Failed to update comment")
	}
	return v.reloadComments(ctx, gen, postID)
}

func (v *MyPosts) DeleteComment(ctx context.Context, postID, commentID int64) error {
	release, err := v.life.begin(resourceKey("comments", postID))
	if err != nil {
		return err
	}
	defer release()
	gen := v.life.generation()

	if err := v.api.DeleteComment(ctx, postID, commentID); err != nil {
		return report(v.notifier, err, "Failed to delete comment")
	}
	return v.reloadComments(ctx, gen, postID)
}

func (v *MyPosts) reloadComments(ctx context.Context, gen uint64, postID int64) error {
	comments, err := v.api.Comments(ctx, postID)
	if err != nil {
		return report(v.notifier, err, "Failed to fetch comments")
	}
	if !v.life.live(gen) {
		return nil
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.cards {
		if v.cards[i].Post.ID == postID {
			v.cards[i].Comments = comments
		}
	}
	return nil
}

// ToggleLike flips the user's like and returns the new state and count
func (v *MyPosts) ToggleLike(ctx context.Context, postID int64) (bool, int64, error) {
	release, err := v.life.begin(resourceKey("likes", postID))
	if err != nil {
		return false, 0, err
	}
	defer release()
	gen := v.life.generation()

	liked, err := v.api.ToggleLike(ctx, postID)
	if err != nil {
		return false, 0, report(v.notifier, err, "Failed to update like")
	}
	count, err := v.api.LikeCount(ctx, postID)
	if err != nil {
		return liked, 0, report(v.notifier, err, "Failed to fetch like count")
	}

	if v.life.live(gen) {
		v.mu.Lock()
		for i := range v.cards {
			if v.cards[i].Post.ID == postID {
				v.cards[i].Likes = count
			}
		}
		v.mu.Unlock()
	}
	return liked, count, nil
}

// NewPost is the post composer
type NewPost struct {
	api      PostsAPI
	notifier notify.Surface
	navigate Navigator
	life     lifecycle
}

func NewNewPost(postsAPI PostsAPI, notifier notify.Surface, navigate Navigator) *NewPost {
	return &NewPost{api: postsAPI, notifier: notifier, navigate: navigate}
}

// Submit validates the attachments and publishes the post
func (v *NewPost) Submit(ctx context.Context, post models.NewPost) error {
	form := validation.PostForm{
		Description: post.Description,
		Private:     post.Private,
		Media:       make([]validation.MediaInfo, 0, len(post.Media)),
	}
	for _, m := range post.Media {
		form.Media = append(form.Media, validation.MediaInfo{Name: m.Name, ContentType: m.ContentType})
	}
	if err := validateForm(form); err != nil {
		return err
	}

	release, err := v.life.begin("new-post")
	if err != nil {
		return err
	}
	defer release()

	message, err := v.api.CreatePost(ctx, post)
	if err != nil {
		return report(v.notifier, err, "Failed to create post.")
	}
	if message == "" {
		message = "Post created successfully!"
	}
	v.notifier.ShowSuccess(message)
	v.navigate.to(PathPosts)
	return nil
}
