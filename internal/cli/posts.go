package cli

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/inkspire/inkspire-client/internal/models"
	"github.com/inkspire/inkspire-client/internal/views"
)

func newPostsCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Manage your posts, comments and likes",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(
		newPostsListCommand(e),
		newPostsNewCommand(e),
		newPostsUpdateCommand(e),
		newPostsDeleteCommand(e),
		newPostsCommentCommand(e),
		newPostsLikeCommand(e),
	)
	return cmd
}

// mountPosts enters the "my posts" view and loads it
func mountPosts(e *env, cmd *cobra.Command) (*views.MyPosts, error) {
	ctx := cmd.Context()
	if err := e.enter(ctx, views.PathPosts); err != nil {
		return nil, err
	}
	mine := e.app.MyPosts()
	if err := mine.Mount(ctx); err != nil {
		return nil, err
	}
	e.cleanup = append(e.cleanup, mine.Unmount)
	return mine, nil
}

func printCards(e *env, cards []views.PostCard) {
	if len(cards) == 0 {
		fmt.Fprintln(e.out, "No posts yet")
		return
	}
	for _, card := range cards {
		visibility := "public"
		if card.Post.Private {
			visibility = "private"
		}
		fmt.Fprintf(e.out, "#%d  %s  (%s, %d likes)\n", card.Post.ID, card.Post.CreatedAt.Display(), visibility, card.Likes)
		if card.Post.Description != "" {
			fmt.Fprintf(e.out, "  %s\n", card.Post.Description)
		}
		for _, name := range card.Post.MediaURLs {
			fmt.Fprintf(e.out, "  media: %s\n", e.app.API.MediaURL(name))
		}
		for _, c := range card.Comments {
			fmt.Fprintf(e.out, "    [%d] %s: %s\n", c.ID, c.CommentBy, c.Content)
		}
	}
}

func newPostsListCommand(e *env) *cobra.Command {
	var publicOnly bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "mine"},
		Short:   "List your posts with comments and likes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mine, err := mountPosts(e, cmd)
			if err != nil {
				return err
			}
			cards := mine.Cards()
			if publicOnly {
				cards = mine.PublicOnly()
			}
			printCards(e, cards)
			return nil
		},
	}

	cmd.Flags().BoolVar(&publicOnly, "public", false, "hide private posts")
	return cmd
}

// readMedia loads an attachment, typing it by extension and then by content
func readMedia(path string) (models.MediaFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.MediaFile{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return models.MediaFile{Name: filepath.Base(path), ContentType: contentType, Data: data}, nil
}

func newPostsNewCommand(e *env) *cobra.Command {
	var (
		post  models.NewPost
		media []string
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Publish a post with up to 3 images or 1 video",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := e.enter(ctx, "/newpost"); err != nil {
				return err
			}
			for _, path := range media {
				m, err := readMedia(path)
				if err != nil {
					return err
				}
				post.Media = append(post.Media, m)
			}
			return formErrors(e, e.app.NewPost().Submit(ctx, post))
		},
	}

	cmd.Flags().StringVarP(&post.Description, "description", "d", "", "caption, up to 300 characters")
	cmd.Flags().BoolVar(&post.Private, "private", false, "hide the post from the public feed")
	cmd.Flags().StringArrayVarP(&media, "media", "f", nil, "image or video file, repeat for more")
	return cmd
}

func newPostsUpdateCommand(e *env) *cobra.Command {
	var (
		description string
		private     bool
	)

	cmd := &cobra.Command{
		Use:   "update [post-id]",
		Short: "Edit a post's caption or visibility",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "post-id")
			if err != nil {
				return err
			}
			mine, err := mountPosts(e, cmd)
			if err != nil {
				return err
			}

			for _, card := range mine.Cards() {
				if card.Post.ID != id {
					continue
				}
				if !cmd.Flags().Changed("description") {
					description = card.Post.Description
				}
				if !cmd.Flags().Changed("private") {
					private = card.Post.Private
				}
				break
			}
			return mine.Update(cmd.Context(), id, description, private)
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "new caption")
	cmd.Flags().BoolVar(&private, "private", false, "hide the post from the public feed")
	return cmd
}

func newPostsDeleteCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "delete [post-id]",
		Aliases: []string{"rm"},
		Short:   "Delete a post",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "post-id")
			if err != nil {
				return err
			}
			mine, err := mountPosts(e, cmd)
			if err != nil {
				return err
			}
			return mine.Delete(cmd.Context(), id)
		},
	}
}

func newPostsCommentCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Add, edit or delete comments on your posts",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add [post-id] [text]",
			Short: "Comment on a post",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				postID, err := parseID(args[0], "post-id")
				if err != nil {
					return err
				}
				mine, err := mountPosts(e, cmd)
				if err != nil {
					return err
				}
				return mine.AddComment(cmd.Context(), postID, args[1])
			},
		},
		&cobra.Command{
			Use:   "edit [post-id] [comment-id] [text]",
			Short: "Edit a comment",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				postID, err := parseID(args[0], "post-id")
				if err != nil {
					return err
				}
				commentID, err := parseID(args[1], "comment-id")
				if err != nil {
					return err
				}
				mine, err := mountPosts(e, cmd)
				if err != nil {
					return err
				}
				return mine.EditComment(cmd.Context(), postID, commentID, args[2])
			},
		},
		&cobra.Command{
			Use:     "delete [post-id] [comment-id]",
			Aliases: []string{"rm"},
			Short:   "Delete a comment",
			Args:    cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				postID, err := parseID(args[0], "post-id")
				if err != nil {
					return err
				}
				commentID, err := parseID(args[1], "comment-id")
				if err != nil {
					return err
				}
				mine, err := mountPosts(e, cmd)
				if err != nil {
					return err
				}
				return mine.DeleteComment(cmd.Context(), postID, commentID)
			},
		},
	)
	return cmd
}

func newPostsLikeCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "like [post-id]",
		Short: "Like a post, or take the like back",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			postID, err := parseID(args[0], "post-id")
			if err != nil {
				return err
			}
			mine, err := mountPosts(e, cmd)
			if err != nil {
				return err
			}
			liked, count, err := mine.ToggleLike(cmd.Context(), postID)
			if err != nil {
				return err
			}
			verb := "Unliked"
			if liked {
				verb = "Liked"
			}
			fmt.Fprintf(e.out, "%s post #%d (%d likes)\n", verb, postID, count)
			return nil
		},
	}
}

func newFeedCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "feed",
		Short: "Show the public feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := e.enter(ctx, "/feed"); err != nil {
				return err
			}
			feed := e.app.Feed()
			if err := feed.Mount(ctx); err != nil {
				return err
			}
			defer feed.Unmount()

			posts := feed.Posts()
			if len(posts) == 0 {
				fmt.Fprintln(e.out, "The feed is empty")
				return nil
			}
			w := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tAUTHOR\tPOSTED\tMEDIA\tCAPTION")
			for _, p := range posts {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", p.ID, p.CreatorName, p.CreatedAt.Display(), len(p.MediaURLs), p.Description)
			}
			return w.Flush()
		},
	}
}
