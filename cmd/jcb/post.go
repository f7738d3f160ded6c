package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"jcbcommunity/internal/models"
)

var (
	postPhoto  string
	replyPhoto string
)

var postCmd = &cobra.Command{
	Use:   "post <title> <body>",
	Short: "Create a post, optionally with a photo",
	Long: `Create a post, optionally with a photo.

If the photo upload fails the post is still created, with a placeholder image.

Examples:
  jcb post "Hello" "World"
  jcb post "Garden" "First tomatoes" --photo tomatoes.jpg`,
	Args: cobra.ExactArgs(2),
	RunE: runPost,
}

var replyCmd = &cobra.Command{
	Use:   "reply <postId> <content>",
	Short: "Reply to a post",
	Args:  cobra.ExactArgs(2),
	RunE:  runReply,
}

var reactCmd = &cobra.Command{
	Use:   "react <post|reply> <id> <type>",
	Short: "Toggle a reaction on a post or a reply",
	Long: `Toggle a reaction on a post or a reply. Reacting twice with the same
type removes the reaction.

Types: LIKE, LOVE, LAUGH, WOW, SAD, ANGRY

Examples:
  jcb react post 6f1c... like
  jcb react reply 9a2b... LAUGH`,
	Args: cobra.ExactArgs(3),
	RunE: runReact,
}

func init() {
	postCmd.Flags().StringVar(&postPhoto, "photo", "", "path to an image to attach")
	replyCmd.Flags().StringVar(&replyPhoto, "photo", "", "path to an image to attach")
}

func runPost(cmd *cobra.Command, args []string) error {
	if err := requireToken(); err != nil {
		return err
	}

	logger := newLogger()
	c := newClient(logger)

	photoURL, err := attachPhoto(cmd.Context(), c, logger, postPhoto)
	if err != nil {
		return err
	}

	// A slow upload must not eat into the time left for the create call.
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	post, err := c.CreatePost(ctx, args[0], args[1], photoURL)
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}

	if jsonOut {
		return printJSON(post)
	}
	fmt.Printf("Created post %s\n", post.PostID)
	return nil
}

func runReply(cmd *cobra.Command, args []string) error {
	if err := requireToken(); err != nil {
		return err
	}

	logger := newLogger()
	c := newClient(logger)

	photoURL, err := attachPhoto(cmd.Context(), c, logger, replyPhoto)
	if err != nil {
		return err
	}

	// A slow upload must not eat into the time left for the create call.
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	reply, err := c.CreateReply(ctx, args[0], args[1], photoURL)
	if err != nil {
		return fmt.Errorf("reply: %w", err)
	}

	if jsonOut {
		return printJSON(reply)
	}
	fmt.Printf("Created reply %s\n", reply.ReplyID)
	return nil
}

func runReact(cmd *cobra.Command, args []string) error {
	if err := requireToken(); err != nil {
		return err
	}

	reactionType, err := models.ParseReactionType(args[2])
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	c := newClient(newLogger())

	var result *models.ToggleResult
	switch args[0] {
	case "post":
		result, err = c.ReactToPost(ctx, args[1], reactionType)
	case "reply":
		result, err = c.ReactToReply(ctx, args[1], reactionType)
	default:
		return fmt.Errorf("target must be post or reply, got %q", args[0])
	}
	if err != nil {
		return fmt.Errorf("react: %w", err)
	}

	if jsonOut {
		return printJSON(result)
	}
	fmt.Printf("%s %s\n", reactionType, result.Action)
	return nil
}
