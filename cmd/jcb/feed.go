package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"jcbcommunity/internal/models"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Show the feed, newest post first",
	Args:  cobra.NoArgs,
	RunE:  runFeed,
}

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Show your most recent post",
	Args:  cobra.NoArgs,
	RunE:  runLatest,
}

func runFeed(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	posts, err := newClient(newLogger()).ListPosts(ctx)
	if err != nil {
		return fmt.Errorf("feed: %w", err)
	}

	if jsonOut {
		return printJSON(posts)
	}
	if len(posts) == 0 {
		fmt.Println("No posts yet.")
		return nil
	}
	for _, post := range posts {
		printPost(os.Stdout, post)
	}
	return nil
}

func runLatest(cmd *cobra.Command, args []string) error {
	if err := requireToken(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	post, err := newClient(newLogger()).GetLatest(ctx)
	if err != nil {
		return fmt.Errorf("latest: %w", err)
	}

	if jsonOut {
		return printJSON(post)
	}
	if post == nil {
		fmt.Println("You have no posts yet.")
		return nil
	}
	fmt.Printf("%s  %s\n%s\n", post.PostID, post.Title, post.Body)
	return nil
}

func printPost(w io.Writer, post models.FeedPost) {
	fmt.Fprintf(w, "[%s] %s by %s (%s)\n", post.PostID, post.Title, post.Author.Name, post.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "  %s\n", post.Body)
	if post.PhotoURL != nil {
		fmt.Fprintf(w, "  photo: %s\n", *post.PhotoURL)
	}
	if counts := formatCounts(post.ReactionCounts); counts != "" {
		fmt.Fprintf(w, "  %s\n", counts)
	}
	for _, reply := range post.Replies {
		fmt.Fprintf(w, "    [%s] %s: %s\n", reply.ReplyID, reply.Author.Name, reply.Content)
		if reply.PhotoURL != nil {
			fmt.Fprintf(w, "      photo: %s\n", *reply.PhotoURL)
		}
		if counts := formatCounts(reply.ReactionCounts); counts != "" {
			fmt.Fprintf(w, "      %s\n", counts)
		}
	}
	fmt.Fprintln(w)
}

func formatCounts(counts []models.ReactionCount) string {
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%s %d", c.Type, c.Count))
	}
	return strings.Join(parts, "  ")
}
