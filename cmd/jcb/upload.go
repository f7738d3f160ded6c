package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jcbcommunity/internal/client"
	"jcbcommunity/internal/config"
	"jcbcommunity/internal/upload"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload an image and print its URL",
	Long: `Upload an image and print its URL.

The presigned strategy is tried first unless DIRECT_UPLOAD_BLOCKED is set,
then the server-side strategy. On failure the placeholder URL is printed
with a warning.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Check that the server can reach its storage bucket",
	Args:  cobra.NoArgs,
	RunE:  runStorage,
}

func runUpload(cmd *cobra.Command, args []string) error {
	if err := requireToken(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	logger := newLogger()
	state, err := uploadFile(ctx, newClient(logger), logger, args[0])
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(state)
	}
	fmt.Println(state.URL)
	return nil
}

func runStorage(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	status, err := newClient(newLogger()).VerifyStorage(ctx)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	if jsonOut {
		return printJSON(status)
	}
	if !status.Success {
		return fmt.Errorf("storage unavailable: %s", status.Message)
	}
	fmt.Println(status.Message)
	return nil
}

// attachPhoto uploads path when set, under its own timeout. A failed upload
// yields the placeholder URL, so the caller can still create its post or reply.
func attachPhoto(ctx context.Context, c *client.Client, logger *zap.Logger, path string) (*string, error) {
	if path == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	state, err := uploadFile(ctx, c, logger, path)
	if err != nil {
		return nil, err
	}
	if state.URL == "" {
		return nil, nil
	}
	return &state.URL, nil
}

func uploadFile(ctx context.Context, c *client.Client, logger *zap.Logger, path string) (upload.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return upload.State{}, fmt.Errorf("reading %s: %w", path, err)
	}

	file := upload.File{
		Name:        filepath.Base(path),
		ContentType: mimetype.Detect(data).String(),
		Data:        data,
	}

	orchestrator := upload.New(c, upload.OptionsFromConfig(config.LoadUpload(), logger))
	state := orchestrator.Upload(ctx, file, func(s upload.State) {
		if s.Phase == upload.PhaseUploading {
			fmt.Fprintf(os.Stderr, "\ruploading %s %3d%%", file.Name, s.Progress)
		}
	})
	fmt.Fprintln(os.Stderr)

	if state.Warning != "" {
		fmt.Fprintf(os.Stderr, "warning: %s\n", state.Warning)
	}
	return state, nil
}
