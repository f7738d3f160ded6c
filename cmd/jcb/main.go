// Package main implements the jcb CLI, a terminal client for the community API.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jcbcommunity/internal/client"
	"jcbcommunity/internal/config"
	"jcbcommunity/internal/logging"
)

var (
	// serverURL is the base URL for the API server
	serverURL string
	token     string
	logLevel  string
	jsonOut   bool
	timeout   time.Duration
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "jcb",
	Short: "CLI for the JCB community API",
	Long: `jcb talks to the community API: sign up, read the feed, post, reply,
react and upload photos.

The access token printed by "jcb signin" is read from --token or JCB_TOKEN.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("JCB_SERVER", "http://localhost:8080"), "API server URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("JCB_TOKEN"), "access token")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print raw JSON")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 60*time.Second, "request timeout")

	rootCmd.AddCommand(signupCmd, signinCmd, feedCmd, latestCmd, postCmd, replyCmd, reactCmd, uploadCmd, storageCmd)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newLogger() *zap.Logger {
	logger, err := logging.New(config.Log{Level: logLevel, Format: "console"})
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func newClient(logger *zap.Logger) *client.Client {
	return client.New(serverURL, client.WithToken(token), client.WithLogger(logger))
}

func requireToken() error {
	if token == "" {
		return fmt.Errorf("not signed in: pass --token or set JCB_TOKEN")
	}
	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
