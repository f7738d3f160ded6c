package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var signupName string

var signupCmd = &cobra.Command{
	Use:   "signup <email> <password>",
	Short: "Create an account",
	Long: `Create an account.

Examples:
  jcb signup ann@example.com 's3cret-pass' --name Ann`,
	Args: cobra.ExactArgs(2),
	RunE: runSignup,
}

var signinCmd = &cobra.Command{
	Use:   "signin <email> <password>",
	Short: "Sign in and print an access token",
	Long: `Sign in and print an access token.

Examples:
  export JCB_TOKEN=$(jcb signin ann@example.com 's3cret-pass')`,
	Args: cobra.ExactArgs(2),
	RunE: runSignin,
}

func init() {
	signupCmd.Flags().StringVar(&signupName, "name", "", "display name")
	signupCmd.MarkFlagRequired("name")
}

func runSignup(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	user, err := newClient(newLogger()).Signup(ctx, args[0], args[1], signupName)
	if err != nil {
		return fmt.Errorf("signup: %w", err)
	}

	if jsonOut {
		return printJSON(user)
	}
	fmt.Printf("Created account %s for %s\n", user.UserID, user.Email)
	return nil
}

func runSignin(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	session, err := newClient(newLogger()).Signin(ctx, args[0], args[1])
	if err != nil {
		return fmt.Errorf("signin: %w", err)
	}

	if jsonOut {
		return printJSON(session)
	}
	fmt.Println(session.AccessToken)
	return nil
}
