package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sujalbistaa/blogicum/internal/blog"
)

// NewUsersCommand groups account commands.
func NewUsersCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts and their session tokens",
	}
	cmd.AddCommand(newUsersCreateCommand(rootOpts))
	cmd.AddCommand(newUsersTokenCommand(rootOpts))
	return cmd
}

type userResult struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

func newUsersCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var firstName, lastName, email string

	cmd := &cobra.Command{
		Use:   "create <username>",
		Short: "Create an account and print a session token for it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := rootOpts.service()
			if err != nil {
				return err
			}
			defer done()

			ctx := cmd.Context()
			user, err := svc.CreateUser(ctx, blog.ProfileInput{
				Username:  &args[0],
				FirstName: &firstName,
				LastName:  &lastName,
				Email:     &email,
			})
			if err != nil {
				return err
			}
			token, err := svc.IssueToken(ctx, user.Username)
			if err != nil {
				return err
			}

			res := userResult{ID: user.ID, Username: user.Username, Token: token}
			return newFormatter(rootOpts, cmd.OutOrStdout()).Result(res, func(w io.Writer) {
				fmt.Fprintf(w, "Created user %s (id %d)\n", res.Username, res.ID)
				fmt.Fprintf(w, "Token: %s\n", res.Token)
			})
		},
	}

	cmd.Flags().StringVar(&firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	return cmd
}

func newUsersTokenCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "token <username>",
		Short: "Issue a new session token for an existing account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := rootOpts.service()
			if err != nil {
				return err
			}
			defer done()

			token, err := svc.IssueToken(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			res := userResult{Username: args[0], Token: token}
			return newFormatter(rootOpts, cmd.OutOrStdout()).Result(res, func(w io.Writer) {
				fmt.Fprintln(w, res.Token)
			})
		},
	}
}
