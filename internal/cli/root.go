package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/sujalbistaa/blogicum/internal/blog"
	"github.com/sujalbistaa/blogicum/internal/db"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DatabaseURL string
	Format      string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command of the blog admin tool.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "blogctl",
		Short: "blogctl - Blogicum administration",
		Long:  "Manage users, sessions, categories and locations of a Blogicum database.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.DatabaseURL, "database-url", os.Getenv("DATABASE_URL"),
		"database URL (sqlite://path or postgres://...), defaults to $DATABASE_URL")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewUsersCommand(opts))
	cmd.AddCommand(NewCategoriesCommand(opts))
	cmd.AddCommand(NewLocationsCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))

	return cmd
}

// service opens the configured database and returns a blog service on it.
// The returned close func releases the connection pool.
func (o *RootOptions) service() (*blog.Service, func(), error) {
	database, err := db.Init(o.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return blog.NewService(database), closer(database), nil
}

func closer(database *gorm.DB) func() {
	return func() {
		if sqlDB, err := database.DB(); err == nil {
			sqlDB.Close()
		}
	}
}
