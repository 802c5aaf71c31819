package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sujalbistaa/blogicum/internal/blog"
)

// NewCategoriesCommand groups category administration.
func NewCategoriesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage post categories",
	}
	cmd.AddCommand(newCategoriesListCommand(rootOpts))
	cmd.AddCommand(newCategoriesCreateCommand(rootOpts))
	cmd.AddCommand(newCategoriesPublishCommand(rootOpts, "publish", true))
	cmd.AddCommand(newCategoriesPublishCommand(rootOpts, "unpublish", false))
	cmd.AddCommand(newCategoriesDeleteCommand(rootOpts))
	return cmd
}

func newCategoriesListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every category, published or not",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := rootOpts.service()
			if err != nil {
				return err
			}
			defer done()

			categories, err := svc.ListCategories(cmd.Context())
			if err != nil {
				return err
			}
			f := newFormatter(rootOpts, cmd.OutOrStdout())
			return f.Result(categories, func(io.Writer) {
				rows := make([][]string, 0, len(categories))
				for _, c := range categories {
					rows = append(rows, []string{c.Slug, c.Title, yesNo(c.IsPublished)})
				}
				f.Table([]string{"SLUG", "TITLE", "PUBLISHED"}, rows)
			})
		},
	}
}

func newCategoriesCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		slug, description string
		hidden            bool
	)

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a category; the slug is derived from the title unless given",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := rootOpts.service()
			if err != nil {
				return err
			}
			defer done()

			published := !hidden
			in := blog.CategoryInput{Title: &args[0], Description: &description, IsPublished: &published}
			if cmd.Flags().Changed("slug") {
				in.Slug = &slug
			}
			category, err := svc.CreateCategory(cmd.Context(), in)
			if err != nil {
				return err
			}
			return newFormatter(rootOpts, cmd.OutOrStdout()).Result(category, func(w io.Writer) {
				fmt.Fprintf(w, "Created category %s\n", category.Slug)
			})
		},
	}

	cmd.Flags().StringVar(&slug, "slug", "", "URL slug (Latin letters, digits, - and _)")
	cmd.Flags().StringVar(&description, "description", "", "category description")
	cmd.Flags().BoolVar(&hidden, "hidden", false, "create the category unpublished")
	return cmd
}

func newCategoriesPublishCommand(rootOpts *RootOptions, use string, published bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <slug>",
		Short: fmt.Sprintf("Mark a category as %sed", use),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := rootOpts.service()
			if err != nil {
				return err
			}
			defer done()

			category, err := svc.UpdateCategory(cmd.Context(), args[0], blog.CategoryInput{IsPublished: &published})
			if err != nil {
				return err
			}
			return newFormatter(rootOpts, cmd.OutOrStdout()).Result(category, func(w io.Writer) {
				fmt.Fprintf(w, "Category %s published: %s\n", category.Slug, yesNo(category.IsPublished))
			})
		},
	}
}

func newCategoriesDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <slug>",
		Short: "Delete a category; its posts lose their category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := rootOpts.service()
			if err != nil {
				return err
			}
			defer done()

			if err := svc.DeleteCategory(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %s\n", args[0])
			return nil
		},
	}
}

// NewLocationsCommand groups location administration.
func NewLocationsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locations",
		Short: "Manage post locations",
	}
	cmd.AddCommand(newLocationsCreateCommand(rootOpts))
	cmd.AddCommand(newLocationsDeleteCommand(rootOpts))
	return cmd
}

func newLocationsCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var hidden bool

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := rootOpts.service()
			if err != nil {
				return err
			}
			defer done()

			published := !hidden
			location, err := svc.CreateLocation(cmd.Context(), blog.LocationInput{Name: &args[0], IsPublished: &published})
			if err != nil {
				return err
			}
			return newFormatter(rootOpts, cmd.OutOrStdout()).Result(location, func(w io.Writer) {
				fmt.Fprintf(w, "Created location %q (id %d)\n", location.Name, location.ID)
			})
		},
	}

	cmd.Flags().BoolVar(&hidden, "hidden", false, "create the location unpublished")
	return cmd
}

func newLocationsDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a location; posts keep existing without it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil || id == 0 {
				return fmt.Errorf("invalid location id %q", args[0])
			}

			svc, done, err := rootOpts.service()
			if err != nil {
				return err
			}
			defer done()

			if err := svc.DeleteLocation(cmd.Context(), uint(id)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted location %d\n", id)
			return nil
		},
	}
}
