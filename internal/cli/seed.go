package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sujalbistaa/blogicum/internal/blog"
)

// Fixtures is the YAML document accepted by "blogctl seed".
type Fixtures struct {
	Users      []UserFixture     `yaml:"users"`
	Categories []CategoryFixture `yaml:"categories"`
	Locations  []LocationFixture `yaml:"locations"`
	Posts      []PostFixture     `yaml:"posts"`
}

type UserFixture struct {
	Username  string `yaml:"username"`
	FirstName string `yaml:"first_name,omitempty"`
	LastName  string `yaml:"last_name,omitempty"`
	Email     string `yaml:"email,omitempty"`
}

type CategoryFixture struct {
	Title       string `yaml:"title"`
	Slug        string `yaml:"slug,omitempty"`
	Description string `yaml:"description,omitempty"`
	Published   *bool  `yaml:"published,omitempty"`
}

type LocationFixture struct {
	Name      string `yaml:"name"`
	Published *bool  `yaml:"published,omitempty"`
}

// PostFixture refers to its author by username, its category by slug
// and its location by name.
type PostFixture struct {
	Title     string     `yaml:"title"`
	Text      string     `yaml:"text"`
	Author    string     `yaml:"author"`
	Category  string     `yaml:"category,omitempty"`
	Location  string     `yaml:"location,omitempty"`
	Image     string     `yaml:"image,omitempty"`
	PubDate   *time.Time `yaml:"pub_date,omitempty"`
	Published *bool      `yaml:"published,omitempty"`
}

// SeedReport counts what a seed run created.
type SeedReport struct {
	Users      int               `json:"users"`
	Tokens     map[string]string `json:"tokens"`
	Categories int               `json:"categories"`
	Locations  int               `json:"locations"`
	Posts      int               `json:"posts"`
}

// LoadFixtures parses a fixtures file, rejecting unknown fields.
func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures file: %w", err)
	}

	var fx Fixtures
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&fx); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &fx, nil
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load users, categories, locations and posts from a YAML file",
		Long: `Load fixtures into the database.

Users are created first and get a fresh session token each, which is
printed so the seeded accounts can be used against the API right away.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fx, err := LoadFixtures(file)
			if err != nil {
				return err
			}

			svc, done, err := rootOpts.service()
			if err != nil {
				return err
			}
			defer done()

			report, err := Seed(cmd.Context(), svc, fx)
			if err != nil {
				return err
			}
			return newFormatter(rootOpts, cmd.OutOrStdout()).Result(report, func(w io.Writer) {
				fmt.Fprintf(w, "Seeded %d users, %d categories, %d locations, %d posts\n",
					report.Users, report.Categories, report.Locations, report.Posts)
				for _, u := range fx.Users {
					fmt.Fprintf(w, "%s\t%s\n", u.Username, report.Tokens[u.Username])
				}
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "fixtures.yaml", "fixtures file")
	return cmd
}

// Seed creates everything in fx through svc, so the usual validation
// applies to fixtures too.
func Seed(ctx context.Context, svc *blog.Service, fx *Fixtures) (*SeedReport, error) {
	report := &SeedReport{Tokens: make(map[string]string)}
	users := make(map[string]uint)
	categories := make(map[string]uint)
	locations := make(map[string]uint)

	for _, u := range fx.Users {
		user, err := svc.CreateUser(ctx, blog.ProfileInput{
			Username:  &u.Username,
			FirstName: &u.FirstName,
			LastName:  &u.LastName,
			Email:     &u.Email,
		})
		if err != nil {
			return nil, fmt.Errorf("user %q: %w", u.Username, err)
		}
		token, err := svc.IssueToken(ctx, user.Username)
		if err != nil {
			return nil, fmt.Errorf("token for %q: %w", u.Username, err)
		}
		users[user.Username] = user.ID
		report.Tokens[user.Username] = token
		report.Users++
	}

	for _, c := range fx.Categories {
		in := blog.CategoryInput{Title: &c.Title, Description: &c.Description, IsPublished: c.Published}
		if c.Slug != "" {
			in.Slug = &c.Slug
		}
		category, err := svc.CreateCategory(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", c.Title, err)
		}
		categories[category.Slug] = category.ID
		report.Categories++
	}

	for _, l := range fx.Locations {
		location, err := svc.CreateLocation(ctx, blog.LocationInput{Name: &l.Name, IsPublished: l.Published})
		if err != nil {
			return nil, fmt.Errorf("location %q: %w", l.Name, err)
		}
		locations[location.Name] = location.ID
		report.Locations++
	}

	for _, p := range fx.Posts {
		authorID, ok := users[p.Author]
		if !ok {
			return nil, fmt.Errorf("post %q: unknown author %q", p.Title, p.Author)
		}
		in := blog.PostInput{
			Title:       &p.Title,
			Text:        &p.Text,
			Image:       &p.Image,
			PubDate:     p.PubDate,
			IsPublished: p.Published,
		}
		if p.Category != "" {
			id, ok := categories[p.Category]
			if !ok {
				return nil, fmt.Errorf("post %q: unknown category %q", p.Title, p.Category)
			}
			in.CategoryID = blog.SomeID(id)
		}
		if p.Location != "" {
			id, ok := locations[p.Location]
			if !ok {
				return nil, fmt.Errorf("post %q: unknown location %q", p.Title, p.Location)
			}
			in.LocationID = blog.SomeID(id)
		}
		if _, err := svc.CreatePost(ctx, blog.AsUser(authorID), in); err != nil {
			return nil, fmt.Errorf("post %q: %w", p.Title, err)
		}
		report.Posts++
	}

	return report, nil
}
