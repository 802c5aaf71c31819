package blog

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sujalbistaa/blogicum/internal/models"
)

func TestPubliclyVisible(t *testing.T) {
	published := &models.Category{ID: 1, IsPublished: true}
	hidden := &models.Category{ID: 2, IsPublished: false}

	tests := []struct {
		name string
		post models.Post
		want bool
	}{
		{"published, past, no category", models.Post{IsPublished: true, PubDate: testNow.Add(-time.Minute)}, true},
		{"published exactly now", models.Post{IsPublished: true, PubDate: testNow}, true},
		{"scheduled", models.Post{IsPublished: true, PubDate: testNow.Add(time.Second)}, false},
		{"unpublished", models.Post{IsPublished: false, PubDate: testNow.Add(-time.Minute)}, false},
		{"published category", models.Post{IsPublished: true, PubDate: testNow, CategoryID: &published.ID, Category: published}, true},
		{"unpublished category", models.Post{IsPublished: true, PubDate: testNow, CategoryID: &hidden.ID, Category: hidden}, false},
		{"category not loaded", models.Post{IsPublished: true, PubDate: testNow, CategoryID: &published.ID}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PubliclyVisible(&tt.post, testNow))
		})
	}
}

func TestVisibleAuthorOverride(t *testing.T) {
	draft := &models.Post{AuthorID: 7, IsPublished: false, PubDate: testNow.Add(time.Hour)}

	assert.True(t, Visible(draft, AsUser(7), testNow))
	assert.False(t, Visible(draft, AsUser(8), testNow))
	assert.False(t, Visible(draft, Anonymous, testNow))
}

func TestVisibleInNonUTCZone(t *testing.T) {
	zone := time.FixedZone("UTC+3", 3*60*60)
	p := &models.Post{IsPublished: true, PubDate: testNow.In(zone)}
	assert.True(t, PubliclyVisible(p, testNow))
}

// The SQL condition and the Go predicate must agree on every
// combination of flags, dates, categories and viewers.
func TestVisibleToMatchesVisible(t *testing.T) {
	f := newFixture(t)
	author := f.user("author")
	other := f.user("other")
	open := f.category("open", true)
	closed := f.category("closed", false)

	dates := []time.Time{testNow.Add(-24 * time.Hour), testNow, testNow.Add(time.Minute)}
	categories := []*models.Category{nil, open, closed}
	for _, published := range []bool{true, false} {
		for _, date := range dates {
			for _, category := range categories {
				opts := []postOption{pubDate(date)}
				if !published {
					opts = append(opts, unpublished())
				}
				if category != nil {
					opts = append(opts, inCategory(category))
				}
				f.post(author, opts...)
			}
		}
	}

	var all []models.Post
	require.NoError(t, postsWithRelations(f.db).Find(&all).Error)
	require.Len(t, all, 18)

	for _, viewer := range []Viewer{Anonymous, AsUser(author.ID), AsUser(other.ID)} {
		t.Run(fmt.Sprintf("viewer %d", viewer.UserID), func(t *testing.T) {
			var want []uint
			for i := range all {
				if Visible(&all[i], viewer, testNow) {
					want = append(want, all[i].ID)
				}
			}

			var got []models.Post
			require.NoError(t, postsWithRelations(f.db).Where(VisibleTo(viewer, testNow)).Find(&got).Error)
			assert.ElementsMatch(t, want, ids(got))
		})
	}
}
