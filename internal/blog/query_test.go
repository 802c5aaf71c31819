package blog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sujalbistaa/blogicum/internal/models"
)

func TestListIndexShowsOnlyPublicPosts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user("alice")
	open := f.category("open", true)
	closed := f.category("closed", false)

	old := f.post(alice, titled("old"), pubDate(testNow.Add(-48*time.Hour)))
	recent := f.post(alice, titled("recent"), inCategory(open))
	f.post(alice, titled("draft"), unpublished())
	f.post(alice, titled("scheduled"), pubDate(testNow.Add(time.Hour)))
	f.post(alice, titled("closed"), inCategory(closed))

	for _, viewer := range []Viewer{Anonymous, AsUser(alice.ID)} {
		listing, err := f.svc.ListIndex(ctx, viewer, 1)
		require.NoError(t, err)
		assert.Equal(t, []uint{recent.ID, old.ID}, ids(listing.Posts), "viewer %d", viewer.UserID)
		assert.False(t, listing.HasNext)
	}
}

func TestListIndexJoinsRelationsAndCountsComments(t *testing.T) {
	f := newFixture(t)
	alice := f.user("alice")
	bob := f.user("bob")
	open := f.category("open", true)
	moscow := f.location("Moscow", true)

	p := f.post(alice, inCategory(open), atLocation(moscow))
	f.comment(p, bob, true)
	f.comment(p, alice, true)
	f.comment(p, bob, false)
	bare := f.post(alice, pubDate(testNow.Add(-2*time.Hour)))

	listing, err := f.svc.ListIndex(context.Background(), Anonymous, 1)
	require.NoError(t, err)
	require.Len(t, listing.Posts, 2)

	got := listing.Posts[0]
	assert.Equal(t, p.ID, got.ID)
	assert.EqualValues(t, 3, got.CommentCount)
	require.NotNil(t, got.Author)
	assert.Equal(t, "alice", got.Author.Username)
	require.NotNil(t, got.Category)
	assert.Equal(t, "open", got.Category.Slug)
	require.NotNil(t, got.Location)
	assert.Equal(t, "Moscow", got.Location.Name)

	assert.Equal(t, bare.ID, listing.Posts[1].ID)
	assert.Zero(t, listing.Posts[1].CommentCount)
	assert.Nil(t, listing.Posts[1].Category)
}

func TestListIndexPaginates(t *testing.T) {
	f := newFixture(t, WithPageSize(2))
	ctx := context.Background()
	alice := f.user("alice")

	var created []uint
	for i := range 5 {
		created = append(created, f.post(alice, pubDate(testNow.Add(-time.Duration(i+1)*time.Hour))).ID)
	}

	page1, err := f.svc.ListIndex(ctx, Anonymous, 1)
	require.NoError(t, err)
	assert.Equal(t, created[0:2], ids(page1.Posts))
	assert.True(t, page1.HasNext)
	assert.Equal(t, 2, page1.PageSize)

	page3, err := f.svc.ListIndex(ctx, Anonymous, 3)
	require.NoError(t, err)
	assert.Equal(t, created[4:], ids(page3.Posts))
	assert.False(t, page3.HasNext)

	page9, err := f.svc.ListIndex(ctx, Anonymous, 9)
	require.NoError(t, err)
	assert.Empty(t, page9.Posts)
	assert.False(t, page9.HasNext)
}

func TestListIndexOrdersTiesByID(t *testing.T) {
	f := newFixture(t)
	alice := f.user("alice")
	first := f.post(alice, pubDate(testNow.Add(-time.Hour)))
	second := f.post(alice, pubDate(testNow.Add(-time.Hour)))

	listing, err := f.svc.ListIndex(context.Background(), Anonymous, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{second.ID, first.ID}, ids(listing.Posts))
}

func TestListCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user("alice")
	open := f.category("open", true)
	other := f.category("other", true)

	visible := f.post(alice, inCategory(open))
	f.post(alice, inCategory(open), unpublished())
	f.post(alice, inCategory(other))
	f.post(alice)

	// The author gets no extra posts on a category page.
	for _, viewer := range []Viewer{Anonymous, AsUser(alice.ID)} {
		listing, err := f.svc.ListCategory(ctx, viewer, "open", 1)
		require.NoError(t, err)
		assert.Equal(t, []uint{visible.ID}, ids(listing.Posts))
		require.NotNil(t, listing.Category)
		assert.Equal(t, open.ID, listing.Category.ID)
	}
}

func TestListCategoryNotFound(t *testing.T) {
	f := newFixture(t)
	alice := f.user("alice")
	closed := f.category("closed", false)
	post := f.post(alice, inCategory(closed))

	_, err := f.svc.ListCategory(context.Background(), AsUser(alice.ID), "closed", 1)
	assert.ErrorIs(t, err, ErrNotFound)

	own, err := f.svc.ListProfile(context.Background(), AsUser(alice.ID), "alice", 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{post.ID}, ids(own.Posts))

	_, err = f.svc.ListCategory(context.Background(), Anonymous, "missing", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user("alice")
	bob := f.user("bob")
	closed := f.category("closed", false)

	public := f.post(alice, pubDate(testNow.Add(-2*time.Hour)))
	draft := f.post(alice, unpublished(), pubDate(testNow.Add(-3*time.Hour)))
	scheduled := f.post(alice, pubDate(testNow.Add(time.Hour)))
	hidden := f.post(alice, inCategory(closed), pubDate(testNow.Add(-4*time.Hour)))
	f.post(bob)

	owner, err := f.svc.ListProfile(ctx, AsUser(alice.ID), "alice", 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{scheduled.ID, public.ID, draft.ID, hidden.ID}, ids(owner.Posts))
	require.NotNil(t, owner.Author)
	assert.Equal(t, "alice", owner.Author.Username)

	for _, viewer := range []Viewer{Anonymous, AsUser(bob.ID)} {
		listing, err := f.svc.ListProfile(ctx, viewer, "alice", 1)
		require.NoError(t, err)
		assert.Equal(t, []uint{public.ID}, ids(listing.Posts))
		assert.Subset(t, ids(owner.Posts), ids(listing.Posts))
	}

	_, err = f.svc.ListProfile(ctx, Anonymous, "nobody", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestComposeQueryRequiresSubject(t *testing.T) {
	f := newFixture(t)

	var posts []models.Post
	err := ComposeQuery(f.db, ListingRequest{Context: CategoryPage}, testNow).Find(&posts).Error
	assert.Error(t, err)

	err = ComposeQuery(f.db, ListingRequest{Context: AuthorProfile}, testNow).Find(&posts).Error
	assert.Error(t, err)
}

func TestListingRequestNormalized(t *testing.T) {
	req := ListingRequest{Page: -3, PageSize: 1000}.normalized()
	assert.Equal(t, 1, req.Page)
	assert.Equal(t, MaxPageSize, req.PageSize)

	req = ListingRequest{}.normalized()
	assert.Equal(t, DefaultPageSize, req.PageSize)
}
