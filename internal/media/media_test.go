package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		ref  string
		want string
	}{
		{"empty reference", "/media/", "", ""},
		{"path base", "/media/", "posts/cat.jpg", "/media/posts/cat.jpg"},
		{"base without slash", "/media", "posts/cat.jpg", "/media/posts/cat.jpg"},
		{"leading slash stays under base", "/media/", "/posts/cat.jpg", "/media/posts/cat.jpg"},
		{"absolute base", "https://cdn.example.com/blog/", "posts/cat.jpg", "https://cdn.example.com/blog/posts/cat.jpg"},
		{"absolute reference", "/media/", "https://img.example.com/a.png", "https://img.example.com/a.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewResolver(tt.base)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.URL(tt.ref))
		})
	}
}
