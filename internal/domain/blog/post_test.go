package blog

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPost(t *testing.T) *Post {
	t.Helper()
	p, err := NewPost("Buying Your First Home", "", "<p>Conveyancing explained.</p>", "A. Lawyer")
	require.NoError(t, err)
	return p
}

func TestNewPost(t *testing.T) {
	t.Run("derives slug from title", func(t *testing.T) {
		p := newTestPost(t)
		assert.Equal(t, "buying-your-first-home", p.Slug)
		assert.Equal(t, PostStatusDraft, p.Status)
		assert.Nil(t, p.PublishedAt)
		assert.Empty(t, p.Tags)
	})

	t.Run("uses explicit slug", func(t *testing.T) {
		p, err := NewPost("Buying Your First Home", "First Home Guide", "body", "")
		require.NoError(t, err)
		assert.Equal(t, "first-home-guide", p.Slug)
	})

	t.Run("requires title", func(t *testing.T) {
		_, err := NewPost("   ", "", "body", "")
		assert.Error(t, err)
	})

	t.Run("requires content", func(t *testing.T) {
		_, err := NewPost("Title", "", " ", "")
		assert.Error(t, err)
	})

	t.Run("rejects slug without letters", func(t *testing.T) {
		_, err := NewPost("???", "", "body", "")
		assert.Error(t, err)
	})
}

func TestPost_SetTags(t *testing.T) {
	p := newTestPost(t)

	require.NoError(t, p.SetTags([]string{"Property Law", "property-law", " ", "Conveyancing"}))
	assert.Equal(t, []string{"property-law", "conveyancing"}, p.Tags)

	many := make([]string, 11)
	for i := range many {
		many[i] = strings.Repeat("t", i+1)
	}
	assert.Error(t, p.SetTags(many))
}

func TestPost_SetSEO(t *testing.T) {
	p := newTestPost(t)

	require.NoError(t, p.SetSEO(SEO{MetaTitle: " First home ", Keywords: []string{"home", " ", "buying"}}))
	assert.Equal(t, "First home", p.SEO.MetaTitle)
	assert.Equal(t, []string{"home", "buying"}, p.SEO.Keywords)

	assert.Error(t, p.SetSEO(SEO{MetaTitle: strings.Repeat("x", 71)}))
	assert.Error(t, p.SetSEO(SEO{MetaDescription: strings.Repeat("x", 161)}))
}

func TestPost_EffectiveSEO(t *testing.T) {
	p := newTestPost(t)
	require.NoError(t, p.Update(p.Title, p.Content, "A short guide to conveyancing.", "", ""))
	require.NoError(t, p.SetTags([]string{"property"}))

	seo := p.EffectiveSEO()

	assert.Equal(t, "Buying Your First Home", seo.MetaTitle)
	assert.Equal(t, "A short guide to conveyancing.", seo.MetaDescription)
	assert.Equal(t, []string{"property"}, seo.Keywords)
}

func TestPost_PublishLifecycle(t *testing.T) {
	p := newTestPost(t)
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, p.Publish(now))
	assert.Equal(t, PostStatusPublished, p.Status)
	require.NotNil(t, p.PublishedAt)
	assert.True(t, p.PublishedAt.Equal(now))
	assert.True(t, p.IsPublic(now))
	assert.False(t, p.IsPublic(now.Add(-time.Minute)))

	require.NoError(t, p.Unpublish())
	assert.False(t, p.IsPublic(now))
	assert.ErrorIs(t, p.Unpublish(), ErrPostNotPublic)

	later := now.Add(24 * time.Hour)
	require.NoError(t, p.Publish(later))
	assert.True(t, p.PublishedAt.Equal(now), "first publish date is kept")

	p.Archive()
	assert.ErrorIs(t, p.Publish(later), ErrPostArchived)
}

func TestPost_Update(t *testing.T) {
	p := newTestPost(t)
	v := p.Version

	require.NoError(t, p.Update("New Title", "new body", "excerpt", "https://cdn.example.com/a.png", ""))
	assert.Equal(t, "New Title", p.Title)
	assert.Equal(t, "A. Lawyer", p.AuthorName, "blank author keeps existing")
	assert.Equal(t, "buying-your-first-home", p.Slug, "slug is not changed by a title edit")
	assert.Equal(t, v+1, p.Version)

	assert.Error(t, p.Update("Title", "body", strings.Repeat("e", 501), "", ""))
}
