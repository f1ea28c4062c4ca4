package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `
practice_areas:
  - slug: conveyancing
    title: Conveyancing
    summary: Buying and selling property
    order: 2
  - slug: family-law
    title: Family Law
    summary: Separation, parenting and property settlements
    order: 1
team:
  - slug: jane-doe
    name: Jane Doe
    role: Principal Solicitor
    practice_areas: [family-law]
locations:
  - slug: sydney
    name: Sydney CBD
    address: 1 George Street, Sydney NSW 2000
    latitude: -33.8688
    longitude: 151.2093
faqs:
  - question: Do you offer fixed fees?
    answer: Yes, for most conveyancing matters.
    category: Fees
testimonials:
  - author: M. Smith
    quote: Clear advice, quickly.
    rating: 5
`

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "content.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadCatalog(t *testing.T) {
	catalog, err := LoadCatalog(writeFile(t, sampleCatalog))
	require.NoError(t, err)

	require.Len(t, catalog.PracticeAreas, 2)
	assert.Equal(t, "family-law", catalog.PracticeAreas[0].Slug)
	require.Len(t, catalog.Team, 1)
	assert.Equal(t, []string{"family-law"}, catalog.Team[0].PracticeAreas)
	require.Len(t, catalog.Locations, 1)
	assert.InDelta(t, -33.8688, catalog.Locations[0].Latitude, 0.0001)
	assert.Contains(t, catalog.Locations[0].MapEmbedURL, "output=embed")
	assert.Equal(t, 5, catalog.Testimonials[0].Rating)
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	catalog, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.True(t, catalog.IsEmpty())
}

func TestLoadCatalog_DuplicateSlug(t *testing.T) {
	body := `
practice_areas:
  - slug: wills
    title: Wills
  - slug: wills
    title: Estates
`
	_, err := LoadCatalog(writeFile(t, body))
	assert.ErrorContains(t, err, "duplicate practice area slug")
}

func TestLoadCatalog_Malformed(t *testing.T) {
	_, err := LoadCatalog(writeFile(t, "practice_areas: [\n  - slug: : :"))
	assert.Error(t, err)
}
