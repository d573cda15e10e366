package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge(t *testing.T) {
	t.Run("nil handling", func(t *testing.T) {
		secondary := &LookupResult{Title: "Solaris"}
		assert.Equal(t, secondary, Merge(nil, secondary, DefaultMergePolicy()))
		assert.Equal(t, secondary, Merge(secondary, nil, DefaultMergePolicy()))
		assert.Nil(t, Merge(nil, nil, DefaultMergePolicy()))
	})

	t.Run("primary wins structured fields", func(t *testing.T) {
		primary := &LookupResult{Title: "Solaris", Author: "Stanislaw Lem", Publisher: "Harcourt"}
		secondary := &LookupResult{Title: "Solaris (reissue)", Author: "S. Lem", Publisher: "Faber"}

		out := Merge(primary, secondary, DefaultMergePolicy())
		assert.Equal(t, "Solaris", out.Title)
		assert.Equal(t, "Stanislaw Lem", out.Author)
		assert.Equal(t, "Harcourt", out.Publisher)
	})

	t.Run("placeholder primary loses", func(t *testing.T) {
		primary := &LookupResult{Title: "Unknown", Author: ""}
		secondary := &LookupResult{Title: "Solaris", Author: "Stanislaw Lem"}

		out := Merge(primary, secondary, DefaultMergePolicy())
		assert.Equal(t, "Solaris", out.Title)
		assert.Equal(t, "Stanislaw Lem", out.Author)
	})

	t.Run("custom placeholder", func(t *testing.T) {
		policy := MergePolicy{UnknownPlaceholder: "N/A"}
		out := Merge(&LookupResult{Title: "N/A"}, &LookupResult{Title: "Solaris"}, policy)
		assert.Equal(t, "Solaris", out.Title)
	})

	t.Run("longer description wins when enabled", func(t *testing.T) {
		primary := &LookupResult{Title: "Solaris", Description: "Short."}
		secondary := &LookupResult{Description: "A much longer synopsis of the novel."}

		out := Merge(primary, secondary, DefaultMergePolicy())
		assert.Equal(t, secondary.Description, out.Description)

		out = Merge(primary, secondary, MergePolicy{PreferLongerText: false})
		assert.Equal(t, "Short.", out.Description)
	})

	t.Run("zero numeric fields backfill", func(t *testing.T) {
		primary := &LookupResult{Title: "Solaris"}
		secondary := &LookupResult{Pages: 204, Year: 1961, Subjects: []string{"Science fiction"}}

		out := Merge(primary, secondary, DefaultMergePolicy())
		assert.Equal(t, 204, out.Pages)
		assert.Equal(t, 1961, out.Year)
		assert.Equal(t, []string{"Science fiction"}, out.Subjects)
	})

	t.Run("non-zero numeric fields keep primary", func(t *testing.T) {
		primary := &LookupResult{Title: "Solaris", Pages: 200, Year: 1961}
		secondary := &LookupResult{Pages: 204, Year: 1970}

		out := Merge(primary, secondary, DefaultMergePolicy())
		assert.Equal(t, 200, out.Pages)
		assert.Equal(t, 1961, out.Year)
	})
}
