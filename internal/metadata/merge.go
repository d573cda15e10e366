package metadata

// MergePolicy controls how two lookup results for the same book reconcile.
// Precedence is configuration, not a hardcoded tie-break: the defaults mirror
// observed provider quality but deployments can change them.
type MergePolicy struct {
	// UnknownPlaceholder is the provider value meaning "we do not know".
	// A primary field equal to it loses to any secondary value.
	UnknownPlaceholder string

	// PreferLongerText applies to free-form fields (description): when both
	// sources supply one, keep the longer.
	PreferLongerText bool
}

// DefaultMergePolicy matches the historical behavior: prefer the primary
// source unless it reports the unknown placeholder, prefer longer free text.
func DefaultMergePolicy() MergePolicy {
	return MergePolicy{
		UnknownPlaceholder: "Unknown",
		PreferLongerText:   true,
	}
}

// Merge reconciles a primary and a secondary lookup result under the policy.
// Structured fields prefer the primary source; free-form text may prefer
// length when the policy says so.
func Merge(primary, secondary *LookupResult, policy MergePolicy) *LookupResult {
	if primary == nil {
		return secondary
	}
	if secondary == nil {
		return primary
	}

	out := *primary
	out.Title = policy.pickField(primary.Title, secondary.Title)
	out.Author = policy.pickField(primary.Author, secondary.Author)
	out.Publisher = policy.pickField(primary.Publisher, secondary.Publisher)
	out.CoverURL = policy.pickField(primary.CoverURL, secondary.CoverURL)
	out.Description = policy.pickFreeText(primary.Description, secondary.Description)

	if out.Pages == 0 {
		out.Pages = secondary.Pages
	}
	if out.Year == 0 {
		out.Year = secondary.Year
	}
	if len(out.Subjects) == 0 {
		out.Subjects = secondary.Subjects
	}
	return &out
}

func (p MergePolicy) pickField(primary, secondary string) string {
	if primary == "" || primary == p.UnknownPlaceholder {
		if secondary != "" {
			return secondary
		}
	}
	return primary
}

func (p MergePolicy) pickFreeText(primary, secondary string) string {
	picked := p.pickField(primary, secondary)
	if p.PreferLongerText && len(secondary) > len(picked) {
		return secondary
	}
	return picked
}
