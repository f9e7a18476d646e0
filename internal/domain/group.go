package domain

// ProductGroup is the coarse analytical bucket a raw product row maps into.
type ProductGroup string

const (
	GroupFirmendatenManager ProductGroup = "Firmendaten Manager"
	GroupWebsite            ProductGroup = "Website"
	GroupSEO                ProductGroup = "SEO"
	GroupGoogleAds          ProductGroup = "Google Ads"
	GroupPostings           ProductGroup = "Postings"
	GroupSuperkombis        ProductGroup = "Superkombis"
	GroupSocialAds          ProductGroup = "Social Media Werbeanzeigen"

	// GroupUnknown marks social media products that match none of the known
	// SKU sets. Rows mapped here are dropped before analysis.
	GroupUnknown ProductGroup = "Unbekannt"
)

// RelevantGroups returns the closed set of groups retained for analysis, in
// the fixed reporting order.
func RelevantGroups() []ProductGroup {
	return []ProductGroup{
		GroupFirmendatenManager,
		GroupWebsite,
		GroupSEO,
		GroupGoogleAds,
		GroupPostings,
		GroupSuperkombis,
		GroupSocialAds,
	}
}

// IsRelevant reports whether the group belongs to the retained set.
func (g ProductGroup) IsRelevant() bool {
	for _, rg := range RelevantGroups() {
		if g == rg {
			return true
		}
	}
	return false
}
