// Package analyzing holds the core of the churn computation: the product
// group mapping, the dataset preparation and the customer journey analysis
// that tells genuine cancellations apart from temporary pauses.
package analyzing

import "github.com/edelweiss-digital/churn-analytics-api/internal/domain"

const socialMediaCategory = "Social Media"

// The granular social media SKUs collapse into three coarser groups. Anything
// else under "Social Media" is unknown and gets dropped.
var (
	postingProducts = map[string]struct{}{
		"Social Media Postingpaket 12 Postings": {},
		"Social Media Postingpaket 24 Postings": {},
		"Social Media Postingpaket 52 Postings": {},
	}

	superkombiProducts = map[string]struct{}{
		"Social Media SUPERKOMBI 12er":       {},
		"Social Media SUPERKOMBI 12er (alt)": {},
		"Social Media SUPERKOMBI 24er":       {},
		"Social Media SUPERKOMBI 24er (alt)": {},
		"Social Media SUPERKOMBI 52er":       {},
		"Social Media SUPERKOMBI 52er (alt)": {},
	}

	adBudgetProducts = map[string]struct{}{
		"Social Media Werbeanzeigen Kampagnenbudget": {},
	}
)

// MapGroup classifies a raw product row into its analytical product group.
// Categories other than "Social Media" are their own group verbatim.
func MapGroup(category, product string) domain.ProductGroup {
	if category != socialMediaCategory {
		return domain.ProductGroup(category)
	}

	if _, ok := postingProducts[product]; ok {
		return domain.GroupPostings
	}
	if _, ok := superkombiProducts[product]; ok {
		return domain.GroupSuperkombis
	}
	if _, ok := adBudgetProducts[product]; ok {
		return domain.GroupSocialAds
	}

	return domain.GroupUnknown
}
