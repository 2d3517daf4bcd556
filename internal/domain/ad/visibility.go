package ad

import (
	"time"

	"adterminal/internal/pkg/utils"
)

const day = 24 * time.Hour

// DaysSinceCreation is floor((now - createdAt) / 1 day). The floor also holds
// for creation times in the future, which yield negative values.
func DaysSinceCreation(createdAt, now time.Time) int64 {
	d := now.Sub(createdAt)
	days := int64(d / day)
	if d < 0 && d%day != 0 {
		days--
	}
	return days
}

// IsCurrentlyVisible decides whether a stored ad may appear in the public feed.
// Records with a missing or unparseable created_at are never visible.
func IsCurrentlyVisible(a *Ad, now time.Time) bool {
	if a == nil || !a.Active() {
		return false
	}
	if a.TimeframeDays < 0 || !a.CreatedAt.Valid {
		return false
	}
	return DaysSinceCreation(a.CreatedAt.Time, now) <= int64(a.TimeframeDays)
}

// FilterVisible keeps the visible ads, preserving order.
func FilterVisible(ads []Ad, now time.Time) []Ad {
	out := make([]Ad, 0, len(ads))
	for i := range ads {
		if IsCurrentlyVisible(&ads[i], now) {
			out = append(out, ads[i])
		}
	}
	return out
}

// FilterByCategory keeps ads whose category matches exactly (case-sensitive).
func FilterByCategory(ads []Ad, category string) []Ad {
	out := make([]Ad, 0, len(ads))
	for _, a := range ads {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out
}

// ProjectForPublic strips internal fields and turns relative image paths into
// absolute URLs under baseURL. Absolute URLs and empty values pass through.
func ProjectForPublic(a Ad, baseURL string) PublicAd {
	var image *string
	if a.ImageURL != nil {
		v := *a.ImageURL
		if v != "" && !utils.IsAbsoluteHTTP(v) {
			v = utils.JoinBaseURL(baseURL, v)
		}
		image = &v
	}

	return PublicAd{
		ID:            a.ID,
		Title:         a.Title,
		Description:   a.Description,
		ImageURL:      image,
		CTAURL:        a.CTAURL,
		Category:      a.Category,
		TimeframeDays: a.TimeframeDays,
		CreatedAt:     a.CreatedAt,
	}
}

// ProjectAllForPublic applies ProjectForPublic to each ad.
func ProjectAllForPublic(ads []Ad, baseURL string) []PublicAd {
	out := make([]PublicAd, 0, len(ads))
	for _, a := range ads {
		out = append(out, ProjectForPublic(a, baseURL))
	}
	return out
}
