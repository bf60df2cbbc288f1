package discovery

import "fmt"

// FormatDuration renders seconds as "M:SS" or "H:MM:SS", "Unknown" when zero.
func FormatDuration(sec int) string {
	if sec <= 0 {
		return "Unknown"
	}
	h, m, s := sec/3600, (sec%3600)/60, sec%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatViews renders a count with a K/M suffix.
func FormatViews(views int64) string {
	switch {
	case views <= 0:
		return "Unknown views"
	case views >= 1_000_000:
		return fmt.Sprintf("%.1fM views", float64(views)/1_000_000)
	case views >= 1_000:
		return fmt.Sprintf("%.1fK views", float64(views)/1_000)
	default:
		return fmt.Sprintf("%d views", views)
	}
}

// FormatTimestamp renders seconds as "MM:SS", or "HH:MM:SS" past the hour.
func FormatTimestamp(sec int) string {
	if sec < 0 {
		sec = 0
	}
	h, m, s := sec/3600, (sec%3600)/60, sec%60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
