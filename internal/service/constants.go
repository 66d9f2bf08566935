package service

const (
	// ProfileSport is the only sport type with a derived profile.
	ProfileSport = "Run"

	// RecentRunsLimit bounds queries feeding the activity list and the
	// per-activity evaluation.
	RecentRunsLimit = 200

	// ChartWeeks is how many past weeks the weekly volume chart shows.
	ChartWeeks = 12
)
