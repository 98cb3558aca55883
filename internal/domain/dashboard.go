package domain

import "encoding/json"

// DashboardOverview is the server-computed aggregate of everything the
// authenticated user belongs to. It is read-only on the client.
type DashboardOverview struct {
	MyClubs          []Club            `json:"my_clubs"`
	MyChapters       []Chapter         `json:"my_chapters"`
	MyMemberships    []Member          `json:"my_memberships"`
	UpcomingEvents   []Event           `json:"upcoming_events"`
	RecentActivities []json.RawMessage `json:"recent_activities"`
	Stats            DashboardStats    `json:"stats"`
}

type DashboardStats struct {
	TotalClubs    int `json:"total_clubs"`
	TotalChapters int `json:"total_chapters"`
	TotalEvents   int `json:"total_events"`
	TotalMembers  int `json:"total_members"`
}
