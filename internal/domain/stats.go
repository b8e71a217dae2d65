package domain

// DashboardStats is a point-in-time summary across all entities. The counts come
// from independent queries and are not guaranteed to be mutually consistent.
type DashboardStats struct {
	TotalUsers         int64
	ActiveUsers        int64
	TotalContacts      int64
	UnresolvedContacts int64
	TotalItems         int64
	RecentAccessCount  int64
	AccessByEndpoint   map[string]int64
	AccessByMethod     map[string]int64
	AccessByStatus     map[string]int64
}
