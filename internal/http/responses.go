package http

import (
	"time"

	"portal-backend/internal/domain"
)

type UserResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

type ItemResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
	OwnerID     int64   `json:"owner_id"`
	CreatedAt   string  `json:"created_at"`
}

type ContactResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Subject    string `json:"subject"`
	Message    string `json:"message"`
	IsResolved bool   `json:"is_resolved"`
	CreatedAt  string `json:"created_at"`
}

type AccessLogResponse struct {
	ID         int64   `json:"id"`
	UserID     *int64  `json:"user_id"`
	AccessTime string  `json:"access_time"`
	IPAddress  string  `json:"ip_address"`
	UserAgent  string  `json:"user_agent"`
	Endpoint   *string `json:"endpoint"`
	Method     *string `json:"method"`
	StatusCode *int    `json:"status_code"`
}

// AccessLogEntryResponse adds the referencing user's name and email, null once the
// user is gone.
type AccessLogEntryResponse struct {
	AccessLogResponse
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

type StatsResponse struct {
	TotalUsers         int64            `json:"total_users"`
	ActiveUsers        int64            `json:"active_users"`
	TotalContacts      int64            `json:"total_contacts"`
	UnresolvedContacts int64            `json:"unresolved_contacts"`
	TotalItems         int64            `json:"total_items"`
	RecentAccessCount  int64            `json:"recent_access_count"`
	AccessByEndpoint   map[string]int64 `json:"access_by_endpoint"`
	AccessByMethod     map[string]int64 `json:"access_by_method"`
	AccessByStatus     map[string]int64 `json:"access_by_status"`
}

func userToResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

func itemToResponse(item domain.Item) ItemResponse {
	return ItemResponse{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		Completed:   item.Completed,
		OwnerID:     item.OwnerID,
		CreatedAt:   item.CreatedAt.Format(time.RFC3339),
	}
}

func contactToResponse(contact domain.Contact) ContactResponse {
	return ContactResponse{
		ID:         contact.ID,
		Name:       contact.Name,
		Email:      contact.Email,
		Subject:    contact.Subject,
		Message:    contact.Message,
		IsResolved: contact.IsResolved,
		CreatedAt:  contact.CreatedAt.Format(time.RFC3339),
	}
}

func accessLogToResponse(log domain.AccessLog) AccessLogResponse {
	return AccessLogResponse{
		ID:         log.ID,
		UserID:     log.UserID,
		AccessTime: log.AccessTime.Format(time.RFC3339),
		IPAddress:  log.IPAddress,
		UserAgent:  log.UserAgent,
		Endpoint:   log.Endpoint,
		Method:     log.Method,
		StatusCode: log.StatusCode,
	}
}

func accessLogEntriesToResponse(entries []domain.AccessLogEntry) []AccessLogEntryResponse {
	resp := make([]AccessLogEntryResponse, len(entries))
	for i := range entries {
		resp[i] = AccessLogEntryResponse{
			AccessLogResponse: accessLogToResponse(entries[i].AccessLog),
			Username:          entries[i].Username,
			Email:             entries[i].Email,
		}
	}
	return resp
}

func statsToResponse(stats domain.DashboardStats) StatsResponse {
	return StatsResponse{
		TotalUsers:         stats.TotalUsers,
		ActiveUsers:        stats.ActiveUsers,
		TotalContacts:      stats.TotalContacts,
		UnresolvedContacts: stats.UnresolvedContacts,
		TotalItems:         stats.TotalItems,
		RecentAccessCount:  stats.RecentAccessCount,
		AccessByEndpoint:   nonNil(stats.AccessByEndpoint),
		AccessByMethod:     nonNil(stats.AccessByMethod),
		AccessByStatus:     nonNil(stats.AccessByStatus),
	}
}

func nonNil(m map[string]int64) map[string]int64 {
	if m == nil {
		return map[string]int64{}
	}
	return m
}
