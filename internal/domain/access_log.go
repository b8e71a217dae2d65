package domain

import "time"

// AccessLog records a single inbound request. UserID is nil for anonymous access.
type AccessLog struct {
	ID         int64
	UserID     *int64
	AccessTime time.Time
	IPAddress  string
	UserAgent  string
	Endpoint   *string
	Method     *string
	StatusCode *int
}

// AccessLogEntry is an access log joined with its user, when the user still exists.
type AccessLogEntry struct {
	AccessLog
	Username *string
	Email    *string
}

// AccessLogInput is the payload accepted by the access logger. Empty IPAddress or
// UserAgent are filled from the inbound request.
type AccessLogInput struct {
	UserID     *int64
	IPAddress  string
	UserAgent  string
	Endpoint   *string
	Method     *string
	StatusCode *int
}

// AccessLogGroup names a column access logs can be tallied by.
type AccessLogGroup string

const (
	AccessLogGroupEndpoint AccessLogGroup = "endpoint"
	AccessLogGroupMethod   AccessLogGroup = "method"
	AccessLogGroupStatus   AccessLogGroup = "status_code"
)
