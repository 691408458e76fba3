// Package dto provides Data Transfer Objects for API requests/responses.
package dto

// DefaultLimit and MaxLimit bound list requests.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// PageRequest holds offset pagination parameters.
type PageRequest struct {
	Offset int `form:"offset" binding:"min=0"`
	Limit  int `form:"limit" binding:"min=0,max=100"`
}

// Defaults sets the default limit.
func (p *PageRequest) Defaults() {
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
}

// ListResponse wraps one page of results.
type ListResponse[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"`
	Offset     int `json:"offset"`
	Limit      int `json:"limit"`
}

// Envelope is the body of every successful response. Notifications holds
// the messages shown to the user while serving the request.
type Envelope struct {
	Data          any      `json:"data,omitempty"`
	Notifications []string `json:"notifications"`
}
