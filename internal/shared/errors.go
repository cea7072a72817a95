package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrRateLimited        = fmt.Errorf("rate limited")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")
	ErrNoSetlists         = fmt.Errorf("no setlists found")
	ErrNoTracks           = fmt.Errorf("no tracks found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// StatusError is returned by HTTP clients when a remote API answers with a non-2xx status.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: %s returned status %d", ErrAPIRequest, e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s returned status %d: %s", ErrAPIRequest, e.Service, e.StatusCode, e.Body)
}

// Is matches [ErrAPIRequest] for every status and [ErrRateLimited] for 429.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrAPIRequest:
		return true
	case ErrRateLimited:
		return e.StatusCode == 429
	case ErrTokenExpired:
		return e.StatusCode == 401
	}
	return false
}
