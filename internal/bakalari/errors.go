package bakalari

import "fmt"

// AuthError reports a failure to obtain or renew an access token:
// missing configuration, rejected credentials, or a transport failure
// during login.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AuthError) Unwrap() error { return e.Err }

// APIError reports a failed data request: a non-2xx status after the
// permitted 401 retry, or a transport failure. StatusCode is 0 for
// transport failures.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return e.Err }

// ValidationError reports malformed caller-supplied input, such as a
// date that is not in YYYY-MM-DD form. Example carries a well-formed
// value to show the caller.
type ValidationError struct {
	Message string
	Example string
}

func (e *ValidationError) Error() string { return e.Message }
