package bakalari

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"bakamcp/internal/logging"
)

// Client issues authenticated requests against a Bakalari server.
// Token acquisition is delegated to the Session; on a 401 the token is
// renewed exactly once and the request retried once. Any further
// failure surfaces as *APIError.
type Client struct {
	session    *Session
	httpClient *http.Client
}

// NewClient creates a client bound to the given session. A nil
// httpClient falls back to http.DefaultClient.
func NewClient(session *Session, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{session: session, httpClient: httpClient}
}

// Get performs an authenticated GET against endpoint (a path like
// "/api/3/timetable/permanent") and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, endpoint string, out interface{}) error {
	return c.do(ctx, http.MethodGet, endpoint, out)
}

func (c *Client) do(ctx context.Context, method, endpoint string, out interface{}) error {
	token, err := c.session.EnsureToken(ctx)
	if err != nil {
		return err
	}

	resp, err := c.issue(ctx, method, endpoint, token)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// Token expired; renew once and retry the same request once.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		logging.Auth("401 on %s, renewing token", endpoint)
		c.session.Invalidate()
		token, err = c.session.Renew(ctx)
		if err != nil {
			return err
		}
		resp, err = c.issue(ctx, method, endpoint, token)
		if err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Message: "decoding response from " + endpoint, Err: err}
	}
	logging.APIDebug("%s %s -> %d", method, endpoint, resp.StatusCode)
	return nil
}

func (c *Client) issue(ctx context.Context, method, endpoint, token string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.session.BaseURL()+endpoint, nil)
	if err != nil {
		return nil, &APIError{Message: "building request for " + endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Message: "connection failed for " + endpoint, Err: err}
	}
	return resp, nil
}

// Endpoint paths consumed from the v3 API.
const (
	EndpointTimetableActual    = "/api/3/timetable/actual"
	EndpointTimetablePermanent = "/api/3/timetable/permanent"
	EndpointAbsenceStudent     = "/api/3/absence/student"
	EndpointMarks              = "/api/3/marks"
)

// ActualTimetable fetches the combined permanent+overridden timetable
// around the given YYYY-MM-DD date.
func (c *Client) ActualTimetable(ctx context.Context, date string) (*Timetable, error) {
	var tt Timetable
	if err := c.Get(ctx, EndpointTimetableActual+"?date="+date, &tt); err != nil {
		return nil, err
	}
	return &tt, nil
}

// PermanentTimetable fetches the baseline weekly timetable.
func (c *Client) PermanentTimetable(ctx context.Context) (*Timetable, error) {
	var tt Timetable
	if err := c.Get(ctx, EndpointTimetablePermanent, &tt); err != nil {
		return nil, err
	}
	return &tt, nil
}

// Absences fetches the student absence report.
func (c *Client) Absences(ctx context.Context) (*AbsenceReport, error) {
	var ar AbsenceReport
	if err := c.Get(ctx, EndpointAbsenceStudent, &ar); err != nil {
		return nil, err
	}
	return &ar, nil
}

// Marks fetches the grade report.
func (c *Client) Marks(ctx context.Context) (*MarkReport, error) {
	var mr MarkReport
	if err := c.Get(ctx, EndpointMarks, &mr); err != nil {
		return nil, err
	}
	return &mr, nil
}
