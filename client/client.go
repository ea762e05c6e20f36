// Package client is a Go client for the employee directory API. It
// bundles the HTTP operations, the session token store and ListSync,
// which maintains a filtered, paginated in-memory view of the employee
// list with optimistic mutation reconciliation.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/idms/ems/pkg/filter"
)

// User is the authenticated principal as returned by the API
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Employee mirrors the employee record wire format
type Employee struct {
	ID          int64     `json:"id"`
	FullName    string    `json:"fullName"`
	DOB         time.Time `json:"dob"`
	Email       string    `json:"email"`
	Department  string    `json:"department"`
	PhoneNumber string    `json:"phoneNumber"`
	Designation string    `json:"designation"`
	Gender      string    `json:"gender"`
	PhotoPath   string    `json:"photoPath"`
	CreatedBy   int64     `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FilterRecord projects the employee onto the shared filter predicate
func (e Employee) FilterRecord() filter.Record {
	return filter.Record{
		FullName:    e.FullName,
		Email:       e.Email,
		Department:  e.Department,
		Designation: e.Designation,
		Gender:      e.Gender,
	}
}

// Meta carries the dropdown option sets served with list responses
type Meta struct {
	Departments  []string `json:"departments"`
	Designations []string `json:"designations"`
	Genders      []string `json:"genders"`
}

// IsZero reports whether the response carried no option sets
func (m Meta) IsZero() bool {
	return len(m.Departments) == 0 && len(m.Designations) == 0 && len(m.Genders) == 0
}

// EmployeeList is the list endpoint payload
type EmployeeList struct {
	Employees []Employee `json:"employees"`
	Meta      Meta       `json:"meta"`
}

// EmployeeForm carries the employee fields for create and update
type EmployeeForm struct {
	FullName    string
	DOB         string
	Email       string
	Department  string
	PhoneNumber string
	Designation string
	Gender      string
}

// PhotoUpload is an optional photo file part
type PhotoUpload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

// APIError is a non-2xx response decoded into the server's error payload
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

// Client is an HTTP client for the employee directory API
type Client struct {
	baseURL     string // e.g. http://localhost:8080/api
	uploadsBase string // optional override for photo URLs
	httpClient  *http.Client
	session     *SessionStore
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUploadsBaseURL overrides the base photos are resolved against
func WithUploadsBaseURL(base string) Option {
	return func(c *Client) { c.uploadsBase = strings.TrimRight(base, "/") }
}

// WithSessionStore injects a shared session store
func WithSessionStore(s *SessionStore) Option {
	return func(c *Client) { c.session = s }
}

// New creates a Client for the API rooted at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		session:    NewSessionStore(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session exposes the client's token store
func (c *Client) Session() *SessionStore {
	return c.session
}

// do performs a request and decodes the response into out (if non-nil).
// Non-2xx responses come back as *APIError; a 401 additionally clears
// the stored credential so the caller falls back to the login flow.
func (c *Client) do(ctx context.Context, method, path string, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		if resp.StatusCode == http.StatusUnauthorized {
			c.session.Clear()
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	return c.do(ctx, method, path, "application/json", body, out)
}

// Login authenticates and stores the returned token. With remember set
// the token goes to the persistent slot of the session store.
func (c *Client) Login(ctx context.Context, identity, password string, remember bool) (*User, error) {
	var res struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	payload := map[string]string{"identity": identity, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", payload, &res); err != nil {
		return nil, err
	}
	c.session.SetToken(res.Token, remember)
	return &res.User, nil
}

// Logout ends the session server-side and drops the stored token either way
func (c *Client) Logout(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, nil)
	c.session.Clear()
	return err
}

// Me returns the authenticated user
func (c *Client) Me(ctx context.Context) (*User, error) {
	var res struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/me", "", nil, &res); err != nil {
		return nil, err
	}
	return &res.User, nil
}

// ListEmployees fetches employees for the given filters. Empty filter
// values are omitted from the query; non-empty ones pass through
// unmodified.
func (c *Client) ListEmployees(ctx context.Context, f filter.Filters) (*EmployeeList, error) {
	query := url.Values{}
	for key, value := range map[string]string{
		"search":      f.Search,
		"department":  f.Department,
		"designation": f.Designation,
		"gender":      f.Gender,
	} {
		if value != "" {
			query.Set(key, value)
		}
	}

	path := "/employees"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var res EmployeeList
	if err := c.do(ctx, http.MethodGet, path, "", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// writeEmployeeForm encodes the form fields and optional photo part
func writeEmployeeForm(form EmployeeForm, photo *PhotoUpload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"fullName":    form.FullName,
		"dob":         form.DOB,
		"email":       form.Email,
		"department":  form.Department,
		"phoneNumber": form.PhoneNumber,
		"designation": form.Designation,
		"gender":      form.Gender,
	}
	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			return nil, "", err
		}
	}

	if photo != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photo"; filename=%q`, photo.Filename))
		contentType := photo.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)

		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, photo.Reader); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// CreateEmployee creates an employee. The photo is required by the server.
func (c *Client) CreateEmployee(ctx context.Context, form EmployeeForm, photo *PhotoUpload) (*Employee, error) {
	body, contentType, err := writeEmployeeForm(form, photo)
	if err != nil {
		return nil, err
	}

	var res struct {
		Employee Employee `json:"employee"`
	}
	if err := c.do(ctx, http.MethodPost, "/employees", contentType, body, &res); err != nil {
		return nil, err
	}
	return &res.Employee, nil
}

// UpdateEmployee replaces an employee's fields; photo is optional
func (c *Client) UpdateEmployee(ctx context.Context, id int64, form EmployeeForm, photo *PhotoUpload) (*Employee, error) {
	body, contentType, err := writeEmployeeForm(form, photo)
	if err != nil {
		return nil, err
	}

	var res struct {
		Employee Employee `json:"employee"`
	}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/employees/%d", id), contentType, body, &res); err != nil {
		return nil, err
	}
	return &res.Employee, nil
}

// DeleteEmployee removes an employee
func (c *Client) DeleteEmployee(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/employees/%d", id), "", nil, nil)
}

// ExportEmployees downloads the filtered list as an XLSX workbook
func (c *Client) ExportEmployees(ctx context.Context, f filter.Filters) ([]byte, error) {
	query := url.Values{}
	if f.Search != "" {
		query.Set("search", f.Search)
	}
	if f.Department != "" {
		query.Set("department", f.Department)
	}
	if f.Designation != "" {
		query.Set("designation", f.Designation)
	}
	if f.Gender != "" {
		query.Set("gender", f.Gender)
	}

	path := "/employees/export"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return nil, apiErr
	}

	return io.ReadAll(resp.Body)
}

var absoluteURL = regexp.MustCompile(`(?i)^https?://`)

// ErrNoPhoto is returned by PhotoURL for records without a photo
var ErrNoPhoto = fmt.Errorf("no photo uploaded for this employee")

// PhotoURL resolves an employee's photo reference to an absolute URL.
// Absolute references pass through; relative ones resolve against the
// uploads base if configured, otherwise against the API origin (the base
// URL with its /api suffix stripped).
func (c *Client) PhotoURL(e Employee) (string, error) {
	if e.PhotoPath == "" {
		return "", ErrNoPhoto
	}
	if absoluteURL.MatchString(e.PhotoPath) {
		return e.PhotoPath, nil
	}

	base := c.uploadsBase
	if base == "" {
		base = strings.TrimSuffix(c.baseURL, "/api")
	}
	return base + e.PhotoPath, nil
}
