// Package client is a Go consumer of the Gingerbread Houses API. It covers
// the full HTTP surface (listings, neighborhoods, auth, image upload) and
// carries the session, browse, form and upload state handling an application
// front end needs on top of it.
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
	"os"
	"strings"
	"time"

	"github.com/fcreyes/gingereasy/models"
)

// DefaultBaseURL is used when neither the constructor argument nor the
// GINGERBREAD_API_URL environment variable provides a base URL.
const DefaultBaseURL = "http://localhost:8000"

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("GINGERBREAD_API_URL")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ListingPayload is the write shape for create and full-replace update.
// Optional numeric fields are pointers so a blank form field serializes as
// null rather than zero.
type ListingPayload struct {
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	Price            float64 `json:"price"`
	Address          string  `json:"address"`
	Neighborhood     string  `json:"neighborhood,omitempty"`
	SquareFeet       *int    `json:"square_feet"`
	NumRooms         *int    `json:"num_rooms"`
	NumCandyCanes    *int    `json:"num_candy_canes"`
	HasGumdropGarden bool    `json:"has_gumdrop_garden"`
	FrostingType     string  `json:"frosting_type,omitempty"`
	ListingType      string  `json:"listing_type,omitempty"`
	Status           string  `json:"status,omitempty"`
	ImageURL         string  `json:"image_url,omitempty"`
}

type UploadResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

func (c *Client) ListListings(ctx context.Context, filters Filters) ([]models.Listing, error) {
	endpoint := c.BaseURL + "/api/listings"
	if qs := filters.Encode(); qs != "" {
		endpoint += "?" + qs
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var listings []models.Listing
	if err := c.doJSON(req, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func (c *Client) GetListing(ctx context.Context, id uint) (*models.Listing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/listings/%d", c.BaseURL, id), nil)
	if err != nil {
		return nil, err
	}

	var listing models.Listing
	if err := c.doJSON(req, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (c *Client) CreateListing(ctx context.Context, token string, payload ListingPayload) (*models.Listing, error) {
	return c.writeListing(ctx, http.MethodPost, c.BaseURL+"/api/listings", token, payload)
}

func (c *Client) UpdateListing(ctx context.Context, token string, id uint, payload ListingPayload) (*models.Listing, error) {
	return c.writeListing(ctx, http.MethodPut, fmt.Sprintf("%s/api/listings/%d", c.BaseURL, id), token, payload)
}

func (c *Client) writeListing(ctx context.Context, method, endpoint, token string, payload ListingPayload) (*models.Listing, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	setBearer(req, token)

	var listing models.Listing
	if err := c.doJSON(req, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (c *Client) DeleteListing(ctx context.Context, token string, id uint) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, fmt.Sprintf("%s/api/listings/%d", c.BaseURL, id), nil)
	if err != nil {
		return err
	}
	setBearer(req, token)

	return c.doJSON(req, nil)
}

func (c *Client) Neighborhoods(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/neighborhoods", nil)
	if err != nil {
		return nil, err
	}

	var neighborhoods []string
	if err := c.doJSON(req, &neighborhoods); err != nil {
		return nil, err
	}
	return neighborhoods, nil
}

// Login exchanges form-encoded credentials for an access token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var tokenRes struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := c.doJSON(req, &tokenRes); err != nil {
		return "", err
	}
	return tokenRes.AccessToken, nil
}

func (c *Client) Register(ctx context.Context, email, username, password string) (*models.User, error) {
	body, err := json.Marshal(map[string]string{
		"email":    email,
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/auth/register", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var user models.User
	if err := c.doJSON(req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Me resolves the user behind an access token.
func (c *Client) Me(ctx context.Context, token string) (*models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/auth/me", nil)
	if err != nil {
		return nil, err
	}
	setBearer(req, token)

	var user models.User
	if err := c.doJSON(req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UploadImage posts a multipart image under the `file` field.
func (c *Client) UploadImage(ctx context.Context, filename, contentType string, r io.Reader) (*UploadResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/upload", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var result UploadResult
	if err := c.doJSON(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// doJSON executes the request, maps non-2xx responses to typed errors and
// decodes the body into out when out is non-nil.
func (c *Client) doJSON(req *http.Request, out interface{}) error {
	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return errorFromResponse(res)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return &ServerError{StatusCode: res.StatusCode, Message: "invalid response body: " + err.Error()}
	}
	return nil
}

func setBearer(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
