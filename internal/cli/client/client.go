package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/martillo-dev/martillo/internal/cli/auth"
	"github.com/martillo-dev/martillo/internal/logger"
)

// Client is the HTTP client for the Martillo auction API. It talks to a
// single fixed origin and attaches the bearer credential from the
// persisted session record to every request. It holds no session state
// of its own: the record is re-read immediately before each dispatch, so
// a login or logout in the same process is picked up without rewiring.
type Client struct {
	baseURL    string
	httpClient *http.Client
	sessions   *auth.Store
}

// New creates a new API client for the given origin
func New(baseURL string, sessions *auth.Store) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		sessions: sessions,
	}
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// attachCredential sets the Authorization header from the session, if
// the session carries a credential. It only ever adds the header; a nil
// or unauthenticated session leaves the request untouched.
func attachCredential(req *http.Request, sess *auth.Session) {
	if sess == nil || sess.Credential == "" {
		return
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", sess.Credential))
}

// do performs a JSON request against the API. A corrupt or absent
// session record never fails the request: it is logged and the call
// proceeds unauthenticated. A non-2xx response becomes an error
// carrying the status and response body.
func (c *Client) do(method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	sess, err := c.sessions.Load()
	if err != nil {
		log := logger.GetLogger()
		log.Debug().Err(err).Msg("Could not read session record, proceeding unauthenticated")
	}
	attachCredential(req, sess)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// LoginRequest represents the login request body. The gateway names the
// field username but it carries the account email.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

// Login authenticates the user and returns the issued token
func (c *Client) Login(email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(http.MethodPost, "/auth/login", LoginRequest{Username: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// StatusResponse is the generic success/message body the user endpoints
// return for write operations
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Register creates a new account. The account still has to be confirmed
// with the emailed code before it can do anything useful.
func (c *Client) Register(req RegisterRequest) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.do(http.MethodPost, "/api/Usuarios", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ConfirmAccount confirms a freshly registered account with the code
// sent by email
func (c *Client) ConfirmAccount(code string) (*StatusResponse, error) {
	var resp StatusResponse
	body := map[string]string{"token": code}
	if err := c.do(http.MethodPatch, "/api/Usuarios/confirmar", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ChangePassword changes the password of the authenticated user
func (c *Client) ChangePassword(currentPassword, newPassword string) (*StatusResponse, error) {
	var resp StatusResponse
	body := map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	}
	if err := c.do(http.MethodPatch, "/api/Usuarios/cambiar-password", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RequestPasswordRecovery asks the backend to email a recovery code.
// The backend reuses this to re-send account confirmation codes; there
// is no dedicated resend endpoint.
func (c *Client) RequestPasswordRecovery(email string) (*StatusResponse, error) {
	var resp StatusResponse
	body := map[string]string{"email": email}
	if err := c.do(http.MethodPost, "/api/Usuarios/solicitar-recuperacion", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResetPassword sets a new password using a recovery code
func (c *Client) ResetPassword(code, newPassword string) (*StatusResponse, error) {
	var resp StatusResponse
	body := map[string]string{
		"token":       code,
		"newPassword": newPassword,
	}
	if err := c.do(http.MethodPatch, "/api/Usuarios/restablecer-password", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UserProfile represents a user's full profile
type UserProfile struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Address     string `json:"address,omitempty"`
}

// GetProfile fetches a user's profile by id
func (c *Client) GetProfile(userID string) (*UserProfile, error) {
	var resp UserProfile
	if err := c.do(http.MethodGet, fmt.Sprintf("/api/Usuarios/%s", userID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ProfileUpdate holds the updatable profile fields. Empty fields are
// omitted from the request body and left unchanged by the backend.
type ProfileUpdate struct {
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Address     string `json:"address,omitempty"`
}

type updateProfileRequest struct {
	UserID string `json:"userId"`
	ProfileUpdate
}

// UpdateProfile updates profile fields of the given user
func (c *Client) UpdateProfile(userID string, update ProfileUpdate) (*StatusResponse, error) {
	var resp StatusResponse
	body := updateProfileRequest{UserID: userID, ProfileUpdate: update}
	if err := c.do(http.MethodPut, "/api/Usuarios/actualizar-perfil", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UserActivity represents one entry in a user's activity history
type UserActivity struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

// GetUserHistory returns the activity history of a user
func (c *Client) GetUserHistory(userID string) ([]UserActivity, error) {
	var resp []UserActivity
	if err := c.do(http.MethodGet, fmt.Sprintf("/api/Usuarios/%s/historial", userID), nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetAllActivities returns activity entries across all users
func (c *Client) GetAllActivities() ([]UserActivity, error) {
	var resp []UserActivity
	if err := c.do(http.MethodGet, "/api/Usuarios/actividades", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// AuctionData is the payload for creating an auction
type AuctionData struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	StartingPrice float64  `json:"startingPrice"`
	EndDate       string   `json:"endDate"`
	Categories    []string `json:"categories"`
	ImageURL      string   `json:"imageUrl"`
}

// Auction represents an auction listing
type Auction struct {
	ID            string   `json:"id"`
	SellerID      string   `json:"sellerId"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	StartingPrice float64  `json:"startingPrice"`
	CurrentPrice  float64  `json:"currentPrice"`
	EndDate       string   `json:"endDate"`
	Categories    []string `json:"categories"`
	ImageURL      string   `json:"imageUrl"`
	Status        string   `json:"status"`
}

// ListAuctions returns all auction listings
func (c *Client) ListAuctions() ([]Auction, error) {
	var resp []Auction
	if err := c.do(http.MethodGet, "/auctions", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetAuction returns a single auction by id
func (c *Client) GetAuction(id string) (*Auction, error) {
	var resp Auction
	if err := c.do(http.MethodGet, fmt.Sprintf("/auctions/%s", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateAuction creates a new auction listing
func (c *Client) CreateAuction(data AuctionData) (*Auction, error) {
	var resp Auction
	if err := c.do(http.MethodPost, "/auctions", data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PlaceBid places a bid on an auction
func (c *Client) PlaceBid(auctionID string, amount float64) (*StatusResponse, error) {
	var resp StatusResponse
	body := map[string]float64{"amount": amount}
	if err := c.do(http.MethodPost, fmt.Sprintf("/auctions/%s/bids", auctionID), body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
