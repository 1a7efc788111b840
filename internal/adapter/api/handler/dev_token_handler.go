package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"

	"campushub/pkg/errors"
	"campushub/pkg/response"
)

const identityToolkitEndpoint = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithCustomToken"

// tokenIssuer is the slice of the Firebase auth client the dev-token
// endpoint needs.
type tokenIssuer interface {
	GenerateToken(ctx context.Context, uid string) (string, error)
	GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
}

// DevTokenHandler issues ID tokens for local testing without a browser
// login flow: it mints a custom token for the requested uid and
// exchanges it against the identitytoolkit REST API. Only registered
// outside production.
type DevTokenHandler struct {
	firebaseAuth tokenIssuer
	apiKey       string
	endpoint     string
	httpClient   *http.Client
}

func NewDevTokenHandler(firebaseAuth tokenIssuer, apiKey string) *DevTokenHandler {
	return &DevTokenHandler{
		firebaseAuth: firebaseAuth,
		apiKey:       apiKey,
		endpoint:     identityToolkitEndpoint,
		httpClient:   http.DefaultClient,
	}
}

type devTokenRequest struct {
	UID string `json:"uid" validate:"required"`
}

// GenerateToken mints an ID token for the given uid
func (h *DevTokenHandler) GenerateToken(c echo.Context) error {
	var req devTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	// Minting succeeds for any uid, so check the account exists first;
	// a typo'd uid should fail here, not at first API call.
	if _, err := h.firebaseAuth.GetUser(c.Request().Context(), req.UID); err != nil {
		return response.Error(c, errors.NotFound("No Firebase user with that uid", err))
	}

	customToken, err := h.firebaseAuth.GenerateToken(c.Request().Context(), req.UID)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to mint custom token", err))
	}

	idToken, err := h.exchangeCustomToken(customToken)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to exchange custom token", err))
	}

	return response.Success(c, map[string]string{
		"uid":   req.UID,
		"token": idToken,
	})
}

func (h *DevTokenHandler) exchangeCustomToken(customToken string) (string, error) {
	endpoint := fmt.Sprintf("%s?key=%s", h.endpoint, url.QueryEscape(h.apiKey))

	body := fmt.Sprintf(`{"token":%q,"returnSecureToken":true}`, customToken)
	resp, err := h.httpClient.Post(endpoint, "application/json", strings.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token exchange returned status %d", resp.StatusCode)
	}

	var result struct {
		IDToken string `json:"idToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	return result.IDToken, nil
}
