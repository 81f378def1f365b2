package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultToolkitURL = "https://identitytoolkit.googleapis.com"

// GoogleVerifier resolves ID tokens against the Identity Toolkit
// accounts:lookup endpoint, which is what the board members' Firebase
// login page issues tokens for.
type GoogleVerifier struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewGoogleVerifier(apiKey, baseURL string) *GoogleVerifier {
	if baseURL == "" {
		baseURL = defaultToolkitURL
	}
	return &GoogleVerifier{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type lookupRequest struct {
	IDToken string `json:"idToken"`
}

type lookupResponse struct {
	Users []struct {
		LocalID     string `json:"localId"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
	} `json:"users"`
}

func (v *GoogleVerifier) VerifyIDToken(ctx context.Context, idToken string) (*Identity, error) {
	if idToken == "" {
		return nil, ErrInvalidToken
	}

	body, err := json.Marshal(lookupRequest{IDToken: idToken})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/accounts:lookup?key=%s", v.baseURL, v.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity lookup returned %d: %w", resp.StatusCode, ErrInvalidToken)
	}

	var decoded lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("identity lookup decode: %w", err)
	}
	if len(decoded.Users) == 0 {
		return nil, ErrInvalidToken
	}

	user := decoded.Users[0]
	return &Identity{
		UID:         user.LocalID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}, nil
}
