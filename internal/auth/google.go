package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const tokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// GoogleIdentity is the subset of the tokeninfo response we rely on.
type GoogleIdentity struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Aud     string `json:"aud"`
}

// GoogleVerifier validates Google ID tokens against a configured audience.
type GoogleVerifier struct {
	Audience string
	client   *http.Client
}

func NewGoogleVerifier(audience string) *GoogleVerifier {
	return &GoogleVerifier{
		Audience: audience,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// VerifyIDToken resolves the token through Google's tokeninfo endpoint and
// checks that it was issued for our client ID.
func (v *GoogleVerifier) VerifyIDToken(ctx context.Context, idToken string) (*GoogleIdentity, error) {
	if idToken == "" {
		return nil, errors.New("empty id token")
	}

	reqURL := tokenInfoURL + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidToken
	}

	var identity GoogleIdentity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("tokeninfo decode failed: %w", err)
	}

	if v.Audience != "" && identity.Aud != v.Audience {
		return nil, ErrInvalidToken
	}

	return &identity, nil
}
