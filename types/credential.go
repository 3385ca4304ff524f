package types

import (
	"encoding/json"
	"time"

	"golang.org/x/oauth2"
)

// Credential is the OAuth2 token bundle used by generated scripts to reach
// the calendar API. The JSON layout matches google-auth's authorized user
// file so a Python script can load token.json directly.
type Credential struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	TokenURI     string    `json:"token_uri"`
	ClientID     string    `json:"client_id"`
	ClientSecret string    `json:"client_secret"`
	Scopes       []string  `json:"scopes"`
	Expiry       time.Time `json:"expiry"`
}

// MarshalJSON leaves out expiry when it is unset; google-auth cannot handle year 1.
func (c Credential) MarshalJSON() ([]byte, error) {
	type credential Credential
	out := struct {
		credential
		Expiry *time.Time `json:"expiry,omitempty"`
	}{credential: credential(c)}
	if !c.Expiry.IsZero() {
		expiry := c.Expiry
		out.Expiry = &expiry
	}
	return json.Marshal(out)
}

// Complete reports whether every field needed to rebuild the credential is present.
func (c *Credential) Complete() bool {
	if c == nil {
		return false
	}
	return c.Token != "" &&
		c.RefreshToken != "" &&
		c.TokenURI != "" &&
		c.ClientID != "" &&
		c.ClientSecret != ""
}

// Valid reports whether the access token is present and not expired.
func (c *Credential) Valid() bool {
	if c == nil {
		return false
	}
	return c.OAuth2Token().Valid()
}

func (c *Credential) OAuth2Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.Token,
		RefreshToken: c.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       c.Expiry,
	}
}

// NewCredential builds a Credential from a token exchange result and the client config.
func NewCredential(token *oauth2.Token, conf *oauth2.Config) *Credential {
	scopes := make([]string, len(conf.Scopes))
	copy(scopes, conf.Scopes)
	return &Credential{
		Token:        token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenURI:     conf.Endpoint.TokenURL,
		ClientID:     conf.ClientID,
		ClientSecret: conf.ClientSecret,
		Scopes:       scopes,
		Expiry:       token.Expiry.UTC(),
	}
}

// CalendarInfo describes the primary calendar a credential reaches
type CalendarInfo struct {
	ID       string `json:"id"`
	Summary  string `json:"summary"`
	TimeZone string `json:"time_zone"`
}
