// Package token inspects and verifies the ID tokens returned by the login flow.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-okta-login/internal/errors"
	"github.com/jrsteele09/go-okta-login/internal/utils"
)

// IDClaims are the identity claims read from an ID token for display.
type IDClaims struct {
	Subject           string    `json:"sub"`
	Issuer            string    `json:"iss"`
	Audience          []string  `json:"aud"`
	Email             string    `json:"email,omitempty"`
	Name              string    `json:"name,omitempty"`
	PreferredUsername string    `json:"preferred_username,omitempty"`
	AuthMethods       []string  `json:"amr,omitempty"`
	IssuedAt          time.Time `json:"iat"`
	ExpiresAt         time.Time `json:"exp"`
}

// Expired reports whether the token's exp lies before now.
func (c *IDClaims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// ParseClaims decodes raw WITHOUT checking its signature. Only use the result
// for display, or after the token was verified with a Verifier.
func ParseClaims(raw string) (*IDClaims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, mc); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidToken, "[token.ParseClaims] %v", err)
	}

	c := &IDClaims{
		Email:             stringClaim(mc, "email"),
		Name:              stringClaim(mc, "name"),
		PreferredUsername: stringClaim(mc, "preferred_username"),
	}

	var err error
	if c.Subject, err = mc.GetSubject(); err != nil {
		return nil, claimErr("sub", err)
	}
	if c.Issuer, err = mc.GetIssuer(); err != nil {
		return nil, claimErr("iss", err)
	}
	aud, err := mc.GetAudience()
	if err != nil {
		return nil, claimErr("aud", err)
	}
	c.Audience = []string(aud)

	if iat, err := mc.GetIssuedAt(); err != nil {
		return nil, claimErr("iat", err)
	} else if iat != nil {
		c.IssuedAt = iat.Time
	}
	if exp, err := mc.GetExpirationTime(); err != nil {
		return nil, claimErr("exp", err)
	} else if exp != nil {
		c.ExpiresAt = exp.Time
	}

	if amr, ok := mc["amr"].([]any); ok {
		c.AuthMethods = utils.ToStringSlice(amr)
	}
	return c, nil
}

func stringClaim(mc jwt.MapClaims, key string) string {
	s, _ := mc[key].(string)
	return s
}

func claimErr(name string, err error) error {
	return fmt.Errorf("[token.ParseClaims] claim %s: %w: %v", name, errors.ErrInvalidToken, err)
}
