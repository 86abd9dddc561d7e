// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

package helpdesk

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/fixflow-project/fixflow/lib/netutil"
)

// Tokens is the service's response to a successful sign-in or
// sign-up: the authenticated user's id plus the access and refresh
// token pair. The refresh token is persisted alongside the access
// token but the service exposes no refresh endpoint yet; an expired
// access token means signing in again.
type Tokens struct {
	UserID       int    `json:"userId"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// SignIn exchanges email + password for a token pair. Works on an
// unauthenticated client. A 401 or 403 response means the credentials
// were rejected; the caller surfaces that as "invalid credentials"
// without further distinction.
func (client *Client) SignIn(ctx context.Context, email, password string) (*Tokens, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("helpdesk: email and password are required")
	}

	requestBody := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	response, err := client.do(ctx, http.MethodPost, "/users/security/sign-in", requestBody, false)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	var tokens Tokens
	if err := netutil.DecodeResponse(response.Body, &tokens); err != nil {
		return nil, fmt.Errorf("helpdesk: decoding sign-in response: %w", err)
	}
	return &tokens, nil
}

// SignUp registers a new employee account and signs it in. Works on
// an unauthenticated client.
func (client *Client) SignUp(ctx context.Context, username, email, password string) (*Tokens, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("helpdesk: username, email, and password are required")
	}

	requestBody := struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Username: username, Email: email, Password: password}

	response, err := client.do(ctx, http.MethodPost, "/users/security/sign-up", requestBody, false)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	var tokens Tokens
	if err := netutil.DecodeResponse(response.Body, &tokens); err != nil {
		return nil, fmt.Errorf("helpdesk: decoding sign-up response: %w", err)
	}
	return &tokens, nil
}
