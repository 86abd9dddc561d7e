// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

package helpdesk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError represents a non-2xx response from the fix-flow-api
// service. The service returns either a JSON body with a "message"
// field or a plain-text body; both are captured in Message.
type APIError struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// Message is the error description from the service. Empty when
	// the service returned no usable body.
	Message string
}

func (err *APIError) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("helpdesk: HTTP %d: %s", err.StatusCode, http.StatusText(err.StatusCode))
	}
	return fmt.Sprintf("helpdesk: HTTP %d: %s", err.StatusCode, err.Message)
}

// parseAPIError builds an *APIError from a response body. The service
// is inconsistent about error bodies (JSON object, bare string, or
// nothing), so parsing is best-effort.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiError := &APIError{StatusCode: statusCode}

	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return apiError
	}

	var structured struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &structured); err == nil {
		switch {
		case structured.Message != "":
			apiError.Message = structured.Message
			return apiError
		case structured.Error != "":
			apiError.Message = structured.Error
			return apiError
		}
	}

	apiError.Message = trimmed
	return apiError
}

// IsUnauthorized reports whether err is a 401 response: the token is
// missing, expired, or rejected. The UI routes this back to sign-in.
func IsUnauthorized(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusUnauthorized
}

// IsForbidden reports whether err is a 403 response: the token is
// valid but the caller's role does not permit the action.
func IsForbidden(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusForbidden
}

// IsAuthFailure reports whether err is an authorization failure of
// either kind (401 or 403). Both are surfaced to the user as a
// generic session problem with no further distinction.
func IsAuthFailure(err error) bool {
	return IsUnauthorized(err) || IsForbidden(err)
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusNotFound
}

// ErrNotSignedIn is returned by authenticated calls made on a client
// with no token. It is a local failure: no request is issued.
var ErrNotSignedIn = errors.New("helpdesk: not signed in (no bearer token)")
