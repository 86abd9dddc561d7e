// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

package helpdesk

import (
	"context"

	"github.com/fixflow-project/fixflow/lib/schema/ticket"
)

// CurrentUser returns the account the bearer token belongs to. The
// user's role drives which tickets are visible and which actions the
// UI offers.
func (client *Client) CurrentUser(ctx context.Context) (*ticket.User, error) {
	var user ticket.User
	if err := client.get(ctx, "/main/user", &user); err != nil {
		return nil, err
	}
	return &user, nil
}
