// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

package helpdesk

import (
	"context"

	"github.com/fixflow-project/fixflow/lib/schema/ticket"
)

// ListCategories returns the ticket categories. Categories are
// reference data: the UI loads them once per screen activation and
// treats them as immutable for the session.
func (client *Client) ListCategories(ctx context.Context) ([]ticket.Category, error) {
	var categories []ticket.Category
	if err := client.get(ctx, "/main/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}
