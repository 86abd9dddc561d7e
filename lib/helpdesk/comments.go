// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

package helpdesk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/fixflow-project/fixflow/lib/netutil"
	"github.com/fixflow-project/fixflow/lib/schema/ticket"
)

// ListComments fetches a ticket's discussion thread, sorted by
// creation time ascending. The service does not guarantee order, so
// sorting happens here because every consumer wants chronological display.
// The sort key is the ISO-8601 string, which orders lexicographically.
func (client *Client) ListComments(ctx context.Context, ticketID int) ([]ticket.Comment, error) {
	var comments []ticket.Comment
	if err := client.get(ctx, "/main/requests/"+strconv.Itoa(ticketID)+"/commands", &comments); err != nil {
		return nil, err
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt < comments[j].CreatedAt
	})
	return comments, nil
}

// PostComment appends a comment to a ticket's thread and returns the
// created comment, complete with server-assigned id and timestamp.
// The caller appends the returned value to its local thread rather
// than re-fetching.
func (client *Client) PostComment(ctx context.Context, ticketID int, text string) (*ticket.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("helpdesk: comment text is required")
	}

	query := url.Values{}
	query.Set("command", text)

	response, err := client.do(ctx, http.MethodPost, "/main/requests/"+strconv.Itoa(ticketID)+"/commands?"+query.Encode(), nil, true)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	var created ticket.Comment
	if err := netutil.DecodeResponse(response.Body, &created); err != nil {
		return nil, fmt.Errorf("helpdesk: decoding created comment: %w", err)
	}
	return &created, nil
}
