// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

package helpdesk

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fixflow-project/fixflow/lib/schema/ticket"
)

func TestSignInSendsJSONBody(t *testing.T) {
	var receivedPath, receivedBody, receivedAuth string
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		receivedPath = request.URL.Path
		receivedAuth = request.Header.Get("Authorization")
		buffer := make([]byte, 1024)
		n, _ := request.Body.Read(buffer)
		receivedBody = string(buffer[:n])
		writer.Write([]byte(`{"userId":9,"accessToken":"at","refreshToken":"rt"}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL, HTTPClient: server.Client()})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	tokens, err := client.SignIn(context.Background(), "dana@example.com", "hunter2")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	if receivedPath != "/users/security/sign-in" {
		t.Errorf("path = %q", receivedPath)
	}
	if receivedAuth != "" {
		t.Errorf("sign-in should not send Authorization, got %q", receivedAuth)
	}
	if receivedBody != `{"email":"dana@example.com","password":"hunter2"}` {
		t.Errorf("body = %s", receivedBody)
	}
	if tokens.UserID != 9 || tokens.AccessToken != "at" || tokens.RefreshToken != "rt" {
		t.Errorf("tokens = %+v", tokens)
	}
}

func TestSignInRejectsEmptyCredentialsLocally(t *testing.T) {
	client, err := NewClient(Config{BaseURL: "https://helpdesk.example.com"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.SignIn(context.Background(), "", "pw"); err == nil {
		t.Error("expected error for empty email")
	}
	if _, err := client.SignIn(context.Background(), "a@b.c", ""); err == nil {
		t.Error("expected error for empty password")
	}
}

func TestSignUpSendsJSONBody(t *testing.T) {
	var receivedBody string
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		buffer := make([]byte, 1024)
		n, _ := request.Body.Read(buffer)
		receivedBody = string(buffer[:n])
		writer.Write([]byte(`{"userId":10,"accessToken":"at","refreshToken":"rt"}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL, HTTPClient: server.Client()})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.SignUp(context.Background(), "dana", "dana@example.com", "hunter2"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if receivedBody != `{"username":"dana","email":"dana@example.com","password":"hunter2"}` {
		t.Errorf("body = %s", receivedBody)
	}
}

func TestListTicketsRoutes(t *testing.T) {
	var receivedPath string
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		receivedPath = request.URL.Path
		writer.Write([]byte(`[{"id":1,"title":"A","status":"Open"}]`))
	}))
	defer server.Close()

	client := newTestClient(t, server)

	tickets, err := client.ListTickets(context.Background())
	if err != nil {
		t.Fatalf("ListTickets: %v", err)
	}
	if receivedPath != "/main/requests" {
		t.Errorf("path = %q", receivedPath)
	}
	if len(tickets) != 1 || tickets[0].Title != "A" {
		t.Errorf("tickets = %+v", tickets)
	}

	if _, err := client.ListMyTickets(context.Background()); err != nil {
		t.Fatalf("ListMyTickets: %v", err)
	}
	if receivedPath != "/main/requests/user" {
		t.Errorf("path = %q", receivedPath)
	}
}

func TestCreateTicketQueryEncoding(t *testing.T) {
	var received *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		received = request.Clone(context.Background())
		writer.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	err := client.CreateTicket(context.Background(), "Broken screen", "Cracked after drop & fall", 3, ticket.PriorityHigh)
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	if received.Method != http.MethodPost || received.URL.Path != "/main/requests" {
		t.Errorf("request = %s %s", received.Method, received.URL.Path)
	}
	query := received.URL.Query()
	if query.Get("title") != "Broken screen" {
		t.Errorf("title = %q", query.Get("title"))
	}
	if query.Get("desc") != "Cracked after drop & fall" {
		t.Errorf("desc = %q", query.Get("desc"))
	}
	if query.Get("catId") != "3" || query.Get("priority") != "High" {
		t.Errorf("catId = %q, priority = %q", query.Get("catId"), query.Get("priority"))
	}
}

func TestCreateTicketLocalValidation(t *testing.T) {
	requestCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requestCount++
	}))
	defer server.Close()

	client := newTestClient(t, server)
	ctx := context.Background()

	if err := client.CreateTicket(ctx, "", "desc", 1, ticket.PriorityLow); err == nil {
		t.Error("expected error for empty title")
	}
	if err := client.CreateTicket(ctx, "title", "  ", 1, ticket.PriorityLow); err == nil {
		t.Error("expected error for blank description")
	}
	if err := client.CreateTicket(ctx, "title", "desc", 0, ticket.PriorityLow); err == nil {
		t.Error("expected error for missing category")
	}
	if err := client.CreateTicket(ctx, "title", "desc", 1, ticket.Priority("Urgent")); err == nil {
		t.Error("expected error for unknown priority")
	}
	if requestCount != 0 {
		t.Errorf("request count = %d, want 0", requestCount)
	}
}

func TestUpdateStatusRoute(t *testing.T) {
	var received *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		received = request.Clone(context.Background())
	}))
	defer server.Close()

	client := newTestClient(t, server)
	if err := client.UpdateStatus(context.Background(), 41, ticket.StatusInProgress); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	if received.Method != http.MethodPatch || received.URL.Path != "/main/requests/41/status" {
		t.Errorf("request = %s %s", received.Method, received.URL.Path)
	}
	if received.URL.Query().Get("status") != "InProgress" {
		t.Errorf("status = %q", received.URL.Query().Get("status"))
	}
}

func TestSubmitFeedbackRejectsOutOfRangeRatingLocally(t *testing.T) {
	requestCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requestCount++
	}))
	defer server.Close()

	client := newTestClient(t, server)
	for _, rating := range []int{0, 6} {
		if err := client.SubmitFeedback(context.Background(), 5, rating, "text"); err == nil {
			t.Errorf("SubmitFeedback(rating=%d) = nil, want error", rating)
		}
	}
	if requestCount != 0 {
		t.Errorf("request count = %d, want 0 (invalid rating must not reach the network)", requestCount)
	}
}

func TestSubmitFeedbackRoute(t *testing.T) {
	var received *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		received = request.Clone(context.Background())
	}))
	defer server.Close()

	client := newTestClient(t, server)
	if err := client.SubmitFeedback(context.Background(), 5, 4, "great support"); err != nil {
		t.Fatalf("SubmitFeedback: %v", err)
	}
	if received.URL.Path != "/main/requests/5/feedback" {
		t.Errorf("path = %q", received.URL.Path)
	}
	query := received.URL.Query()
	if query.Get("rating") != "4" || query.Get("text") != "great support" {
		t.Errorf("query = %v", query)
	}
}

func TestListCommentsSortsByCreatedAt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		// Deliberately out of order: the server guarantees nothing.
		writer.Write([]byte(`[
			{"id":2,"comment":"second","createdAt":"2024-02-01T10:00:00Z"},
			{"id":1,"comment":"first","createdAt":"2024-02-01T09:00:00Z"},
			{"id":3,"comment":"third","createdAt":"2024-02-01T11:00:00Z"}
		]`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	comments, err := client.ListComments(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}

	var gotIDs []int
	for _, comment := range comments {
		gotIDs = append(gotIDs, comment.ID)
	}
	want := []int{1, 2, 3}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("comment order = %v, want %v", gotIDs, want)
		}
	}
}

func TestPostCommentReturnsCreated(t *testing.T) {
	var received *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		received = request.Clone(context.Background())
		writer.Write([]byte(`{"id":12,"comment":"any update?","createdAt":"2024-02-05T09:00:00Z"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	created, err := client.PostComment(context.Background(), 7, "any update?")
	if err != nil {
		t.Fatalf("PostComment: %v", err)
	}

	if received.URL.Path != "/main/requests/7/commands" {
		t.Errorf("path = %q", received.URL.Path)
	}
	if received.URL.Query().Get("command") != "any update?" {
		t.Errorf("command = %q", received.URL.Query().Get("command"))
	}
	if created.ID != 12 || created.Text != "any update?" {
		t.Errorf("created = %+v", created)
	}
}

func TestPostCommentRejectsBlankTextLocally(t *testing.T) {
	client, err := NewClient(Config{BaseURL: "https://helpdesk.example.com", Token: "t"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.PostComment(context.Background(), 7, "   "); err == nil {
		t.Error("expected error for blank comment")
	}
}

func TestListCategories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/main/categories" {
			t.Errorf("path = %q", request.URL.Path)
		}
		writer.Write([]byte(`[{"id":1,"name":"Hardware"},{"id":2,"name":"Network"}]`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	categories, err := client.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(categories) != 2 || categories[1].Name != "Network" {
		t.Errorf("categories = %+v", categories)
	}
}
