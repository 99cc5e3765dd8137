package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	contractx "github.com/naruebet/memochat/agent/contract"
)

func TestMem0ClientSearch(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		fmt.Fprint(w, `{"results":[{"memory":"name is Priya"},{"memory":"vegetarian"}]}`)
	}))
	t.Cleanup(server.Close)

	client, err := NewMem0Client(
		Config{BaseURL: server.URL, Token: "secret"},
		WithHTTPClient(server.Client()),
	)
	if err != nil {
		t.Fatalf("NewMem0Client() error = %v", err)
	}

	facts, err := client.Search(context.Background(), "what is my name", "user-1", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if gotPath != "/v1/memories/search/" {
		t.Fatalf("path = %s", gotPath)
	}
	if gotAuth != "Token secret" {
		t.Fatalf("auth header = %q", gotAuth)
	}
	if gotBody["user_id"] != "user-1" || gotBody["limit"] != float64(5) {
		t.Fatalf("unexpected body: %#v", gotBody)
	}
	if len(facts) != 2 || facts[0].Text != "name is Priya" {
		t.Fatalf("unexpected facts: %#v", facts)
	}
}

func TestMem0ClientAdd(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotBody addRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		fmt.Fprint(w, `{"results":[]}`)
	}))
	t.Cleanup(server.Close)

	client, err := NewMem0Client(
		Config{BaseURL: server.URL, Token: "secret"},
		WithHTTPClient(server.Client()),
	)
	if err != nil {
		t.Fatalf("NewMem0Client() error = %v", err)
	}

	err = client.Add(context.Background(), "user-1", []contractx.InteractionMessage{
		{Role: "user", Content: "my name is Priya"},
		{Role: "assistant", Content: "Nice to meet you!"},
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if gotPath != "/v1/memories/" {
		t.Fatalf("path = %s", gotPath)
	}
	if gotBody.UserID != "user-1" || len(gotBody.Messages) != 2 {
		t.Fatalf("unexpected body: %#v", gotBody)
	}
}

func TestMem0ClientNon2xxIsError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"invalid token"}`, http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	client, err := NewMem0Client(
		Config{BaseURL: server.URL, Token: "secret"},
		WithHTTPClient(server.Client()),
	)
	if err != nil {
		t.Fatalf("NewMem0Client() error = %v", err)
	}

	if _, err := client.Search(context.Background(), "long enough query", "user-1", 5); err == nil {
		t.Fatal("expected error for 401 response")
	}
}
