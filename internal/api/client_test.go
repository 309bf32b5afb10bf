package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/psyprep/psyprep/internal/exercise"
	"github.com/psyprep/psyprep/internal/session"
)

func TestFetchPrompts(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(map[string]any{
			"prompts": []string{"Fire", "River"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, StaticToken("tok-1"))
	prompts, err := c.FetchPrompts(context.Background(), exercise.WordAssociation)
	if err != nil {
		t.Fatalf("fetch prompts: %v", err)
	}
	if len(prompts) != 2 || prompts[0] != "Fire" {
		t.Errorf("prompts = %v", prompts)
	}
	if gotAuth != "Bearer tok-1" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotPath != "/api/v1/exercises/word-association/prompts" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestFetchPrompts_MalformedPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty array", `{"prompts": []}`},
		{"missing field", `{"items": ["Fire"]}`},
		{"wrong item type", `{"prompts": [1, 2]}`},
		{"empty string item", `{"prompts": [""]}`},
		{"not json", `<html>oops</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, StaticToken(""))
			_, err := c.FetchPrompts(context.Background(), exercise.WordAssociation)
			var malformed *ErrMalformedPayload
			if !errors.As(err, &malformed) {
				t.Errorf("err = %v, want *ErrMalformedPayload", err)
			}
		})
	}
}

func TestSaveSession(t *testing.T) {
	var gotBody saveSessionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/sessions" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"session_id": "sess-42"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, StaticToken("tok"))
	responses := []session.Response{
		{Prompt: "Fire", Text: "truck", TimeSpentSec: 3},
		{Prompt: "River", Text: "", TimeSpentSec: 15},
	}
	id, err := c.SaveSession(context.Background(), exercise.WordAssociation, responses)
	if err != nil {
		t.Fatalf("save session: %v", err)
	}
	if id != "sess-42" {
		t.Errorf("id = %q, want sess-42", id)
	}
	if gotBody.Exercise != exercise.WordAssociation || len(gotBody.Responses) != 2 {
		t.Errorf("request body = %+v", gotBody)
	}
}

func TestSaveSession_StatusClassification(t *testing.T) {
	tests := []struct {
		status   int
		wantAuth bool
	}{
		{http.StatusUnauthorized, true},
		{http.StatusForbidden, true},
		{http.StatusInternalServerError, false},
		{http.StatusBadGateway, false},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))

		c := NewClient(srv.URL, StaticToken("tok"))
		_, err := c.SaveSession(context.Background(), exercise.WordAssociation, nil)
		srv.Close()

		if err == nil {
			t.Fatalf("status %d: expected error", tt.status)
		}
		var unauth *ErrUnauthorized
		var server *ErrServer
		if tt.wantAuth && !errors.As(err, &unauth) {
			t.Errorf("status %d: err = %v, want *ErrUnauthorized", tt.status, err)
		}
		if !tt.wantAuth && !errors.As(err, &server) {
			t.Errorf("status %d: err = %v, want *ErrServer", tt.status, err)
		}
	}
}

func TestSaveSession_MissingSessionID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, StaticToken("tok"))
	_, err := c.SaveSession(context.Background(), exercise.WordAssociation, nil)
	var malformed *ErrMalformedPayload
	if !errors.As(err, &malformed) {
		t.Errorf("err = %v, want *ErrMalformedPayload", err)
	}
}

func TestAnalyzeSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/sessions/sess-42/analysis" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"session_id": "sess-42",
			"summary": "steady",
			"items": ["keeps calm", {"trait": "initiative", "observation": "acts first"}]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, StaticToken("tok"))
	rep, err := c.AnalyzeSession(context.Background(), "sess-42")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if rep.SessionID != "sess-42" || len(rep.Items) != 2 {
		t.Errorf("report = %+v", rep)
	}
}
