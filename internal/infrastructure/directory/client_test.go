package directory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestServer(t *testing.T, known uuid.UUID) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/user/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("userId") != known.String() {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"user_id": %q,
			"user_name": "casey",
			"first_name": "Casey",
			"last_name": "Doe",
			"email": "casey@example.com",
			"skills_offered": [{"skill_name": "Go"}, {"skill_name": "  "}],
			"skills_wanted": [{"skill_name": " Rust "}]
		}`, known)
	})
	mux.HandleFunc("/v1/user/profile/all", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "0" {
			fmt.Fprintf(w, `{"profiles": [{"user_id": %q, "user_name": "casey"}], "has_next": true}`, known)
			return
		}
		fmt.Fprint(w, `{"profiles": [], "has_next": false}`)
	})
	mux.HandleFunc("/v1/user/profile/credits/add", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.URL.Query().Get("amount") == "0" {
			http.Error(w, "amount must be positive", http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	return httptest.NewServer(mux)
}

func TestGetProfile(t *testing.T) {
	known := uuid.New()
	srv := newTestServer(t, known)
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, log.New(io.Discard, "", 0))

	p, err := c.GetProfile(context.Background(), known)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.UserID != known || p.UserName != "casey" {
		t.Fatalf("unexpected profile: %+v", p)
	}
	if len(p.SkillsOffered) != 1 || p.SkillsOffered[0] != "Go" {
		t.Fatalf("expected blank skill names dropped, got %v", p.SkillsOffered)
	}
	if len(p.SkillsWanted) != 1 || p.SkillsWanted[0] != "Rust" {
		t.Fatalf("expected skill names trimmed, got %v", p.SkillsWanted)
	}

	if _, err := c.GetProfile(context.Background(), uuid.New()); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestListProfiles(t *testing.T) {
	known := uuid.New()
	srv := newTestServer(t, known)
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, log.New(io.Discard, "", 0))

	pg, err := c.ListProfiles(context.Background(), 0, 50)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(pg.Profiles) != 1 || pg.Profiles[0].UserID != known {
		t.Fatalf("unexpected page: %+v", pg)
	}
	if !pg.HasNext {
		t.Fatalf("expected has_next=true on page 0")
	}

	pg, err = c.ListProfiles(context.Background(), 1, 50)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(pg.Profiles) != 0 || pg.HasNext {
		t.Fatalf("expected empty final page, got %+v", pg)
	}
}

func TestAddCredits(t *testing.T) {
	known := uuid.New()
	srv := newTestServer(t, known)
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, log.New(io.Discard, "", 0))

	if err := c.AddCredits(context.Background(), known, 1); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := c.AddCredits(context.Background(), known, 0); err == nil {
		t.Fatalf("expected error from 4xx response")
	}
}

func TestNewClient_EmptyBaseURL(t *testing.T) {
	if c := NewClient("  ", time.Second, nil); c != nil {
		t.Fatalf("expected nil client for empty base URL")
	}
}
