package github_test

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	githubinfra "github.com/vangberg/issuerizer/pkg/infra/github"

	"github.com/vangberg/issuerizer/pkg/domain/model"
	"github.com/vangberg/issuerizer/pkg/domain/types"
)

func testRef() *model.IssueRef {
	return &model.IssueRef{Owner: "test-owner", Repo: "test-repo", Number: 5}
}

func TestClient_GetIssueThread(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/test-owner/test-repo/issues/5", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"number": 5,
			"title": "Flaky test on windows",
			"body": "The test fails intermittently.",
			"state": "open",
			"user": {"login": "alice"},
			"html_url": "https://github.com/test-owner/test-repo/issues/5",
			"created_at": "2024-01-02T15:04:05Z"
		}`))
	})
	mux.HandleFunc("GET /repos/test-owner/test-repo/issues/5/comments", func(w http.ResponseWriter, r *http.Request) {
		gt.Equal(t, r.URL.Query().Get("sort"), "created")
		gt.Equal(t, r.URL.Query().Get("direction"), "asc")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"user": {"login": "bob"}, "body": "Repro on my machine too.", "html_url": "https://github.com/test-owner/test-repo/issues/5#issuecomment-1", "created_at": "2024-01-03T10:00:00Z"},
			{"user": {"login": "alice"}, "body": "Fixed by pinning the clock.", "html_url": "https://github.com/test-owner/test-repo/issues/5#issuecomment-2", "created_at": "2024-01-04T11:00:00Z"}
		]`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	client := gt.R1(githubinfra.NewClient("test-token", githubinfra.WithBaseURL(server.URL))).NoError(t)
	thread := gt.R1(client.GetIssueThread(t.Context(), testRef())).NoError(t)

	gt.Equal(t, thread.Title, "Flaky test on windows")
	gt.Equal(t, thread.Body, "The test fails intermittently.")
	gt.Equal(t, thread.State, "open")
	gt.Equal(t, thread.Author, "alice")
	gt.Equal(t, len(thread.Comments), 2)
	gt.Equal(t, thread.Comments[0].Author, "bob")
	gt.Equal(t, thread.Comments[1].Author, "alice")
	gt.Equal(t, thread.Comments[1].Body, "Fixed by pinning the clock.")
}

func TestClient_GetIssueThread_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Not Found"}`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	client := gt.R1(githubinfra.NewClient("test-token", githubinfra.WithBaseURL(server.URL))).NoError(t)
	_, err := client.GetIssueThread(t.Context(), testRef())
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.TagFetch))
}

func TestClient_GetReadme(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /repos/test-owner/test-repo/readme", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			encoded := base64.StdEncoding.EncodeToString([]byte("# test-repo\n\nA test repository."))
			_ = json.NewEncoder(w).Encode(map[string]string{
				"type":     "file",
				"encoding": "base64",
				"name":     "README.md",
				"content":  encoded,
			})
		})

		server := httptest.NewServer(mux)
		defer server.Close()

		client := gt.R1(githubinfra.NewClient("test-token", githubinfra.WithBaseURL(server.URL))).NoError(t)
		readme := gt.R1(client.GetReadme(t.Context(), testRef())).NoError(t)
		gt.Equal(t, readme, "# test-repo\n\nA test repository.")
	})

	t.Run("missing README is not an error", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message": "Not Found"}`))
		})

		server := httptest.NewServer(mux)
		defer server.Close()

		client := gt.R1(githubinfra.NewClient("test-token", githubinfra.WithBaseURL(server.URL))).NoError(t)
		readme := gt.R1(client.GetReadme(t.Context(), testRef())).NoError(t)
		gt.Equal(t, readme, "")
	})
}

func TestClient_UpdateIssueBody(t *testing.T) {
	var gotBody string
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /repos/test-owner/test-repo/issues/5", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Body string `json:"body"`
		}
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotBody = req.Body
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"number": 5}`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	client := gt.R1(githubinfra.NewClient("test-token", githubinfra.WithBaseURL(server.URL))).NoError(t)
	gt.NoError(t, client.UpdateIssueBody(t.Context(), testRef(), "new body text"))
	gt.Equal(t, gotBody, "new body text")
}

func TestClient_UpdateIssueBody_Forbidden(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message": "Forbidden"}`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	client := gt.R1(githubinfra.NewClient("test-token", githubinfra.WithBaseURL(server.URL))).NoError(t)
	err := client.UpdateIssueBody(t.Context(), testRef(), "new body text")
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.TagUpdate))
}
