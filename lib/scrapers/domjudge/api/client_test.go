package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func startStub(t *testing.T, mux *http.ServeMux) *Client {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok || username != "admin" || password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(ClientOptions{
		Host:     server.URL,
		Username: "admin",
		Password: "secret",
	})
	require.NoError(t, err)
	return client
}

func TestVersion(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v4/version", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"api_version": 4}`)
	})
	client := startStub(t, mux)

	version, err := client.Version(context.Background())
	require.NoError(t, err)
	require.Equal(t, "4", version.ApiVersion.String())
}

func TestBadCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(ClientOptions{Host: server.URL, Username: "x", Password: "y"})
	require.NoError(t, err)

	_, err = client.Version(context.Background())
	require.ErrorContains(t, err, "401")
}

func TestUsers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v4/users", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"id":"1","username":"alice","name":"Alice","roles":["team"],"team_id":"3","enabled":true},
			{"id":"2","username":"bob","name":"Bob","roles":["admin","jury"],"enabled":false}
		]`)
	})
	client := startStub(t, mux)

	users, err := client.Users(context.Background())
	require.NoError(t, err)

	expected := []User{
		{Id: "1", Username: "alice", Name: "Alice", Roles: []string{"team"}, TeamId: "3", Enabled: true},
		{Id: "2", Username: "bob", Name: "Bob", Roles: []string{"admin", "jury"}},
	}
	if diff := cmp.Diff(expected, users); diff != "" {
		t.Fatalf("unexpected users (-want +got):\n%s", diff)
	}
}

func TestTeams(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v4/contests/7/teams", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id":"11","name":"t1","display_name":"Red Pandas","group_ids":["3"]}]`)
	})
	client := startStub(t, mux)

	teams, err := client.Teams(context.Background(), "7")
	require.NoError(t, err)
	require.Equal(t, []Team{
		{Id: "11", Name: "t1", DisplayName: "Red Pandas", GroupIds: []string{"3"}},
	}, teams)
}

func TestProblems(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v4/contests/7/problems", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"ordinal":0,"id":"p1","short_name":"hello","label":"A","time_limit":2.5,"name":"Hello World","test_data_count":3}]`)
	})
	client := startStub(t, mux)

	problems, err := client.Problems(context.Background(), "7")
	require.NoError(t, err)
	require.Equal(t, []Problem{{
		Ordinal:       0,
		Id:            "p1",
		ShortName:     "hello",
		Label:         "A",
		TimeLimit:     2.5,
		Name:          "Hello World",
		TestDataCount: 3,
	}}, problems)
}

func TestSubmissionsFilter(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v4/contests/7/submissions", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		require.Equal(t, "cpp", query.Get("language_id"))
		require.Equal(t, []string{"101", "102"}, query["ids[]"])
		fmt.Fprint(w, `[{"id":"101","language_id":"cpp","problem_id":"p1","team_id":"11"}]`)
	})
	client := startStub(t, mux)

	submissions, err := client.Submissions(context.Background(), "7", SubmissionFilter{
		LanguageId: "cpp",
		Ids:        []string{"101", "102"},
	})
	require.NoError(t, err)
	require.Len(t, submissions, 1)
	require.Equal(t, "101", submissions[0].Id)
}

func TestSubmissionSourceName(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v4/contests/7/submissions/101/source-code", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id":"1","submission_id":"101","filename":"solution.cpp","source":"aW50"}]`)
	})
	client := startStub(t, mux)

	file, err := client.SubmissionSourceName(context.Background(), "7", "101")
	require.NoError(t, err)
	require.Equal(t, "solution.cpp", file.Filename)
}

func TestSubmissionSourceNameEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v4/contests/7/submissions/101/source-code", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	client := startStub(t, mux)

	_, err := client.SubmissionSourceName(context.Background(), "7", "101")
	require.ErrorContains(t, err, "no source files")
}

func TestDownloadSubmissionFiles(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v4/contests/7/submissions/101/files", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/zip")
		w.Write([]byte("PK\x03\x04stub"))
	})
	client := startStub(t, mux)

	dir := filepath.Join(t.TempDir(), "out", "nested")
	dest, err := client.DownloadSubmissionFiles(context.Background(), "7", "101", "solution", dir)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "101-solution.zip"), dest)

	contents, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, []byte("PK\x03\x04stub"), contents)
}
