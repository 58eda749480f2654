package web

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubServer fakes the handful of jury pages the engine touches.
type stubServer struct {
	mux *http.ServeMux

	mu          sync.Mutex
	deletePosts []string
	lastForm    map[string][]string
}

func newStubServer() *stubServer {
	return &stubServer{mux: http.NewServeMux()}
}

func (s *stubServer) recordForm(r *http.Request) {
	_ = r.ParseForm()
	s.mu.Lock()
	s.lastForm = r.PostForm
	s.mu.Unlock()
}

func (s *stubServer) form(key string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastForm[key]
}

func (s *stubServer) deletes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.deletePosts...)
}

func (s *stubServer) start(t *testing.T) *Client {
	server := httptest.NewServer(s.mux)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientOptions{
		Host:     server.URL,
		Username: "admin",
		Password: "secret",
	})
	require.NoError(t, err)
	return client
}

func (s *stubServer) page(path, body string) {
	s.mux.HandleFunc("GET "+path, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	})
}

func (s *stubServer) redirectOnPost(path, target string) {
	s.mux.HandleFunc("POST "+path, func(w http.ResponseWriter, r *http.Request) {
		s.recordForm(r)
		http.Redirect(w, r, target, http.StatusFound)
	})
}

func (s *stubServer) fail(pattern string, status int) {
	s.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
}

func (s *stubServer) recordDeletes() {
	s.mux.HandleFunc("POST /jury/users/{id}/delete", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.deletePosts = append(s.deletePosts, r.URL.Path)
		s.mu.Unlock()
	})
	s.mux.HandleFunc("POST /jury/teams/{id}/delete", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.deletePosts = append(s.deletePosts, r.URL.Path)
		s.mu.Unlock()
	})
}

const loginPage = `<form action="/login" method="post">
	<input type="hidden" name="_csrf_token" value="tok123">
	<input type="text" name="_username" value="">
	<input type="password" name="_password" value="">
</form>`

func TestLogin(t *testing.T) {
	stub := newStubServer()
	stub.page("/login", loginPage)
	stub.redirectOnPost("/login", "/jury")
	stub.page("/jury", `<h1>DOMjudge Jury interface</h1>`)
	client := stub.start(t)

	err := client.Login(context.Background())
	require.NoError(t, err)

	require.Equal(t, []string{"admin"}, stub.form("_username"))
	require.Equal(t, []string{"secret"}, stub.form("_password"))
	require.Equal(t, []string{"tok123"}, stub.form("_csrf_token"))
}

func TestLoginRejected(t *testing.T) {
	stub := newStubServer()
	stub.page("/login", loginPage)
	stub.redirectOnPost("/login", "/login")
	client := stub.start(t)

	err := client.Login(context.Background())
	require.ErrorIs(t, err, ErrLoginFailed)
	require.ErrorContains(t, err, "admin")
}

const addTeamPage = `<form action="/jury/teams/add" method="post">
	<input type="hidden" name="team[_token]" value="csrf-team">
	<input type="text" name="team[name]" value="">
	<input type="text" name="team[displayName]" value="">
	<select name="team[category]">
		<option value="2">Self-Registered</option>
		<option value="3" selected>Participants</option>
	</select>
	<select name="team[contests][]" multiple>
		<option value="1">Demo contest</option>
	</select>
</form>`

func TestCreateTeamAndUser(t *testing.T) {
	stub := newStubServer()
	stub.page("/jury/teams/add", addTeamPage)
	stub.redirectOnPost("/jury/teams/add", "/jury/teams/42")
	stub.page("/jury/teams/42", `<div class="container-fluid">
		<a href="/jury/users/77">alice</a>
	</div>`)
	client := stub.start(t)

	teamId, userId, err := client.CreateTeamAndUser(
		context.Background(),
		UserSeed{Username: "alice", Name: "Alice Liddell"},
		"3", "5", true,
	)
	require.NoError(t, err)
	require.Equal(t, "42", teamId)
	require.Equal(t, "77", userId)

	require.Equal(t, []string{"alice"}, stub.form("team[name]"))
	require.Equal(t, []string{"Alice Liddell"}, stub.form("team[displayName]"))
	require.Equal(t, []string{"5"}, stub.form("team[affiliation]"))
	require.Equal(t, []string{"1"}, stub.form("team[enabled]"))
	require.Equal(t, []string{"1"}, stub.form("team[addUserForTeam]"))
	require.Equal(t, []string{"alice"}, stub.form("team[users][0][username]"))
	require.Equal(t, []string{"csrf-team"}, stub.form("team[_token]"))
	// the unselected contests multi-select must not be submitted
	require.Empty(t, stub.form("team[contests][]"))
}

func TestCreateTeamAndUserRejected(t *testing.T) {
	stub := newStubServer()
	stub.page("/jury/teams/add", addTeamPage)
	stub.redirectOnPost("/jury/teams/add", "/jury/teams/add")
	client := stub.start(t)

	_, _, err := client.CreateTeamAndUser(
		context.Background(),
		UserSeed{Username: "alice", Name: "Alice Liddell"},
		"3", "5", true,
	)
	require.ErrorContains(t, err, "alice")
	require.ErrorContains(t, err, "rejected")
}

func TestCreateTeamAndUserMissingUserLink(t *testing.T) {
	stub := newStubServer()
	stub.page("/jury/teams/add", addTeamPage)
	stub.redirectOnPost("/jury/teams/add", "/jury/teams/42")
	stub.page("/jury/teams/42", `<div class="container-fluid"></div>`)
	client := stub.start(t)

	_, _, err := client.CreateTeamAndUser(
		context.Background(),
		UserSeed{Username: "alice"},
		"3", "5", true,
	)
	require.ErrorContains(t, err, "no user link")
}

func TestUpdateTeam(t *testing.T) {
	stub := newStubServer()
	stub.page("/jury/teams/42/edit", addTeamPage)
	stub.redirectOnPost("/jury/teams/42/edit", "/jury/teams/42")
	stub.page("/jury/teams/42", `<div class="container-fluid"></div>`)
	client := stub.start(t)

	err := client.UpdateTeam(
		context.Background(),
		"42",
		UserSeed{Username: "alice", Name: "Alice Liddell"},
		"3", "5", false,
	)
	require.NoError(t, err)
	require.Equal(t, []string{"0"}, stub.form("team[enabled]"))
	require.Empty(t, stub.form("team[addUserForTeam]"))
}

func TestUpdateTeamRejected(t *testing.T) {
	stub := newStubServer()
	stub.page("/jury/teams/42/edit", addTeamPage)
	stub.redirectOnPost("/jury/teams/42/edit", "/jury/teams/42/edit")
	client := stub.start(t)

	err := client.UpdateTeam(
		context.Background(),
		"42",
		UserSeed{Username: "alice"},
		"3", "5", true,
	)
	require.ErrorContains(t, err, "42")
}

const editUserPage = `<form action="" method="post">
	<input type="hidden" name="user[_token]" value="csrf-user">
	<input type="text" name="user[username]" value="alice">
	<input type="password" name="user[plainPassword]" value="">
</form>`

func TestSetUserPassword(t *testing.T) {
	stub := newStubServer()
	stub.page("/jury/users/77/edit", editUserPage)
	stub.redirectOnPost("/jury/users/77/edit", "/jury/users/77")
	stub.page("/jury/users/77", `ok`)
	client := stub.start(t)

	err := client.SetUserPassword(context.Background(), "77", "hunter2", []string{"3", "1"}, true)
	require.NoError(t, err)

	require.Equal(t, []string{"hunter2"}, stub.form("user[plainPassword]"))
	require.Equal(t, []string{"1"}, stub.form("user[enabled]"))
	require.Equal(t, []string{"3", "1"}, stub.form("user[user_roles][]"))
}

func TestSetUserPasswordRejected(t *testing.T) {
	stub := newStubServer()
	stub.page("/jury/users/77/edit", editUserPage)
	stub.redirectOnPost("/jury/users/77/edit", "/jury/users/77/edit")
	client := stub.start(t)

	err := client.SetUserPassword(context.Background(), "77", "hunter2", nil, true)
	require.ErrorContains(t, err, "77")
}

const userListPage = `<table class="data-table">
<thead><tr><th>ID</th><th>Username</th><th>Name</th><th>Actions</th></tr></thead>
<tbody>
<tr><td>1</td><td>alice</td><td>Alice</td>
	<td><a href="/jury/users/1/edit">edit</a> <a href="/jury/users/1/delete">delete</a></td></tr>
<tr><td>2</td><td>bob</td><td>Bob</td>
	<td><a href="/jury/users/2/edit">edit</a> <a href="/jury/users/2/delete">delete</a></td></tr>
</tbody>
</table>`

func TestDeleteUsersInclude(t *testing.T) {
	stub := newStubServer()
	stub.page("/jury/users", userListPage)
	stub.recordDeletes()
	client := stub.start(t)

	err := client.DeleteUsers(context.Background(), []string{"ALICE"}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"/jury/users/1/delete"}, stub.deletes())
}

func TestDeleteUsersExcludeWins(t *testing.T) {
	stub := newStubServer()
	stub.page("/jury/users", userListPage)
	stub.recordDeletes()
	client := stub.start(t)

	err := client.DeleteUsers(
		context.Background(),
		[]string{"alice", "bob"},
		[]string{"Bob"},
	)
	require.NoError(t, err)
	require.Equal(t, []string{"/jury/users/1/delete"}, stub.deletes())
}

func TestDeleteUsersNoMatch(t *testing.T) {
	stub := newStubServer()
	stub.page("/jury/users", userListPage)
	stub.recordDeletes()
	client := stub.start(t)

	err := client.DeleteUsers(context.Background(), []string{"alices"}, nil)
	require.ErrorContains(t, err, "no rows matched")
	require.ErrorContains(t, err, "Alice")
	require.Empty(t, stub.deletes())
}

const teamListPage = `<table class="data-table">
<thead><tr><th>ID</th><th>ICPC</th><th>Shortname</th><th>Name</th><th>Actions</th></tr></thead>
<tbody>
<tr><td>11</td><td></td><td>t1</td><td>Red Pandas</td>
	<td><a href="/jury/teams/11/delete">delete</a></td></tr>
<tr><td>12</td><td></td><td>t2</td><td>Blue Geese</td>
	<td><a href="/jury/teams/12/delete">delete</a></td></tr>
</tbody>
</table>`

func TestDeleteTeams(t *testing.T) {
	stub := newStubServer()
	stub.page("/jury/teams", teamListPage)
	stub.recordDeletes()
	client := stub.start(t)

	err := client.DeleteTeams(context.Background(), nil, []string{"red pandas"})
	require.NoError(t, err)
	require.Equal(t, []string{"/jury/teams/12/delete"}, stub.deletes())
}

func TestDeleteUsersBrokenTable(t *testing.T) {
	stub := newStubServer()
	stub.page("/jury/users", `<table><tbody><tr><td>1</td></tr></tbody></table>`)
	client := stub.start(t)

	err := client.DeleteUsers(context.Background(), nil, nil)
	require.ErrorContains(t, err, "columns")
}

func TestDeleteUsersListingServerError(t *testing.T) {
	stub := newStubServer()
	stub.fail("GET /jury/users", http.StatusInternalServerError)
	client := stub.start(t)

	// an error page must never be read as an empty listing
	err := client.DeleteUsers(context.Background(), nil, nil)
	require.ErrorContains(t, err, "500")
}

func TestDeleteUsersDeleteForbidden(t *testing.T) {
	stub := newStubServer()
	stub.page("/jury/users", userListPage)
	stub.fail("POST /jury/users/{id}/delete", http.StatusForbidden)
	client := stub.start(t)

	err := client.DeleteUsers(context.Background(), []string{"alice"}, nil)
	require.ErrorContains(t, err, "403")
	require.ErrorContains(t, err, "/jury/users/1/delete")
}

func TestLoginServerError(t *testing.T) {
	stub := newStubServer()
	stub.fail("GET /login", http.StatusBadGateway)
	client := stub.start(t)

	err := client.Login(context.Background())
	require.ErrorContains(t, err, "502")
}
