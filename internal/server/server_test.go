package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doJSON(t *testing.T, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	_, app, _ := testServer(t)

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, raw
}

func TestAPI_PostLifecycle(t *testing.T) {
	_, admin := createUser(t, "admin")
	_, authorToken := createUser(t, "user")

	// Author submits a post; it starts pending.
	resp, raw := doJSON(t, http.MethodPost, "/api/posts", authorToken, map[string]interface{}{
		"title":    "Primeiro banho do Thor",
		"content":  "Ele odiou cada segundo.",
		"category": "Cachorros",
		"tags":     []string{"Filhote", "banho"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var created struct {
		ID     uint   `json:"id"`
		Status string `json:"status"`
		Tags   []struct {
			Name string `json:"name"`
		} `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(raw, &created))
	assert.Equal(t, "pending", created.Status)
	require.Len(t, created.Tags, 2)
	assert.Equal(t, "filhote", created.Tags[0].Name)

	// Pending posts are not in the public listing.
	resp, raw = doJSON(t, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listing []struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &listing))
	for _, p := range listing {
		assert.NotEqual(t, created.ID, p.ID)
	}

	// A regular user cannot approve.
	resp, _ = doJSON(t, http.MethodPost,
		postPath(created.ID, "approve"), authorToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The admin approves.
	resp, raw = doJSON(t, http.MethodPost,
		postPath(created.ID, "approve"), admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var approved struct {
		Status     string `json:"status"`
		ReviewedAt string `json:"reviewed_at"`
	}
	require.NoError(t, json.Unmarshal(raw, &approved))
	assert.Equal(t, "approved", approved.Status)
	assert.NotEmpty(t, approved.ReviewedAt)

	// Anonymous readers see the post but not the review metadata.
	resp, raw = doJSON(t, http.MethodGet, postPath(created.ID, ""), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var anon map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &anon))
	assert.NotContains(t, anon, "reviewed_by")
	assert.NotContains(t, anon, "reviewed_at")

	// The author sees who reviewed their post.
	resp, raw = doJSON(t, http.MethodGet, postPath(created.ID, ""), authorToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var own map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &own))
	assert.Contains(t, own, "reviewed_at")

	// Like toggling flips state and reports the count.
	resp, raw = doJSON(t, http.MethodPost, postPath(created.ID, "like"), authorToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var like struct {
		Liked bool  `json:"liked"`
		Count int64 `json:"likes_count"`
	}
	require.NoError(t, json.Unmarshal(raw, &like))
	assert.True(t, like.Liked)
	assert.EqualValues(t, 1, like.Count)

	resp, raw = doJSON(t, http.MethodPost, postPath(created.ID, "like"), authorToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &like))
	assert.False(t, like.Liked)
	assert.EqualValues(t, 0, like.Count)

	// Comments require content and come back oldest first.
	resp, _ = doJSON(t, http.MethodPost, postPath(created.ID, "comments"), authorToken,
		map[string]string{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, postPath(created.ID, "comments"), authorToken,
		map[string]string{"content": "que fofura"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw = doJSON(t, http.MethodGet, postPath(created.ID, "comments"), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var comments []struct {
		Content string `json:"content"`
	}
	require.NoError(t, json.Unmarshal(raw, &comments))
	require.Len(t, comments, 1)
	assert.Equal(t, "que fofura", comments[0].Content)

	// Featuring promotes the post into the featured slot.
	resp, raw = doJSON(t, http.MethodPut, postPath(created.ID, "featured"), admin,
		map[string]bool{"featured": true})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	resp, raw = doJSON(t, http.MethodGet, "/api/posts/featured", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var featured struct {
		ID         uint `json:"id"`
		IsFeatured bool `json:"is_featured"`
	}
	require.NoError(t, json.Unmarshal(raw, &featured))
	assert.Equal(t, created.ID, featured.ID)
	assert.True(t, featured.IsFeatured)

	// The featured post is excluded from the recent feed.
	resp, raw = doJSON(t, http.MethodGet, "/api/posts/recent", authorToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var recent []struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &recent))
	for _, p := range recent {
		assert.NotEqual(t, created.ID, p.ID)
	}
}

func TestAPI_RejectRequiresReason(t *testing.T) {
	_, admin := createUser(t, "admin")
	_, authorToken := createUser(t, "user")

	resp, raw := doJSON(t, http.MethodPost, "/api/posts", authorToken, map[string]interface{}{
		"title":    "Gato na caixa",
		"content":  "Sempre a caixa, nunca a cama.",
		"category": "Gatos",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &created))

	resp, _ = doJSON(t, http.MethodPost, postPath(created.ID, "reject"), admin,
		map[string]string{"reason": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, raw = doJSON(t, http.MethodPost, postPath(created.ID, "reject"), admin,
		map[string]string{"reason": "fora do tema"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rejected struct {
		Status          string `json:"status"`
		RejectionReason string `json:"rejection_reason"`
	}
	require.NoError(t, json.Unmarshal(raw, &rejected))
	assert.Equal(t, "rejected", rejected.Status)
	assert.Equal(t, "fora do tema", rejected.RejectionReason)
}

func TestAPI_SearchBlankTermIsEmptyList(t *testing.T) {
	resp, raw := doJSON(t, http.MethodGet, "/api/posts/search?q=%20%20", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(raw))
}

func TestAPI_SelfFollowRejected(t *testing.T) {
	user, token := createUser(t, "user")

	resp, _ := doJSON(t, http.MethodPost,
		"/api/users/"+itoa(user.ID)+"/follow", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_AdminGuards(t *testing.T) {
	_, userToken := createUser(t, "user")

	resp, _ := doJSON(t, http.MethodGet, "/api/admin/stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, "/api/admin/stats", userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, "/api/posts/pending", userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAPI_SignupAndLogin(t *testing.T) {
	resp, raw := doJSON(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name":     "Nova Conta",
		"email":    "nova@pawfeed.test",
		"password": "SecurePass12!@",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var signup struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(raw, &signup))
	assert.NotEmpty(t, signup.Token)

	// Duplicate email conflicts.
	resp, _ = doJSON(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name":     "Outra Conta",
		"email":    "nova@pawfeed.test",
		"password": "SecurePass12!@",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Weak password is rejected up front.
	resp, _ = doJSON(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name":     "Fraca",
		"email":    "fraca@pawfeed.test",
		"password": "abc",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, raw = doJSON(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "nova@pawfeed.test",
		"password": "SecurePass12!@",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	resp, _ = doJSON(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "nova@pawfeed.test",
		"password": "WrongPass12!@",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func postPath(id uint, suffix string) string {
	p := "/api/posts/" + itoa(id)
	if suffix != "" {
		p += "/" + suffix
	}
	return p
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
