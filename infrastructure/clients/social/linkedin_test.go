package social_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cjodon01/autoauthadmin/domain/model"
	"github.com/cjodon01/autoauthadmin/infrastructure/clients/social"
)

func newLinkedIn(t *testing.T, handler http.HandlerFunc) *social.LinkedInClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return social.NewLinkedInClient(srv.Client(), srv.URL)
}

func linkedInCall(featureKey string) model.AdapterCall {
	return model.AdapterCall{
		Platform: "linkedin",
		Feature:  featureKey,
		Account:  model.AccountCredential{ConnectionID: "li-1", Platform: "linkedin", AccountID: "abc123", Token: userToken},
	}
}

func TestLinkedIn_ListOrganizations_SendsBearer(t *testing.T) {
	client := newLinkedIn(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/organizationAcls", r.URL.Path)
		assert.Equal(t, "Bearer "+userToken, r.Header.Get("Authorization"))
		assert.Empty(t, r.URL.Query().Get("access_token"))
		_, _ = w.Write([]byte(`{"elements":[{"organization":"urn:li:organization:1"},{"organization":"urn:li:organization:2"}]}`))
	})

	res, err := client.Execute(context.Background(), linkedInCall("list_organizations"))
	require.NoError(t, err)
	assert.Equal(t, "Found 2 organizations", res.Summary)
	assertNoToken(t, res)
}

func TestLinkedIn_ListPosts(t *testing.T) {
	client := newLinkedIn(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/shares", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "owners", q.Get("q"))
		assert.Equal(t, "urn:li:person:abc123", q.Get("owners"))
		assert.Equal(t, "10", q.Get("count"))
		_, _ = w.Write([]byte(`{"elements":[{"id":"s1"}]}`))
	})

	res, err := client.Execute(context.Background(), linkedInCall("list_posts"))
	require.NoError(t, err)
	assert.Equal(t, "Found 1 recent posts", res.Summary)
}

func TestLinkedIn_ListPosts_NeedsMemberID(t *testing.T) {
	client := newLinkedIn(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	call := linkedInCall("list_posts")
	call.Account.AccountID = ""
	res, err := client.Execute(context.Background(), call)
	assert.Nil(t, res)
	assert.True(t, model.IsKind(err, model.KindPrecondition))
}

func TestLinkedIn_PostToOrganization(t *testing.T) {
	client := newLinkedIn(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/shares", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		var got struct {
			Owner string `json:"owner"`
			Text  struct {
				Text string `json:"text"`
			} `json:"text"`
		}
		assert.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, "urn:li:organization:42", got.Owner)
		assert.Equal(t, "Quarterly update", got.Text.Text)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"urn:li:share:777"}`))
	})

	call := linkedInCall("post_to_organization")
	call.Page = &model.PageCredential{PageID: "row-9", ExternalPageID: "42", Token: pageToken}
	call.Content = "Quarterly update"
	res, err := client.Execute(context.Background(), call)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, "Post created: urn:li:share:777", res.Summary)
	assert.Contains(t, string(res.RequestBody), "Quarterly update")
	assertNoToken(t, res)
}

func TestLinkedIn_GetEngagements(t *testing.T) {
	client := newLinkedIn(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/socialActions/urn:li:share:777", r.URL.Path)
		_, _ = w.Write([]byte(`{"likesSummary":{"totalLikes":4},"commentsSummary":{"aggregatedTotalComments":1}}`))
	})

	call := linkedInCall("get_engagements")
	call.PostID = "urn:li:share:777"
	res, err := client.Execute(context.Background(), call)
	require.NoError(t, err)
	assert.Equal(t, "Likes: 4, Comments: 1", res.Summary)
}

func TestLinkedIn_UpstreamMessage(t *testing.T) {
	client := newLinkedIn(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"serviceErrorCode":100,"message":"Not enough permissions to access: GET /organizationAcls","status":403}`))
	})

	res, err := client.Execute(context.Background(), linkedInCall("list_organizations"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Equal(t, "Not enough permissions to access: GET /organizationAcls", res.ErrorMessage)
}

func TestLinkedIn_UnknownFeatureIsNotImplemented(t *testing.T) {
	client := newLinkedIn(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	res, err := client.Execute(context.Background(), linkedInCall("get_insights"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotImplemented, res.StatusCode)
	assert.True(t, res.Unimplemented)
	assert.Equal(t, "LinkedIn get_insights not implemented yet", res.Summary)
}
