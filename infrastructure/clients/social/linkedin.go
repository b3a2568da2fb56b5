package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-querystring/query"
	"golang.org/x/oauth2"

	"github.com/cjodon01/autoauthadmin/domain/feature"
	"github.com/cjodon01/autoauthadmin/domain/model"
)

type linkedInQuery struct {
	Q      string `url:"q,omitempty"`
	Owners string `url:"owners,omitempty"`
	Count  int    `url:"count,omitempty"`
}

type linkedInShare struct {
	Owner string           `json:"owner"`
	Text  linkedInShareTxt `json:"text"`
}

type linkedInShareTxt struct {
	Text string `json:"text"`
}

// LinkedInClient talks to the LinkedIn v2 REST API with the member's bearer token.
type LinkedInClient struct {
	HTTPClient *http.Client
	BaseURL    string
}

func NewLinkedInClient(httpClient *http.Client, baseURL string) *LinkedInClient {
	if baseURL == "" {
		baseURL = DefaultLinkedInBaseURL
	}
	return &LinkedInClient{HTTPClient: httpClient, BaseURL: strings.TrimRight(baseURL, "/")}
}

// authorized wraps the shared client's transport so every request carries the bearer token.
func (c *LinkedInClient) authorized(token string) *http.Client {
	base := c.HTTPClient
	if base == nil {
		base = http.DefaultClient
	}
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   base.Transport,
		},
		Timeout: base.Timeout,
	}
}

func (c *LinkedInClient) Execute(ctx context.Context, call model.AdapterCall) (*model.CallResult, error) {
	switch feature.Key(call.Feature) {
	case feature.ListOrganizations:
		return c.get(ctx, call.Account.Token, linkedInQuery{Q: "roleAssignee"}, countSummary("elements", "Found %d organizations"), "organizationAcls")

	case feature.ListPosts:
		if call.Account.AccountID == "" {
			return nil, model.NewPreconditionError("linkedin connection %s has no member id", call.Account.ConnectionID)
		}
		q := linkedInQuery{Q: "owners", Owners: "urn:li:person:" + call.Account.AccountID, Count: recentPostLimit}
		return c.get(ctx, call.Account.Token, q, countSummary("elements", "Found %d recent posts"), "shares")

	case feature.PostToOrganization:
		if call.Page == nil || call.Page.ExternalPageID == "" {
			return nil, model.NewPreconditionError("%s requires a resolved organization", call.Feature)
		}
		if err := requireContent(call); err != nil {
			return nil, err
		}
		share := linkedInShare{
			Owner: "urn:li:organization:" + call.Page.ExternalPageID,
			Text:  linkedInShareTxt{Text: call.Content},
		}
		r := upstreamRequest{
			method:   http.MethodPost,
			endpoint: joinPath(c.BaseURL, "shares"),
			body:     share,
			snapshot: share,
		}
		return c.do(ctx, call.Account.Token, r, func(body []byte) string {
			return fmt.Sprintf("Post created: %s", CreatedPostID(body))
		}, "Post failed")

	case feature.GetEngagements:
		if err := requirePostID(call); err != nil {
			return nil, err
		}
		return c.get(ctx, call.Account.Token, linkedInQuery{}, linkedInEngagementSummary, "socialActions", call.PostID)
	}
	return NotImplemented("LinkedIn", c.BaseURL, call.Feature), nil
}

func (c *LinkedInClient) get(ctx context.Context, token string, q linkedInQuery, summarize func([]byte) string, path ...string) (*model.CallResult, error) {
	values, err := query.Values(q)
	if err != nil {
		return nil, fmt.Errorf("encode linkedin query: %w", err)
	}
	r := upstreamRequest{
		method:   http.MethodGet,
		endpoint: joinPath(c.BaseURL, path...),
		query:    values,
		header:   http.Header{"X-Restli-Protocol-Version": []string{"2.0.0"}},
	}
	return c.do(ctx, token, r, summarize, "")
}

func (c *LinkedInClient) do(ctx context.Context, token string, r upstreamRequest, summarize func([]byte) string, failed string) (*model.CallResult, error) {
	resp, err := send(ctx, c.authorized(token), r)
	if err != nil {
		return transportFailure(r, err)
	}
	return result(r, resp, summarize, failed), nil
}

func linkedInEngagementSummary(body []byte) string {
	var e struct {
		LikesSummary struct {
			TotalLikes int `json:"totalLikes"`
		} `json:"likesSummary"`
		CommentsSummary struct {
			AggregatedTotalComments int `json:"aggregatedTotalComments"`
		} `json:"commentsSummary"`
	}
	_ = json.Unmarshal(body, &e)
	return fmt.Sprintf("Likes: %d, Comments: %d", e.LikesSummary.TotalLikes, e.CommentsSummary.AggregatedTotalComments)
}
