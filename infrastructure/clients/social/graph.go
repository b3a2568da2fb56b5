package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-querystring/query"

	"github.com/cjodon01/autoauthadmin/domain/feature"
	"github.com/cjodon01/autoauthadmin/domain/model"
)

const (
	engagementFields = "likes.summary(true),comments.summary(true),shares"
	postMetrics      = "post_impressions,post_clicks"
	pageMetrics      = "page_impressions,page_post_engagements"
	recentPostLimit  = 10
)

type graphQuery struct {
	AccessToken string `url:"access_token"`
	Limit       int    `url:"limit,omitempty"`
	Fields      string `url:"fields,omitempty"`
	Metric      string `url:"metric,omitempty"`
}

type graphPost struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
}

type messageSnapshot struct {
	Message string `json:"message"`
}

// GraphClient talks to the Facebook Graph API. Instagram business accounts
// use the same client and grant.
type GraphClient struct {
	HTTPClient *http.Client
	BaseURL    string
}

func NewGraphClient(httpClient *http.Client, baseURL string) *GraphClient {
	if baseURL == "" {
		baseURL = DefaultGraphBaseURL
	}
	return &GraphClient{HTTPClient: httpClient, BaseURL: strings.TrimRight(baseURL, "/")}
}

func (c *GraphClient) Execute(ctx context.Context, call model.AdapterCall) (*model.CallResult, error) {
	switch feature.Key(call.Feature) {
	case feature.ListPages:
		return c.get(ctx, call.Account.Token, graphQuery{}, countSummary("data", "Found %d pages"), "me", "accounts")

	case feature.ListPosts:
		return c.get(ctx, call.Account.Token, graphQuery{Limit: recentPostLimit}, countSummary("data", "Found %d recent posts"), "me", "posts")

	case feature.ListPagePosts:
		page, err := requirePage(call)
		if err != nil {
			return nil, err
		}
		return c.get(ctx, page.Token, graphQuery{Limit: recentPostLimit}, countSummary("data", "Found %d recent posts"), page.ExternalPageID, "posts")

	case feature.PostToFeed:
		if err := requireContent(call); err != nil {
			return nil, err
		}
		return c.post(ctx, call.Account.Token, call.Content, "me", "feed")

	case feature.PostToPage:
		page, err := requirePage(call)
		if err != nil {
			return nil, err
		}
		if err := requireContent(call); err != nil {
			return nil, err
		}
		return c.post(ctx, page.Token, call.Content, page.ExternalPageID, "feed")

	case feature.GetEngagements:
		if err := requirePostID(call); err != nil {
			return nil, err
		}
		return c.get(ctx, call.Account.Token, graphQuery{Fields: engagementFields}, engagementSummary, call.PostID)

	case feature.GetPageEngagements:
		page, err := requirePage(call)
		if err != nil {
			return nil, err
		}
		if err := requirePostID(call); err != nil {
			return nil, err
		}
		return c.get(ctx, page.Token, graphQuery{Fields: engagementFields}, engagementSummary, call.PostID)

	case feature.GetInsights:
		if err := requirePostID(call); err != nil {
			return nil, err
		}
		return c.get(ctx, call.Account.Token, graphQuery{Metric: postMetrics}, countSummary("data", "Retrieved %d insight metrics"), call.PostID, "insights")

	case feature.GetPageInsights:
		page, err := requirePage(call)
		if err != nil {
			return nil, err
		}
		return c.get(ctx, page.Token, graphQuery{Metric: pageMetrics}, countSummary("data", "Retrieved %d insight metrics"), page.ExternalPageID, "insights")
	}
	return nil, model.NewPreconditionError("feature %q is not supported by the graph adapter", call.Feature)
}

func (c *GraphClient) get(ctx context.Context, token string, q graphQuery, summarize func([]byte) string, path ...string) (*model.CallResult, error) {
	q.AccessToken = token
	values, err := query.Values(q)
	if err != nil {
		return nil, fmt.Errorf("encode graph query: %w", err)
	}
	r := upstreamRequest{
		method:   http.MethodGet,
		endpoint: joinPath(c.BaseURL, path...),
		query:    values,
	}
	resp, err := send(ctx, c.HTTPClient, r)
	if err != nil {
		return transportFailure(r, err)
	}
	return result(r, resp, summarize, ""), nil
}

func (c *GraphClient) post(ctx context.Context, token, content string, path ...string) (*model.CallResult, error) {
	r := upstreamRequest{
		method:   http.MethodPost,
		endpoint: joinPath(c.BaseURL, path...),
		body:     graphPost{Message: content, AccessToken: token},
		snapshot: messageSnapshot{Message: content},
	}
	resp, err := send(ctx, c.HTTPClient, r)
	if err != nil {
		return transportFailure(r, err)
	}
	return result(r, resp, func(body []byte) string {
		return fmt.Sprintf("Post created: %s", CreatedPostID(body))
	}, "Post failed"), nil
}

// CreatedPostID reads the id Graph assigns to a new post.
func CreatedPostID(body []byte) string {
	var created struct {
		ID string `json:"id"`
	}
	if json.Unmarshal(body, &created) != nil {
		return ""
	}
	return created.ID
}

func countSummary(field, format string) func([]byte) string {
	return func(body []byte) string {
		return fmt.Sprintf(format, countOf(body, field))
	}
}

func engagementSummary(body []byte) string {
	var e struct {
		Likes struct {
			Summary struct {
				TotalCount int `json:"total_count"`
			} `json:"summary"`
		} `json:"likes"`
		Comments struct {
			Summary struct {
				TotalCount int `json:"total_count"`
			} `json:"summary"`
		} `json:"comments"`
	}
	_ = json.Unmarshal(body, &e)
	return fmt.Sprintf("Likes: %d, Comments: %d", e.Likes.Summary.TotalCount, e.Comments.Summary.TotalCount)
}

func requirePage(call model.AdapterCall) (*model.PageCredential, error) {
	if call.Page == nil || call.Page.ExternalPageID == "" {
		return nil, model.NewPreconditionError("%s requires a resolved page", call.Feature)
	}
	if call.Page.Token == "" {
		return nil, model.NewPreconditionError("page %s has no access token", call.Page.ExternalPageID)
	}
	return call.Page, nil
}

func requireContent(call model.AdapterCall) error {
	if strings.TrimSpace(call.Content) == "" {
		return model.NewPreconditionError("content is required for %s", call.Feature)
	}
	return nil
}

func requirePostID(call model.AdapterCall) error {
	if strings.TrimSpace(call.PostID) == "" {
		return model.NewPreconditionError("post id is required for %s", call.Feature)
	}
	return nil
}
