// Package feature holds the static catalog of supported (platform, feature)
// pairs. Requests are validated against it before any credential or network
// work happens.
package feature

import "strings"

type Platform string

const (
	Facebook  Platform = "facebook"
	Instagram Platform = "instagram"
	LinkedIn  Platform = "linkedin"
	Twitter   Platform = "twitter"
	Reddit    Platform = "reddit"
)

type Key string

const (
	ListPages          Key = "list_pages"
	ListPosts          Key = "list_posts"
	ListPagePosts      Key = "list_page_posts"
	PostToFeed         Key = "post_to_feed"
	PostToPage         Key = "post_to_page"
	GetEngagements     Key = "get_engagements"
	GetPageEngagements Key = "get_page_engagements"
	GetInsights        Key = "get_insights"
	GetPageInsights    Key = "get_page_insights"

	ListOrganizations  Key = "list_organizations"
	PostToOrganization Key = "post_to_organization"

	ListTweets Key = "list_tweets"
	PostTweet  Key = "post_tweet"

	ListSubreddits  Key = "list_subreddits"
	PostToSubreddit Key = "post_to_subreddit"
)

type Scope string

const (
	ScopeAccount Scope = "account"
	ScopePage    Scope = "page"
)

// Descriptor describes the preconditions of one feature on one platform.
type Descriptor struct {
	Key             Key    `json:"value"`
	Label           string `json:"label"`
	Scope           Scope  `json:"scope"`
	RequiresContent bool   `json:"requires_content"`
	RequiresPostID  bool   `json:"requires_post_id"`
}

// RequiresPage reports whether the feature targets a page-scoped resource.
func (d Descriptor) RequiresPage() bool { return d.Scope == ScopePage }

var platformOrder = []Platform{Facebook, Instagram, LinkedIn, Twitter, Reddit}

var catalog = map[Platform][]Descriptor{
	Facebook: {
		{Key: ListPages, Label: "List User Pages", Scope: ScopeAccount},
		{Key: ListPosts, Label: "List User Posts", Scope: ScopeAccount},
		{Key: ListPagePosts, Label: "List Page Posts", Scope: ScopePage},
		{Key: PostToFeed, Label: "Post to User Feed", Scope: ScopeAccount, RequiresContent: true},
		{Key: PostToPage, Label: "Post to Page", Scope: ScopePage, RequiresContent: true},
		{Key: GetEngagements, Label: "Get User Post Engagements", Scope: ScopeAccount, RequiresPostID: true},
		{Key: GetPageEngagements, Label: "Get Page Post Engagements", Scope: ScopePage, RequiresPostID: true},
		{Key: GetInsights, Label: "Get User Post Insights", Scope: ScopeAccount, RequiresPostID: true},
		{Key: GetPageInsights, Label: "Get Page Insights", Scope: ScopePage},
	},
	Instagram: {
		{Key: ListPages, Label: "List User Pages", Scope: ScopeAccount},
		{Key: ListPosts, Label: "List User Posts", Scope: ScopeAccount},
		{Key: ListPagePosts, Label: "List Page Posts", Scope: ScopePage},
		{Key: PostToPage, Label: "Post to Page", Scope: ScopePage, RequiresContent: true},
		{Key: GetEngagements, Label: "Get User Post Engagements", Scope: ScopeAccount, RequiresPostID: true},
		{Key: GetPageEngagements, Label: "Get Page Post Engagements", Scope: ScopePage, RequiresPostID: true},
		{Key: GetInsights, Label: "Get User Post Insights", Scope: ScopeAccount, RequiresPostID: true},
		{Key: GetPageInsights, Label: "Get Page Insights", Scope: ScopePage},
	},
	LinkedIn: {
		{Key: ListOrganizations, Label: "List Organizations", Scope: ScopeAccount},
		{Key: ListPosts, Label: "List User Posts", Scope: ScopeAccount},
		{Key: PostToOrganization, Label: "Post to Organization", Scope: ScopePage, RequiresContent: true},
		{Key: GetEngagements, Label: "Get Post Engagements", Scope: ScopeAccount, RequiresPostID: true},
	},
	Twitter: {
		{Key: ListTweets, Label: "List Recent Tweets", Scope: ScopeAccount},
		{Key: PostTweet, Label: "Post a Tweet", Scope: ScopeAccount, RequiresContent: true},
		{Key: GetEngagements, Label: "Get Tweet Engagements", Scope: ScopeAccount, RequiresPostID: true},
	},
	Reddit: {
		{Key: ListSubreddits, Label: "List User Subreddits", Scope: ScopeAccount},
		{Key: ListPosts, Label: "List Recent Posts", Scope: ScopeAccount},
		{Key: PostToSubreddit, Label: "Post to Subreddit", Scope: ScopePage, RequiresContent: true},
		{Key: GetEngagements, Label: "Get Post Engagements", Scope: ScopeAccount, RequiresPostID: true},
	},
}

// ParsePlatform normalizes a platform name and reports whether it is known.
func ParsePlatform(s string) (Platform, bool) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	_, ok := catalog[p]
	return p, ok
}

// GrantFamily returns the platform whose OAuth grant serves p. Instagram
// business accounts are reached through the Facebook Graph grant.
func (p Platform) GrantFamily() Platform {
	if p == Instagram {
		return Facebook
	}
	return p
}

// SameFamily reports whether two platform names resolve to one grant family.
func SameFamily(a, b string) bool {
	pa := Platform(strings.ToLower(a))
	pb := Platform(strings.ToLower(b))
	return pa.GrantFamily() == pb.GrantFamily()
}

// Describe looks up the descriptor for (platform, key).
func Describe(platform Platform, key Key) (Descriptor, bool) {
	for _, d := range catalog[platform] {
		if d.Key == key {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Platforms lists the supported platforms in display order.
func Platforms() []Platform {
	return append([]Platform(nil), platformOrder...)
}

// Features returns a copy of the descriptors declared for platform.
func Features(platform Platform) []Descriptor {
	return append([]Descriptor(nil), catalog[platform]...)
}
