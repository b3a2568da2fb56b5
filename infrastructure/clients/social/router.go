package social

import (
	"context"

	"github.com/cjodon01/autoauthadmin/domain/feature"
	"github.com/cjodon01/autoauthadmin/domain/model"
	"github.com/cjodon01/autoauthadmin/domain/repository"
)

// Router picks the adapter for a call's platform.
type Router struct {
	Graph    repository.IPlatformAdapter
	LinkedIn repository.IPlatformAdapter
	Twitter  repository.IPlatformAdapter
	Reddit   repository.IPlatformAdapter
}

func NewRouter(graph, linkedIn, twitter, reddit repository.IPlatformAdapter) repository.IPlatformAdapter {
	return &Router{Graph: graph, LinkedIn: linkedIn, Twitter: twitter, Reddit: reddit}
}

func (r *Router) Execute(ctx context.Context, call model.AdapterCall) (*model.CallResult, error) {
	var adapter repository.IPlatformAdapter
	switch feature.Platform(call.Platform) {
	case feature.Facebook, feature.Instagram:
		adapter = r.Graph
	case feature.LinkedIn:
		adapter = r.LinkedIn
	case feature.Twitter:
		adapter = r.Twitter
	case feature.Reddit:
		adapter = r.Reddit
	}
	if adapter == nil {
		return nil, model.NewPreconditionError("no adapter configured for platform %q", call.Platform)
	}
	return adapter.Execute(ctx, call)
}
