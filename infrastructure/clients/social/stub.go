package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/cjodon01/autoauthadmin/domain/model"
)

// StubClient answers every feature with a 501 result and never touches the network.
type StubClient struct {
	Name    string
	BaseURL string
}

func NewTwitterStub() *StubClient {
	return &StubClient{Name: "Twitter", BaseURL: DefaultTwitterBaseURL}
}

func NewRedditStub() *StubClient {
	return &StubClient{Name: "Reddit", BaseURL: DefaultRedditBaseURL}
}

func (s *StubClient) Execute(_ context.Context, call model.AdapterCall) (*model.CallResult, error) {
	return NotImplemented(s.Name, s.BaseURL, call.Feature), nil
}

// NotImplemented is the uniform result for features a platform does not serve yet.
func NotImplemented(platform, baseURL, featureKey string) *model.CallResult {
	body, _ := json.Marshal(map[string]string{"message": platform + " API not implemented"})
	return &model.CallResult{
		Endpoint:      joinPath(strings.TrimRight(baseURL, "/"), featureKey),
		Method:        http.MethodGet,
		StatusCode:    http.StatusNotImplemented,
		Summary:       fmt.Sprintf("%s %s not implemented yet", platform, featureKey),
		Response:      body,
		Unimplemented: true,
	}
}
