package telemetry

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/matzehuels/schemeview/pkg/errors"
	"github.com/matzehuels/schemeview/pkg/httputil"
)

// HTTPSource polls channel data from a web endpoint. The requested
// channels are passed as a comma separated cnl query parameter and the
// response has the same shape as a channel file:
//
//	GET /api/cur?cnl=101,102
//	{"Channels": [{"CnlNum": 101, "Val": 21.5, "Stat": 1}]}
type HTTPSource struct {
	client *httputil.Client
	url    string
}

// NewHTTPSource creates a source polling rawURL. A nil client uses the
// default retry policy.
func NewHTTPSource(rawURL string, client *httputil.Client) (*HTTPSource, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "invalid channel data url %q", rawURL)
	}
	if client == nil {
		client = httputil.NewClient(nil, map[string]string{"Accept": "application/json"})
	}
	return &HTTPSource{client: client, url: rawURL}, nil
}

// Fetch requests the channels from the endpoint.
func (s *HTTPSource) Fetch(ctx context.Context, cnlNums []int) (*Snapshot, error) {
	var f channelFile
	if err := s.client.GetJSON(ctx, s.requestURL(cnlNums), &f); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch channel data from %s", s.url)
	}
	for i := range f.Channels {
		f.Channels[i] = f.Channels[i].Complete()
	}
	return NewSnapshot(filter(f.Channels, cnlNums)...), nil
}

func (s *HTTPSource) requestURL(cnlNums []int) string {
	if len(cnlNums) == 0 {
		return s.url
	}
	u, _ := url.Parse(s.url)
	nums := make([]string, len(cnlNums))
	for i, n := range cnlNums {
		nums[i] = strconv.Itoa(n)
	}
	q := u.Query()
	q.Set("cnl", strings.Join(nums, ","))
	u.RawQuery = q.Encode()
	return u.String()
}

// Close does nothing for HTTP sources.
func (s *HTTPSource) Close() error { return nil }

var _ Source = (*HTTPSource)(nil)
