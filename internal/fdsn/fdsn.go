// package fdsn is a client for Federation of Digital Seismic Networks web services.
package fdsn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"sync/atomic"
	"time"

	"github.com/golang/groupcache"
	"github.com/gorilla/schema"

	"github.com/GeoNet/seismoviz/internal/metrics"
	"github.com/GeoNet/seismoviz/internal/trace"
)

// DefaultBaseURL is the IRIS data centre.
const DefaultBaseURL = "https://service.iris.edu"

// DefaultCacheBytes is the default size of the RAM cache for service responses.
const DefaultCacheBytes int64 = 64 << 20

// ErrNoData is returned when a service has no data for a query (HTTP 204 or 404).
// It is the same error as trace.ErrNoData.
var ErrNoData = trace.ErrNoData

var encoder = newEncoder()

// groups must have a unique name within a process.
var groupID int64

func newEncoder() *schema.Encoder {
	e := schema.NewEncoder()
	e.RegisterEncoder(time.Time{}, func(v reflect.Value) string {
		return v.Interface().(time.Time).UTC().Format(WsMarshalTimeFormat)
	})
	return e
}

// Client queries FDSN web services.  Response bodies are cached in RAM
// keyed by request URL.
type Client struct {
	base   string
	client *http.Client
	cache  *groupcache.Group
}

// NewClient returns a Client for the FDSN services at base e.g., https://service.iris.edu
// If client is nil http.DefaultClient is used.  cacheBytes is the max size of the response cache.
func NewClient(base string, client *http.Client, cacheBytes int64) *Client {
	if client == nil {
		client = http.DefaultClient
	}

	c := &Client{
		base:   strings.TrimSuffix(base, "/"),
		client: client,
	}

	name := fmt.Sprintf("fdsn%d", atomic.AddInt64(&groupID, 1))
	c.cache = groupcache.NewGroup(name, cacheBytes, groupcache.GetterFunc(c.getter))

	return c
}

// get returns the response body for the service at path with query parameters encoded from q.
func (c *Client) get(ctx context.Context, path string, q interface{}) ([]byte, error) {
	v := url.Values{}
	if err := encoder.Encode(q, v); err != nil {
		return nil, err
	}

	metrics.Lookup()

	var b []byte

	if err := c.cache.Get(ctx, c.base+path+"?"+v.Encode(), groupcache.AllocatingByteSliceSink(&b)); err != nil {
		return nil, err
	}

	return b, nil
}

// getter implements groupcache.Getter for fetching service responses.
func (c *Client) getter(ctx context.Context, key string, dest groupcache.Sink) error {
	if ctx == nil {
		ctx = context.Background()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, key, nil)
	if err != nil {
		return err
	}

	metrics.Request()

	res, err := c.client.Do(req)
	if err != nil {
		metrics.StatusError()
		return err
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		metrics.StatusOK()
	case http.StatusNoContent, http.StatusNotFound:
		metrics.NoData()
		return fmt.Errorf("%s: %w", key, ErrNoData)
	default:
		metrics.StatusError()
		b, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("%s returned %s: %s", key, res.Status, strings.TrimSpace(string(b)))
	}

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	return dest.SetBytes(b)
}
