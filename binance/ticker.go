package binance

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// tickerEndpoint is the public (unauthenticated) spot price endpoint.
const tickerEndpoint = "https://api.binance.com/api/v3/ticker/price"

// tickerCacheWindow bounds how stale a cached spot price may be. Holdings
// valuation does not need tick-level freshness.
const tickerCacheWindow = 10 * time.Minute

// diskCache is an HTTP response cache on the local temp directory. The
// cache key embeds a time bucket, so entries expire by becoming unreachable
// rather than by deletion.
type diskCache struct {
	base http.RoundTripper
}

func (c *diskCache) RoundTrip(req *http.Request) (*http.Response, error) {
	bucket := time.Now().UTC().Truncate(tickerCacheWindow).Format(time.RFC3339)
	key := fmt.Sprintf("%x", sha1.Sum([]byte(bucket+" "+req.Method+" "+req.URL.String())))

	if resp, err := c.get(key, req); err == nil {
		return resp, nil
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	// A failed cache write only costs a refetch next time.
	_ = c.put(key, resp)
	return resp, nil
}

func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(os.TempDir(), "tj-ticker-"+key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

func (c *diskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(os.TempDir(), "tj-ticker-"+key), content, 0o600)
}

// cachedClient returns an HTTP client whose responses expire with the
// ticker cache window.
func cachedClient() *http.Client {
	return &http.Client{Transport: &diskCache{http.DefaultTransport}, Timeout: 15 * time.Second}
}

// SpotPrice fetches the current spot price of an exchange pair from the
// public ticker endpoint. No credentials are required.
func SpotPrice(symbol string) (decimal.Decimal, error) {
	addr := tickerEndpoint + "?symbol=" + url.QueryEscape(symbol)
	resp, err := cachedClient().Get(addr)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("fetch ticker %s: %w", symbol, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, fmt.Errorf("fetch ticker %s: %s", symbol, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("fetch ticker %s: %w", symbol, err)
	}

	var jobj any
	if err := json.Unmarshal(body, &jobj); err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse ticker %s: %w", symbol, err)
	}
	jval, err := jsonpath.Get("$.price", jobj)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse ticker %s: %w", symbol, err)
	}
	// jsonpath may wrap a single answer in a list.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	s, ok := jval.(string)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("parse ticker %s: price is %T, not a string", symbol, jval)
	}
	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse ticker %s: bad price %q", symbol, s)
	}
	return price, nil
}
