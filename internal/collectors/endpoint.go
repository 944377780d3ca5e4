// Package collectors fetches raw alert records from cluster management
// endpoints. Endpoints in the fleet run different product generations, so the
// collector walks a ladder of API versions and filter dialects until one
// combination answers, and tolerates the envelope and pagination differences
// between them.
package collectors

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/tomycgitntnx/Automation/internal/config"
)

const defaultPageSize = 100

// maxPages guards against endpoints that ignore paging parameters and keep
// returning the same cursor or total.
const maxPages = 500

// apiVersion describes one known generation of the management alert API.
type apiVersion struct {
	ID     string
	Method string
	Path   string

	// OffsetParam and LimitParam name the paging query parameters for GET
	// versions; the v3 API pages through the request body instead.
	OffsetParam string
	LimitParam  string

	// Filters lists the unresolved-alert filter dialects to try, in order.
	Filters []string
}

var defaultVersions = []apiVersion{
	{
		ID:     "v3",
		Method: http.MethodPost,
		Path:   "/api/nutanix/v3/alerts/list",
		Filters: []string{
			"resolved==false",
			"is_resolved==false",
		},
	},
	{
		ID:          "v2",
		Method:      http.MethodGet,
		Path:        "/PrismGateway/services/rest/v2.0/alerts",
		OffsetParam: "offset",
		LimitParam:  "limit",
		Filters: []string{
			"resolved=false",
			"alert_status=unresolved",
		},
	},
	{
		ID:          "v1",
		Method:      http.MethodGet,
		Path:        "/PrismGateway/services/rest/v1/alerts",
		OffsetParam: "$skip",
		LimitParam:  "$top",
		Filters: []string{
			"$filter=resolved eq false",
			"$filter=acknowledged eq false",
		},
	},
}

var insecureWarned sync.Once

// EndpointCollector queries management endpoints over HTTPS with basic auth.
// One collector serves every target in the fleet; per-target state lives in
// the call, so it is safe for concurrent use.
type EndpointCollector struct {
	httpClient *http.Client
	port       int
	username   string
	password   string
	versions   []apiVersion
	pageSize   int
	logger     *zap.Logger
}

func NewEndpointCollector(cfg *config.Config, logger *zap.Logger) *EndpointCollector {
	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if cfg.Endpoints.InsecureSkipVerify {
		tlsCfg.InsecureSkipVerify = true
		insecureWarned.Do(func() {
			logger.Warn("TLS certificate verification is disabled for endpoint queries")
		})
	}

	return &EndpointCollector{
		httpClient: &http.Client{
			Timeout:   cfg.Endpoints.RequestTimeout,
			Transport: &http.Transport{TLSClientConfig: tlsCfg},
		},
		port:     cfg.Endpoints.Port,
		username: cfg.Endpoints.Username,
		password: cfg.Endpoints.Password,
		versions: defaultVersions,
		pageSize: defaultPageSize,
		logger:   logger,
	}
}

// FetchResult carries the raw records drained from one endpoint, plus which
// API version and filter dialect ended up answering.
type FetchResult struct {
	Records    []map[string]any
	APIVersion string
	Filter     string
	Pages      int
}

// FetchAlerts drains all unresolved alerts from one endpoint. Version and
// filter combinations are tried most-recent first; any failure, including one
// past the first page, moves on to the next combination with a fresh
// collection. The error reflects the last attempt when every combination
// fails.
func (c *EndpointCollector) FetchAlerts(ctx context.Context, target string) (*FetchResult, error) {
	var lastErr error
	for _, version := range c.versions {
		for _, filter := range version.Filters {
			records, pages, err := c.drain(ctx, target, version, filter)
			if err != nil {
				c.logger.Debug("alert query attempt failed",
					zap.String("endpoint", target),
					zap.String("api_version", version.ID),
					zap.String("filter", filter),
					zap.Error(err))
				lastErr = err
				continue
			}
			return &FetchResult{
				Records:    records,
				APIVersion: version.ID,
				Filter:     filter,
				Pages:      pages,
			}, nil
		}
	}
	return nil, fmt.Errorf("all alert API attempts against %s failed: %w", target, lastErr)
}

// drain pages through one (version, filter) combination until the endpoint
// reports no more records. The paging dialect is detected from the response:
// a metadata cursor field, even when null, selects cursor paging; otherwise
// the reported total drives offset paging. An empty page always terminates.
func (c *EndpointCollector) drain(ctx context.Context, target string, version apiVersion, filter string) ([]map[string]any, int, error) {
	var records []map[string]any
	cursor := ""
	total := -1
	pages := 0

	for pages < maxPages {
		pg, err := c.fetchPage(ctx, target, version, filter, len(records), cursor)
		if err != nil {
			return nil, pages, err
		}
		pages++
		records = append(records, pg.records...)

		if len(pg.records) == 0 {
			break
		}
		if pg.hasCursor {
			if pg.cursor == "" {
				break
			}
			cursor = pg.cursor
			continue
		}
		if pg.total >= 0 {
			total = pg.total
		}
		if total < 0 || len(records) >= total {
			break
		}
	}
	return records, pages, nil
}

func (c *EndpointCollector) fetchPage(ctx context.Context, target string, version apiVersion, filter string, offset int, cursor string) (page, error) {
	req, err := c.newPageRequest(ctx, target, version, filter, offset, cursor)
	if err != nil {
		return page{}, fmt.Errorf("failed to build request: %w", err)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return page{}, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return page{}, fmt.Errorf("failed to read response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return page{}, fmt.Errorf("endpoint returned status %d", res.StatusCode)
	}
	return parsePage(body)
}

func (c *EndpointCollector) newPageRequest(ctx context.Context, target string, version apiVersion, filter string, offset int, cursor string) (*http.Request, error) {
	reqURL := c.baseURL(target) + version.Path

	var req *http.Request
	var err error
	if version.Method == http.MethodPost {
		payload := map[string]any{
			"filter": filter,
			"length": c.pageSize,
		}
		if cursor != "" {
			payload["cursor"] = cursor
		} else {
			payload["offset"] = offset
		}
		body, merr := json.Marshal(payload)
		if merr != nil {
			return nil, merr
		}
		req, err = http.NewRequestWithContext(ctx, version.Method, reqURL, bytes.NewReader(body))
		if err == nil {
			req.Header.Set("Content-Type", "application/json")
		}
	} else {
		u, perr := url.Parse(reqURL)
		if perr != nil {
			return nil, perr
		}
		q := u.Query()
		if key, value, ok := strings.Cut(filter, "="); ok {
			q.Set(key, value)
		} else {
			q.Set("filter", filter)
		}
		if cursor != "" {
			q.Set("cursor", cursor)
		} else {
			q.Set(version.OffsetParam, strconv.Itoa(offset))
		}
		q.Set(version.LimitParam, strconv.Itoa(c.pageSize))
		u.RawQuery = q.Encode()
		req, err = http.NewRequestWithContext(ctx, version.Method, u.String(), nil)
	}
	if err != nil {
		return nil, err
	}

	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// baseURL accepts bare hosts, to which the configured management port is
// appended, and full URLs, which are used as given. Tests rely on the latter.
func (c *EndpointCollector) baseURL(target string) string {
	if strings.Contains(target, "://") {
		return strings.TrimRight(target, "/")
	}
	return "https://" + net.JoinHostPort(target, strconv.Itoa(c.port))
}

// page is one decoded response page. total is -1 when the envelope reported
// none; hasCursor records that a cursor field was present even if null.
type page struct {
	records   []map[string]any
	total     int
	hasCursor bool
	cursor    string
}

func parsePage(body []byte) (page, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return page{}, fmt.Errorf("failed to decode response body: %w", err)
	}
	switch t := doc.(type) {
	case []any:
		return page{records: objectRecords(t), total: -1}, nil
	case map[string]any:
		return parseEnvelope(t)
	}
	return page{}, fmt.Errorf("unexpected response shape %T", doc)
}

func parseEnvelope(doc map[string]any) (page, error) {
	pg := page{total: -1}

	list, ok := collectionField(doc)
	if !ok {
		return page{}, fmt.Errorf("response carries no alert collection")
	}
	pg.records = objectRecords(list)

	meta, _ := doc["metadata"].(map[string]any)
	if meta == nil {
		return pg, nil
	}
	for _, key := range []string{"total_matches", "totalCount", "totalAvailableResults"} {
		if n, ok := intAt(meta, key); ok {
			pg.total = n
			break
		}
	}
	for _, key := range []string{"nextCursor", "next_cursor"} {
		if v, present := meta[key]; present {
			pg.hasCursor = true
			if s, ok := v.(string); ok {
				pg.cursor = s
			}
			break
		}
	}
	return pg, nil
}

func collectionField(doc map[string]any) ([]any, bool) {
	for _, key := range []string{"entities", "data"} {
		v, present := doc[key]
		if !present {
			continue
		}
		if v == nil {
			return nil, true
		}
		if list, ok := v.([]any); ok {
			return list, true
		}
	}
	return nil, false
}

// objectRecords keeps the object items of a collection; anything else in the
// list is not an alert record and is dropped.
func objectRecords(list []any) []map[string]any {
	records := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			records = append(records, m)
		}
	}
	return records
}

func intAt(m map[string]any, key string) (int, bool) {
	switch t := m[key].(type) {
	case float64:
		return int(t), true
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n), true
		}
	}
	return 0, false
}
