package globalsearch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"seatwatch-backend/lib/restyutil"
	"seatwatch-backend/lib/timezone"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseUrl   = "https://globalsearch.cuny.edu/CFGlobalSearchTool/CFSearchToolController"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/135.0.0.0 Safari/537.36"
)

type ClientOptions struct {
	// BaseUrl defaults to DefaultBaseUrl.
	BaseUrl   string
	UserAgent string
	// Timeout bounds a single request, it defaults to 30 seconds.
	Timeout time.Duration
	// RequestsPerSecond is shared by every session of the client, zero or
	// less means unlimited.
	RequestsPerSecond float64
	// RefreshDelay is the wait between failed handshakes, it defaults to 5
	// seconds.
	RefreshDelay time.Duration
	// Institution selected by the handshake, defaults to DefaultInstitution.
	Institution      string
	CloudflareBypass bool
	// Now defaults to timezone.Now.
	Now func() time.Time
}

// Client makes requests to the global search tool. It is safe for concurrent
// use.
type Client struct {
	opts      ClientOptions
	baseUrl   *url.URL
	limiter   *rate.Limiter
	sessionId atomic.Uint64
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RefreshDelay <= 0 {
		opts.RefreshDelay = 5 * time.Second
	}
	if opts.Institution == "" {
		opts.Institution = DefaultInstitution
	}
	if opts.Now == nil {
		opts.Now = timezone.Now
	}

	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}
	if _, err := InstitutionCode(opts.Institution); err != nil {
		return nil, err
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &Client{
		opts:    opts,
		baseUrl: baseUrl,
		limiter: rate.NewLimiter(limit, 1),
	}, nil
}

func (c *Client) newHttpClient() (*resty.Client, error) {
	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	if c.opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	client.SetHeader("user-agent", c.opts.UserAgent)
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(c.baseUrl.Hostname()))
	client.SetTimeout(c.opts.Timeout)
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return c.limiter.Wait(req.Context())
	})

	restyutil.InstrumentClient(client, tracer, restyInstrumentOutput)
	return client, nil
}

// NewSession performs the term selection handshake on a fresh cookie jar.
func (c *Client) NewSession(ctx context.Context) (*Session, error) {
	ctx, span := tracer.Start(ctx, "client:NewSession")
	defer span.End()

	client, err := c.newHttpClient()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create http client")
		return nil, err
	}

	now := c.opts.Now()
	year, term := CurrentTerm(now)
	instCode, err := InstitutionCode(c.opts.Institution)
	if err != nil {
		return nil, err
	}

	res, err := client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"selectedInstName": fmt.Sprintf("%s |", c.opts.Institution),
			"inst_selection":   instCode,
			"selectedTermName": fmt.Sprintf("%d %s", year, term),
			"term_value":       strconv.Itoa(TermCode(year, term)),
			"next_btn":         "Next",
		}).
		Post(c.baseUrl.String())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to make handshake request")
		return nil, &TransportError{Op: "handshake", Err: err}
	}
	if res.StatusCode() != http.StatusOK {
		span.SetStatus(codes.Error, "unexpected handshake status")
		return nil, &TransportError{Op: "handshake", StatusCode: res.StatusCode()}
	}

	session := &Session{
		id:        c.sessionId.Add(1),
		http:      client,
		createdAt: now,
	}
	span.SetAttributes(attribute.Int64("session_id", int64(session.id)))
	return session, nil
}

// RefreshSession retries NewSession until it succeeds or ctx is done.
func (c *Client) RefreshSession(ctx context.Context) (*Session, error) {
	ctx, span := tracer.Start(ctx, "client:RefreshSession")
	defer span.End()

	for attempt := 1; ; attempt++ {
		session, err := c.NewSession(ctx)
		if err == nil {
			return session, nil
		}
		slog.WarnContext(
			ctx, "session handshake failed, retrying",
			"attempt", attempt,
			"delay", c.opts.RefreshDelay,
			"err", err,
		)

		select {
		case <-ctx.Done():
			span.SetStatus(codes.Error, "context done before handshake succeeded")
			return nil, ctx.Err()
		case <-time.After(c.opts.RefreshDelay):
		}
	}
}

// Fetch requests the course page for an encoded query using the session's
// cookies.
func (c *Client) Fetch(ctx context.Context, session *Session, enc EncodedQuery) (Page, error) {
	ctx, span := tracer.Start(ctx, "client:Fetch")
	defer span.End()

	res, err := session.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(enc.Values()).
		Get(c.baseUrl.String())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch course page")
		return Page{}, &TransportError{Op: "fetch", Err: err}
	}
	if res.StatusCode() != http.StatusOK {
		span.SetStatus(codes.Error, "unexpected course page status")
		return Page{}, &TransportError{Op: "fetch", StatusCode: res.StatusCode()}
	}

	return Page{
		URL:  res.Request.URL,
		Body: res.Body(),
	}, nil
}
