package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

const (
	ddgEndpoint  = "https://lite.duckduckgo.com/lite/"
	ddgUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// ddgLimiter is shared by every DuckDuckGo instance: one query per second.
var ddgLimiter = rate.NewLimiter(rate.Every(time.Second), 1)

// DuckDuckGo scrapes DuckDuckGo's lite HTML page. It needs no API key.
type DuckDuckGo struct {
	client   *http.Client
	endpoint string
	limiter  *rate.Limiter
	// On 429 the request is retried after backoff, doubling up to maxBackoff.
	backoff    time.Duration
	maxBackoff time.Duration
	retries    int
}

func NewDuckDuckGo() *DuckDuckGo {
	return NewDuckDuckGoWithClient(&http.Client{Timeout: 15 * time.Second})
}

// NewDuckDuckGoWithClient uses the supplied HTTP client, e.g. to change the timeout.
func NewDuckDuckGoWithClient(client *http.Client) *DuckDuckGo {
	return &DuckDuckGo{
		client:     client,
		endpoint:   ddgEndpoint,
		limiter:    ddgLimiter,
		backoff:    time.Second,
		maxBackoff: 30 * time.Second,
		retries:    4,
	}
}

func (d *DuckDuckGo) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("q", query)

	var resp *http.Response
	delay := d.backoff
	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", ddgUserAgent)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err = d.client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= d.retries {
			break
		}
		resp.Body.Close()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		if delay < d.maxBackoff {
			delay *= 2
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, fmt.Errorf("read duckduckgo response: %w", err)
	}
	return parseLiteResults(string(body), clampResults(maxResults))
}

// parseLiteResults walks the lite page. Result links carry class "result-link";
// each is followed by a cell with class "result-snippet".
func parseLiteResults(page string, max int) ([]Result, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse duckduckgo html: %w", err)
	}

	var results []Result
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "a" && hasClass(n, "result-link"):
				link := resolveDDGLink(attr(n, "href"))
				title := collapse(textOf(n))
				if link != "" && title != "" && len(results) < max {
					results = append(results, Result{Title: title, URL: link})
				}
				return
			case hasClass(n, "result-snippet"):
				if len(results) > 0 && results[len(results)-1].Snippet == "" {
					results[len(results)-1].Snippet = collapse(textOf(n))
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return results, nil
}

// resolveDDGLink unwraps DuckDuckGo redirect links of the form //duckduckgo.com/l/?uddg=<target>.
func resolveDDGLink(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if strings.HasSuffix(u.Host, "duckduckgo.com") && strings.HasPrefix(u.Path, "/l/") {
		if target := u.Query().Get("uddg"); target != "" {
			return target
		}
	}
	return href
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return b.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
