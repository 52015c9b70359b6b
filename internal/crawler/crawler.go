// Package crawler fetches the knowledge-base pages and stores the files
// they link to.
package crawler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"academy-qabot/internal/loader"
	"academy-qabot/internal/storage"
)

const maxBodyBytes = 32 << 20

var skippedExts = []string{".css", ".js", ".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico", ".woff", ".woff2"}

type Config struct {
	MaxPages       int
	UserAgent      string
	AttachmentExts []string
	Timeout        time.Duration
}

// Page is one fetched HTML page with the names of the files it links to.
type Page struct {
	URL         string
	HTML        []byte
	Attachments []string
}

// File is an attachment saved to storage.
type File struct {
	Name        string
	URL         string
	StoragePath string
}

type Result struct {
	Pages []Page
	Files []File
}

type Crawler struct {
	cfg        Config
	httpClient *http.Client
	storage    storage.Storage
}

// New returns a crawler. A nil store skips attachment downloads.
func New(cfg Config, store storage.Storage) *Crawler {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 1
	}
	if len(cfg.AttachmentExts) == 0 {
		cfg.AttachmentExts = loader.DefaultAttachmentExts
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Crawler{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		storage:    store,
	}
}

// Crawl walks same-host links breadth first from startURL until MaxPages
// pages were fetched. Pages that fail to load are logged and skipped.
func (c *Crawler) Crawl(ctx context.Context, startURL string) (*Result, error) {
	base, err := url.Parse(startURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid start url %q", startURL)
	}
	log.Printf("crawl start: url=%s maxPages=%d", base, c.cfg.MaxPages)

	result := &Result{}
	visited := make(map[string]bool)
	downloaded := make(map[string]bool)
	queue := []string{normalize(base)}

	for len(queue) > 0 && len(result.Pages) < c.cfg.MaxPages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true

		body, err := c.fetch(ctx, current)
		if err != nil {
			log.Printf("crawl fetch %s failed: %v", current, err)
			continue
		}

		pageURL, _ := url.Parse(current)
		links, attachments := extractLinks(body, pageURL, c.cfg.AttachmentExts)

		page := Page{URL: current, HTML: body}
		for _, ref := range attachments {
			name := loader.AttachmentName(ref)
			page.Attachments = append(page.Attachments, name)
			if c.storage == nil || downloaded[ref] {
				continue
			}
			downloaded[ref] = true
			file, err := c.download(ctx, ref, name)
			if err != nil {
				log.Printf("crawl download %s failed: %v", ref, err)
				continue
			}
			result.Files = append(result.Files, *file)
		}
		result.Pages = append(result.Pages, page)

		for _, link := range links {
			if !visited[link] {
				queue = append(queue, link)
			}
		}
	}

	log.Printf("crawl done: pages=%d files=%d", len(result.Pages), len(result.Files))
	return result, nil
}

func (c *Crawler) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}

// download stores the file under an id derived from its URL so that a
// re-crawl overwrites the same path.
func (c *Crawler) download(ctx context.Context, rawURL, name string) (*File, error) {
	body, err := c.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(rawURL))
	path, err := c.storage.Upload(ctx, id, name, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return &File{Name: name, URL: rawURL, StoragePath: path}, nil
}

// extractLinks returns same-host page links and attachment links found
// in page, each deduplicated in document order.
func extractLinks(page []byte, base *url.URL, exts []string) ([]string, []string) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, nil
	}

	var links, attachments []string
	seen := make(map[string]bool)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, a := range n.Attr {
				if a.Key != "href" {
					continue
				}
				h := strings.TrimSpace(a.Val)
				if h == "" || strings.HasPrefix(h, "#") || strings.HasPrefix(h, "mailto:") || strings.HasPrefix(h, "javascript:") {
					continue
				}
				u, err := url.Parse(h)
				if err != nil {
					continue
				}
				u = base.ResolveReference(u)
				if u.Scheme != "http" && u.Scheme != "https" {
					continue
				}
				link := normalize(u)
				if seen[link] {
					continue
				}

				if loader.IsAttachment(u.Path, exts) {
					seen[link] = true
					attachments = append(attachments, link)
					continue
				}
				if u.Host != base.Host || hasExt(u.Path, skippedExts) {
					continue
				}
				seen[link] = true
				links = append(links, link)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return links, attachments
}

// normalize drops the fragment so anchors on one page collapse to one URL.
func normalize(u *url.URL) string {
	clone := *u
	clone.Fragment = ""
	clone.RawFragment = ""
	return clone.String()
}

func hasExt(path string, exts []string) bool {
	lower := strings.ToLower(path)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
