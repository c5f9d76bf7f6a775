package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"
)

const defaultBaseURL = "http://localhost:8080"

func main() {
	global := flag.NewFlagSet("angelbridge", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	secret := global.String("secret", os.Getenv("ANGEL_SHARED_SECRET"), "shared secret")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	cli := &cli{
		base:   *baseURL,
		secret: *secret,
		http:   &http.Client{Timeout: 30 * time.Second},
	}

	cmd := args[0]
	rest := args[1:]

	switch cmd {
	case "append":
		cli.createCmd(ctx, "append", rest)
	case "log":
		cli.createCmd(ctx, "log", rest)
	case "whisper":
		cli.createCmd(ctx, "whisper", rest)
	case "content":
		cli.contentCmd(ctx, rest)
	case "covenant":
		cli.covenantCmd(ctx, rest)
	case "search":
		cli.searchCmd(ctx, rest)
	case "pulse":
		cli.listCmd(ctx, "/journal/pulse", rest)
	case "recent":
		cli.listCmd(ctx, "/journal/fetch_recent", rest)
	case "all":
		cli.allCmd(ctx, rest)
	case "page":
		cli.pageCmd(ctx, rest)
	case "probe":
		cli.get(ctx, "/probe/db", nil)
	case "schema":
		cli.get(ctx, "/debug/schema", nil)
	default:
		printUsage()
		os.Exit(1)
	}
}

type cli struct {
	base   string
	secret string
	http   *http.Client
}

func (c *cli) createCmd(ctx context.Context, endpoint string, args []string) {
	fs := flag.NewFlagSet(endpoint, flag.ExitOnError)
	text := fs.String("text", "", "entry title (required)")
	typ := fs.String("type", "", "entry type")
	phase := fs.String("phase", "", "entry phase")
	compass := fs.String("compass", "", "comma-separated compass tags")
	status := fs.String("status", "", "entry status")
	slug := fs.String("slug", "", "entry slug")
	artifact := fs.String("artifact", "", "artifact URL")
	content := fs.String("content", "", "free-text body")
	shadow := fs.Bool("shadow", false, "mark as shadow work")
	resonance := fs.Float64("resonance", 0, "resonance score")
	_ = fs.Parse(args)

	if *text == "" {
		log.Fatal("-text is required")
	}

	payload := map[string]any{"text": *text}
	setIf(payload, "type", *typ)
	setIf(payload, "phase", *phase)
	setIf(payload, "compass", *compass)
	setIf(payload, "status", *status)
	setIf(payload, "slug", *slug)
	setIf(payload, "artifact_url", *artifact)
	setIf(payload, "content", *content)
	if flagPassed(fs, "shadow") {
		payload["shadow"] = *shadow
	}
	if flagPassed(fs, "resonance") {
		payload["resonance"] = *resonance
	}

	c.post(ctx, "/journal/"+endpoint, payload)
}

func (c *cli) contentCmd(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("content", flag.ExitOnError)
	pageID := fs.String("page", "", "target page id (required)")
	text := fs.String("text", "", "text to append (required)")
	_ = fs.Parse(args)

	if *pageID == "" || *text == "" {
		log.Fatal("-page and -text are required")
	}
	c.post(ctx, "/journal/add_content", map[string]any{"page_id": *pageID, "text": *text})
}

func (c *cli) covenantCmd(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("covenant", flag.ExitOnError)
	title := fs.String("text", "", "override title")
	slug := fs.String("slug", "", "override slug")
	compass := fs.String("compass", "", "override compass tags")
	resonance := fs.Float64("resonance", 0, "override resonance")
	_ = fs.Parse(args)

	payload := map[string]any{}
	setIf(payload, "text", *title)
	setIf(payload, "slug", *slug)
	setIf(payload, "compass", *compass)
	if flagPassed(fs, "resonance") {
		payload["resonance"] = *resonance
	}
	c.post(ctx, "/journal/seed_covenant", payload)
}

func (c *cli) searchCmd(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	q := fs.String("q", "", "keyword query (required)")
	_ = fs.Parse(args)

	if *q == "" {
		log.Fatal("-q is required")
	}
	c.get(ctx, "/journal/search", url.Values{"q": {*q}})
}

func (c *cli) listCmd(ctx context.Context, path string, args []string) {
	fs := flag.NewFlagSet(path, flag.ExitOnError)
	limit := fs.Int("limit", 5, "number of entries")
	blocks := fs.Bool("blocks", false, "include blocks")
	_ = fs.Parse(args)

	qv := url.Values{"limit": {fmt.Sprint(*limit)}}
	if *blocks {
		qv.Set("include_blocks", "true")
	}
	c.get(ctx, path, qv)
}

func (c *cli) allCmd(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("all", flag.ExitOnError)
	editedAfter := fs.String("edited-after", "", "last-edited lower bound (ISO timestamp)")
	typ := fs.String("type", "", "type filter")
	status := fs.String("status", "", "status filter")
	_ = fs.Parse(args)

	qv := url.Values{}
	if *editedAfter != "" {
		qv.Set("edited_after", *editedAfter)
	}
	if *typ != "" {
		qv.Set("type", *typ)
	}
	if *status != "" {
		qv.Set("status", *status)
	}
	c.get(ctx, "/journal/fetch_all", qv)
}

func (c *cli) pageCmd(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("page", flag.ExitOnError)
	pageID := fs.String("id", "", "page id (required)")
	blocks := fs.Bool("blocks", false, "include blocks")
	_ = fs.Parse(args)

	if *pageID == "" {
		log.Fatal("-id is required")
	}
	qv := url.Values{"page_id": {*pageID}}
	if *blocks {
		qv.Set("include_blocks", "true")
	}
	c.get(ctx, "/journal/fetch_page", qv)
}

func (c *cli) get(ctx context.Context, path string, qv url.Values) {
	u := c.base + path
	if len(qv) > 0 {
		u += "?" + qv.Encode()
	}
	c.doRequest(ctx, http.MethodGet, u, nil)
}

func (c *cli) post(ctx context.Context, path string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Fatalf("marshal payload: %v", err)
	}
	c.doRequest(ctx, http.MethodPost, c.base+path, bytes.NewReader(data))
}

func (c *cli) doRequest(ctx context.Context, method, u string, body io.Reader) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		log.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.secret != "" {
		req.Header.Set("X-Angel-Secret", c.secret)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("read response: %v", err)
	}

	var pretty bytes.Buffer
	if json.Indent(&pretty, raw, "", "  ") == nil {
		fmt.Println(pretty.String())
	} else {
		fmt.Println(string(raw))
	}
	if resp.StatusCode >= 400 {
		os.Exit(1)
	}
}

func setIf(payload map[string]any, key, value string) {
	if value != "" {
		payload[key] = value
	}
}

func flagPassed(fs *flag.FlagSet, name string) bool {
	passed := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			passed = true
		}
	})
	return passed
}

func printUsage() {
	fmt.Println(`usage: bridge-cli [-api URL] [-secret VALUE] <command> [flags]

commands:
  append    create a journal entry
  log       create an entry with log defaults
  whisper   create a hidden entry
  content   append text blocks to a page
  covenant  seed the covenant document
  search    keyword search
  pulse     top entries by resonance
  recent    most recently edited entries
  all       full listing with filters
  page      fetch one page by id
  probe     container addressing info
  schema    property label table`)
}
