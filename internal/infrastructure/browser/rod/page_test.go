package rod

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"browser-mcp/internal/application/catalog"
	"browser-mcp/internal/application/port/output"
	"browser-mcp/internal/application/port/output/outputtest"
	"browser-mcp/internal/domain/entity"
	"browser-mcp/internal/domain/inspector"
)

type hits struct {
	mu    sync.Mutex
	paths map[string]int
}

func (h *hits) count(path string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.paths[path]
}

func newTestServer(t *testing.T) (*httptest.Server, *hits) {
	t.Helper()
	h := &hits{paths: map[string]int{}}
	pages := map[string]string{
		"/":          BasicHTML,
		"/form":      FormHTML,
		"/resources": ResourcesHTML,
		"/rich":      RichUIHTML,
		"/delayed":   DelayedHTML,
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		h.paths[r.URL.Path]++
		h.mu.Unlock()

		switch {
		case strings.HasSuffix(r.URL.Path, ".css"):
			w.Header().Set("Content-Type", "text/css")
			fmt.Fprint(w, "body { color: red; }")
		case strings.HasSuffix(r.URL.Path, ".js"):
			w.Header().Set("Content-Type", "application/javascript")
			fmt.Fprint(w, "window.appLoaded = true;")
		case strings.HasSuffix(r.URL.Path, ".png"):
			w.Header().Set("Content-Type", "image/png")
		case strings.HasSuffix(r.URL.Path, ".woff2"):
			w.Header().Set("Content-Type", "font/woff2")
		case strings.HasSuffix(r.URL.Path, ".mp3"):
			w.Header().Set("Content-Type", "audio/mpeg")
		case strings.HasPrefix(r.URL.Path, "/api/"):
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"ok":true}`)
		default:
			body, ok := pages[r.URL.Path]
			if !ok {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, body)
		}
	}))
	t.Cleanup(server.Close)
	return server, h
}

// openPage launches a headless browser with the standard resource policy.
// Tests skip when no browser binary is installed.
func openPage(t *testing.T) output.Page {
	t.Helper()
	if testing.Short() {
		t.Skip("browser tests are skipped in -short mode")
	}
	bin, found := launcher.LookPath()
	if !found {
		t.Skip("no Chromium binary found")
	}

	cfg := DefaultConfig()
	cfg.Bin = bin
	engine := NewEngine(cfg, outputtest.NewLogger())
	ctx := context.Background()
	policy := entity.NewResourcePolicy(entity.BlockStandard)

	browser, err := engine.Launch(ctx, output.LaunchOptions{Headless: true, Policy: policy})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, browser.Close()) })

	page, err := browser.NewPage(ctx)
	require.NoError(t, err)
	require.NoError(t, page.SetViewport(ctx, entity.Viewport{Width: 1280, Height: 800}))
	require.NoError(t, page.InstallResourceFilter(policy))
	return page
}

func navigate(t *testing.T, page output.Page, url string) {
	t.Helper()
	require.NoError(t, page.Navigate(context.Background(), url, "load", 10*time.Second))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.NoSandbox)
	assert.False(t, cfg.Stealth)
	assert.Empty(t, cfg.Bin)
}

func TestEngine_AggressiveFlags(t *testing.T) {
	e := NewEngine(DefaultConfig(), outputtest.NewLogger())

	l := e.launcher(output.LaunchOptions{Headless: true, Policy: entity.NewResourcePolicy(entity.BlockAggressive)})
	assert.Equal(t, "imagesEnabled=false", l.Get("blink-settings"))
	assert.True(t, l.Has("disable-plugins"))
	assert.True(t, l.Has("disable-extensions"))

	l = e.launcher(output.LaunchOptions{Headless: true, Policy: entity.NewResourcePolicy(entity.BlockStandard)})
	assert.False(t, l.Has("blink-settings"))
	assert.False(t, l.Has("disable-plugins"))
	assert.Equal(t, "AutomationControlled", l.Get("disable-blink-features"))
}

func TestEngine_DefaultProfileFlags(t *testing.T) {
	e := NewEngine(DefaultConfig(), outputtest.NewLogger())

	l := e.launcher(output.LaunchOptions{Policy: catalog.Standard().ResourcePolicy()})
	assert.Equal(t, "AutomationControlled", l.Get("disable-blink-features"))
	assert.Equal(t, "imagesEnabled=false", l.Get("blink-settings"))
	assert.True(t, l.Has("disable-plugins"))
	assert.True(t, l.Has("disable-extensions"))
	assert.True(t, l.Has("disable-dev-shm-usage"))
	assert.Equal(t, "1920,1080", l.Get("window-size"))
	assert.False(t, l.Has("use-mock-keychain"))
}

func TestPage_EndToEnd(t *testing.T) {
	page := openPage(t)
	ctx := context.Background()

	require.NoError(t, page.Navigate(ctx, "about:blank", "domcontentloaded", 10*time.Second))
	out, err := page.Evaluate(ctx, "1+1")
	require.NoError(t, err)
	assert.Equal(t, "2", out)
}

func TestPage_NavigateAndInfo(t *testing.T) {
	server, _ := newTestServer(t)
	page := openPage(t)
	ctx := context.Background()

	for _, waitUntil := range []string{"load", "domcontentloaded", "networkidle2"} {
		require.NoError(t, page.Navigate(ctx, server.URL, waitUntil, 10*time.Second), waitUntil)
	}

	title, err := page.Title(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Test Page", title)

	url, err := page.URL(ctx)
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/", url)

	err = page.Navigate(ctx, "http://127.0.0.1:1/", "load", 5*time.Second)
	assert.ErrorIs(t, err, entity.ErrNavigationFailure)
}

func TestPage_ResourceFilter(t *testing.T) {
	server, h := newTestServer(t)
	page := openPage(t)
	ctx := context.Background()

	navigate(t, page, server.URL+"/resources")
	require.NoError(t, page.WaitForSelector(ctx, "#done", false, 5*time.Second))

	loaded, err := page.Evaluate(ctx, "window.appLoaded === true")
	require.NoError(t, err)
	assert.Equal(t, "true", loaded, "scripts must pass the filter")

	font, err := page.Evaluate(ctx, `new FontFace("Face", "url(/assets/face.woff2)").load().then(() => "loaded", () => "failed")`)
	require.NoError(t, err)
	assert.Equal(t, `"failed"`, font)

	media, err := page.Evaluate(ctx, `new Promise((resolve) => {
		const a = document.createElement("audio");
		a.onerror = () => resolve("failed");
		a.oncanplay = () => resolve("loaded");
		a.src = "/assets/track.mp3";
		a.load();
	})`)
	require.NoError(t, err)
	assert.Equal(t, `"failed"`, media)

	status, err := page.Evaluate(ctx, `fetch("/api/ping").then((r) => r.status)`)
	require.NoError(t, err)
	assert.Equal(t, "201", status, "fetch must pass the filter")

	assert.Equal(t, 1, h.count("/resources"))
	assert.Equal(t, 1, h.count("/assets/app.js"))
	assert.Equal(t, 1, h.count("/api/ping"))
	for path, category := range map[string]string{
		"/assets/site.css":    "stylesheet",
		"/assets/logo.png":    "image",
		"/assets/brand.woff2": "font",
		"/assets/face.woff2":  "font",
		"/assets/clip.mp3":    "media",
		"/assets/track.mp3":   "media",
	} {
		assert.Zero(t, h.count(path), "%s requests must be blocked", category)
	}
}

func TestPage_ClickAndType(t *testing.T) {
	server, _ := newTestServer(t)
	page := openPage(t)
	ctx := context.Background()
	navigate(t, page, server.URL+"/form")

	require.NoError(t, page.Type(ctx, "#username", "new user", 0, 5*time.Second))
	value, err := page.Evaluate(ctx, "document.getElementById('username').value")
	require.NoError(t, err)
	assert.Equal(t, `"new user"`, value)

	require.NoError(t, page.Type(ctx, "#notes", "fresh", 0, 5*time.Second))
	notes, err := page.InnerText(ctx, "#notes")
	require.NoError(t, err)
	assert.Equal(t, "fresh", notes)

	require.NoError(t, page.Click(ctx, "#submit", 5*time.Second))
	text, err := page.InnerText(ctx, "#result")
	require.NoError(t, err)
	assert.Equal(t, "Clicked!", text)

	err = page.Click(ctx, "#missing", 300*time.Millisecond)
	assert.ErrorIs(t, err, entity.ErrElementNotFound)

	err = page.Click(ctx, "#hidden", 300*time.Millisecond)
	assert.ErrorIs(t, err, entity.ErrElementNotFound)
}

func TestPage_Waits(t *testing.T) {
	server, _ := newTestServer(t)
	page := openPage(t)
	ctx := context.Background()

	navigate(t, page, server.URL+"/delayed")
	resp, err := page.WaitForResponse(ctx, "/api/items", 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.Status)
	assert.Contains(t, resp.URL, "/api/items?page=2")

	require.NoError(t, page.WaitForSelector(ctx, "#late", true, 5*time.Second))

	err = page.WaitForSelector(ctx, "#never", false, 200*time.Millisecond)
	assert.ErrorIs(t, err, entity.ErrTimeout)

	_, err = page.WaitForResponse(ctx, "/never", 200*time.Millisecond)
	assert.ErrorIs(t, err, entity.ErrTimeout)
}

func TestPage_Evaluate(t *testing.T) {
	page := openPage(t)
	ctx := context.Background()
	require.NoError(t, page.Navigate(ctx, "about:blank", "load", 5*time.Second))

	out, err := page.Evaluate(ctx, "undefined")
	require.NoError(t, err)
	assert.Equal(t, "undefined", out)

	out, err = page.Evaluate(ctx, "({a: 1})")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, out)

	out, err = page.Evaluate(ctx, "throw new Error('boom')")
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"boom"}`, out)

	out, err = page.Evaluate(ctx, "Promise.reject(new Error('later'))")
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"later"}`, out)
}

func TestPage_ContentAndDocument(t *testing.T) {
	server, _ := newTestServer(t)
	page := openPage(t)
	ctx := context.Background()
	navigate(t, page, server.URL+"/rich")

	html, err := page.HTML(ctx, "#btn1")
	require.NoError(t, err)
	assert.Equal(t, `<button id="btn1" aria-label="First Button">Button 1</button>`, html)

	_, err = page.InnerText(ctx, "#missing")
	assert.ErrorIs(t, err, entity.ErrElementNotFound)

	doc, err := page.Document(ctx)
	require.NoError(t, err)

	found, err := inspector.Inspect(doc, inspector.InspectOptions{SearchTerm: "agree", Limit: 10})
	require.NoError(t, err)
	require.NotEmpty(t, found)
	assert.Equal(t, "#agree", found[0].Selector)
	assert.Equal(t, "I agree", found[0].Text)
	require.NotNil(t, found[0].Checked)
	assert.False(t, *found[0].Checked)

	found, err = inspector.Inspect(doc, inspector.InspectOptions{SearchTerm: "direct", Limit: 10})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, ".toggle", found[0].Selector)
	assert.True(t, *found[0].Checked)

	events, err := inspector.ExtractEvents(doc, "", 10)
	require.NoError(t, err)
	assert.Equal(t, []entity.Event{{Title: "Release party", Time: "Oct 20"}}, events)
}

func TestPage_Screenshot(t *testing.T) {
	server, _ := newTestServer(t)
	page := openPage(t)
	ctx := context.Background()
	navigate(t, page, server.URL)

	data, err := page.Screenshot(ctx, entity.ScreenshotOptions{Format: entity.ScreenshotPNG})
	require.NoError(t, err)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 1280, cfg.Width)

	data, err = page.Screenshot(ctx, entity.ScreenshotOptions{Format: entity.ScreenshotJPEG, Quality: 50})
	require.NoError(t, err)
	_, format, err = image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}
