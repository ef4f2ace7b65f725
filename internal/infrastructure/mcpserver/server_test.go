package mcpserver

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"browser-mcp/internal/application/port/output/outputtest"
	"browser-mcp/internal/domain/entity"
)

type fakeDispatcher struct {
	calls []entity.ToolCall
}

func (d *fakeDispatcher) Definitions() []entity.ToolDefinition {
	return []entity.ToolDefinition{
		{
			Name:        entity.ToolLaunch,
			Description: "Launch a browser",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"headless": map[string]interface{}{"type": "boolean", "default": false},
				},
			},
		},
		{
			Name:        entity.ToolClick,
			Description: "Click an element",
			Parameters: map[string]interface{}{
				"type":     "object",
				"required": []string{"selector"},
				"properties": map[string]interface{}{
					"selector": map[string]interface{}{"type": "string"},
				},
			},
		},
	}
}

func (d *fakeDispatcher) Call(ctx context.Context, call entity.ToolCall) *entity.ToolResult {
	d.calls = append(d.calls, call)
	if call.Name == entity.ToolClick {
		return entity.ErrorResult(entity.ErrNotLaunched)
	}
	return entity.SuccessResult("Launched")
}

type fakeStatus struct {
	open bool
	id   string
}

func (s fakeStatus) IsOpen() bool { return s.open }
func (s fakeStatus) ID() string   { return s.id }

func newServer(t *testing.T, d *fakeDispatcher, status SessionStatus) *Server {
	t.Helper()
	s, err := New(Config{Name: "browser-mcp", Version: "test"}, d, status, outputtest.NewLogger())
	require.NoError(t, err)
	return s
}

func TestToCallResult(t *testing.T) {
	ok := ToCallResult(entity.SuccessResult("Clicked #go"))
	assert.False(t, ok.IsError)
	require.Len(t, ok.Content, 1)
	text, isText := mcp.AsTextContent(ok.Content[0])
	require.True(t, isText)
	assert.Equal(t, "text", text.Type)
	assert.Equal(t, "Clicked #go", text.Text)

	failed := ToCallResult(entity.ErrorResult(fmt.Errorf("%w: #go", entity.ErrElementNotFound)))
	assert.True(t, failed.IsError)
	require.Len(t, failed.Content, 1)
	text, isText = mcp.AsTextContent(failed.Content[0])
	require.True(t, isText)
	assert.Equal(t, "ElementNotFound: element not found: #go", text.Text)
}

func TestHandler_Healthz(t *testing.T) {
	s := newServer(t, &fakeDispatcher{}, fakeStatus{open: true, id: "abc"})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","session_open":true,"session_id":"abc"}`, rec.Body.String())
}

type rpcResponse struct {
	ID     int             `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  json.RawMessage `json:"error"`
}

type stdioClient struct {
	t       *testing.T
	in      *io.PipeWriter
	scanner *bufio.Scanner
	seen    map[int]rpcResponse
}

func (c *stdioClient) send(msg string) {
	c.t.Helper()
	_, err := io.WriteString(c.in, msg+"\n")
	require.NoError(c.t, err)
}

func (c *stdioClient) await(id int) rpcResponse {
	c.t.Helper()
	for {
		if resp, ok := c.seen[id]; ok {
			return resp
		}
		require.True(c.t, c.scanner.Scan(), "stdio stream ended before response %d", id)
		var resp rpcResponse
		if err := json.Unmarshal(c.scanner.Bytes(), &resp); err != nil || resp.ID == 0 {
			continue
		}
		c.seen[resp.ID] = resp
	}
}

func TestServeStdio_ListAndCall(t *testing.T) {
	d := &fakeDispatcher{}
	s := newServer(t, d, fakeStatus{})

	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.ServeStdio(ctx, inR, outW, nil)
		outW.Close()
	}()

	c := &stdioClient{t: t, in: inW, scanner: bufio.NewScanner(outR), seen: map[int]rpcResponse{}}
	c.send(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`)
	require.Empty(t, c.await(1).Error)
	c.send(`{"jsonrpc":"2.0","method":"notifications/initialized"}`)

	c.send(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	var list struct {
		Tools []struct {
			Name        string          `json:"name"`
			InputSchema json.RawMessage `json:"inputSchema"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(c.await(2).Result, &list))
	names := []string{}
	for _, tl := range list.Tools {
		names = append(names, tl.Name)
	}
	assert.ElementsMatch(t, []string{"launch", "click"}, names)

	c.send(`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"click","arguments":{"selector":"#go"}}}`)
	var call struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		IsError bool `json:"isError"`
	}
	require.NoError(t, json.Unmarshal(c.await(3).Result, &call))
	assert.True(t, call.IsError)
	require.Len(t, call.Content, 1)
	assert.Equal(t, "text", call.Content[0].Type)
	assert.Equal(t, "NotLaunched: browser not launched, call launch first", call.Content[0].Text)

	require.Len(t, d.calls, 1)
	assert.Equal(t, entity.ToolClick, d.calls[0].Name)
	assert.Equal(t, "#go", d.calls[0].Arguments["selector"])

	c.send(`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"fly","arguments":{}}}`)
	assert.NotEmpty(t, c.await(4).Error)
	assert.Len(t, d.calls, 1)

	c.send(`{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"click","arguments":{"selector":"#again"}}}`)
	require.NoError(t, json.Unmarshal(c.await(5).Result, &call))
	assert.True(t, call.IsError)
	require.Len(t, d.calls, 2)

	cancel()
	inW.Close()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("stdio server did not stop")
	}
}
