package entity

type ToolName string

const (
	ToolLaunch          ToolName = "launch"
	ToolNavigate        ToolName = "navigate"
	ToolClick           ToolName = "click"
	ToolType            ToolName = "type"
	ToolWaitForSelector ToolName = "wait_for_selector"
	ToolWaitForResponse ToolName = "wait_for_response"
	ToolWaitForTimeout  ToolName = "wait_for_timeout"
	ToolEvaluate        ToolName = "evaluate"
	ToolGetContent      ToolName = "get_content"
	ToolGetHTML         ToolName = "get_html"
	ToolInspectElements ToolName = "inspect_elements"
	ToolGetEvents       ToolName = "get_events"
	ToolScreenshot      ToolName = "screenshot"
	ToolClose           ToolName = "close"
)

func (t ToolName) String() string {
	return string(t)
}

// Arguments is the loosely typed argument bag of a tool call as decoded
// from the transport.
type Arguments map[string]any

type ToolCall struct {
	Name      ToolName
	Arguments Arguments
}

type ToolDefinition struct {
	Name        ToolName
	Description string
	Parameters  map[string]interface{}
}

type ToolResult struct {
	Text    string
	IsError bool
	Kind    ErrorKind
}

func SuccessResult(text string) *ToolResult {
	return &ToolResult{Text: text}
}

func ErrorResult(err error) *ToolResult {
	kind := KindOf(err)
	return &ToolResult{
		Text:    string(kind) + ": " + err.Error(),
		IsError: true,
		Kind:    kind,
	}
}
