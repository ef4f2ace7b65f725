package catalog

import "browser-mcp/internal/domain/entity"

// Order is the order in which tools are advertised.
var Order = []entity.ToolName{
	entity.ToolLaunch,
	entity.ToolNavigate,
	entity.ToolClick,
	entity.ToolType,
	entity.ToolWaitForSelector,
	entity.ToolWaitForResponse,
	entity.ToolWaitForTimeout,
	entity.ToolEvaluate,
	entity.ToolGetContent,
	entity.ToolGetHTML,
	entity.ToolInspectElements,
	entity.ToolGetEvents,
	entity.ToolScreenshot,
	entity.ToolClose,
}

var descriptions = map[entity.ToolName]string{
	entity.ToolLaunch:          "Launch a new browser instance. Must be called before any other operation. Launching again replaces the current browser.",
	entity.ToolNavigate:        "Navigate the page to a URL and wait for the given readiness condition.",
	entity.ToolClick:           "Click an element. Waits for the element to be visible first.",
	entity.ToolType:            "Type text into an element key by key, replacing its current content.",
	entity.ToolWaitForSelector: "Wait for an element to appear on the page.",
	entity.ToolWaitForResponse: "Wait for a network response whose URL contains the given substring.",
	entity.ToolWaitForTimeout:  "Pause for a fixed number of milliseconds. Prefer wait_for_selector or wait_for_response.",
	entity.ToolEvaluate:        "Execute JavaScript in the page and return the result. The code runs unrestricted with the page's privileges; an exception is returned as {\"error\": message}.",
	entity.ToolGetContent:      "Get the visible text of the page or of a specific element.",
	entity.ToolGetHTML:         "Get the cleaned HTML (no scripts, styles or comments) of the page or of a specific element.",
	entity.ToolInspectElements: "Inspect interactive elements such as date pickers, checkboxes, dropdowns and buttons, and return ready-to-use selectors.",
	entity.ToolGetEvents:       "Extract event titles and times from card-like containers. Containers without both a title and a time are skipped.",
	entity.ToolScreenshot:      "Save a screenshot of the page to a file. The format follows the extension (.png, .jpg).",
	entity.ToolClose:           "Close the browser and release its resources. Safe to call when nothing is open.",
}

func Description(name entity.ToolName) string {
	return descriptions[name]
}

func object(required []string, props map[string]interface{}) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func prop(typ, description string, def interface{}) map[string]interface{} {
	p := map[string]interface{}{
		"type":        typ,
		"description": description,
	}
	if def != nil {
		p["default"] = def
	}
	return p
}

// Parameters returns the JSON schema for name with this profile's defaults
// filled in, or nil for an unknown tool.
func (d Defaults) Parameters(name entity.ToolName) map[string]interface{} {
	switch name {
	case entity.ToolLaunch:
		return object(nil, map[string]interface{}{
			"headless": prop("boolean", "Run without a visible window", d.Headless),
			"url":      prop("string", "Optional URL to open after launch", nil),
		})
	case entity.ToolNavigate:
		return object([]string{"url"}, map[string]interface{}{
			"url": prop("string", "URL to navigate to", nil),
			"waitUntil": map[string]interface{}{
				"type":        "string",
				"description": "When navigation counts as finished",
				"enum":        waitUntilValues,
				"default":     d.NavigateWaitUntil,
			},
			"timeout": prop("number", "Maximum navigation time in milliseconds", d.NavigateTimeoutMS),
		})
	case entity.ToolClick:
		return object([]string{"selector"}, map[string]interface{}{
			"selector": prop("string", "CSS selector of the element to click (e.g. 'button.submit', '#login-btn')", nil),
			"timeout":  prop("number", "Maximum time to wait for the element in milliseconds", d.ClickTimeoutMS),
		})
	case entity.ToolType:
		return object([]string{"selector", "text"}, map[string]interface{}{
			"selector": prop("string", "CSS selector of the input", nil),
			"text":     prop("string", "Text to type", nil),
			"delay":    prop("number", "Delay between keystrokes in milliseconds", d.TypeDelayMS),
			"timeout":  prop("number", "Maximum time to wait for the element in milliseconds", d.ClickTimeoutMS),
		})
	case entity.ToolWaitForSelector:
		return object([]string{"selector"}, map[string]interface{}{
			"selector": prop("string", "CSS selector to wait for", nil),
			"visible":  prop("boolean", "Wait for the element to be visible, not just present", d.WaitVisible),
			"timeout":  prop("number", "Maximum time to wait in milliseconds", d.WaitTimeoutMS),
		})
	case entity.ToolWaitForResponse:
		return object([]string{"urlPattern"}, map[string]interface{}{
			"urlPattern": prop("string", "Substring the response URL must contain", nil),
			"timeout":    prop("number", "Maximum time to wait in milliseconds", d.ResponseTimeoutMS),
		})
	case entity.ToolWaitForTimeout:
		return object([]string{"timeout"}, map[string]interface{}{
			"timeout": prop("number", "Milliseconds to wait", nil),
		})
	case entity.ToolEvaluate:
		return object([]string{"code"}, map[string]interface{}{
			"code": prop("string", "JavaScript expression or statements; the completion value is returned", nil),
		})
	case entity.ToolGetContent:
		return object(nil, map[string]interface{}{
			"selector": prop("string", "Optional CSS selector of a specific element", nil),
			"limit":    prop("number", "Maximum characters to return", d.ContentLimit),
		})
	case entity.ToolGetHTML:
		return object(nil, map[string]interface{}{
			"selector": prop("string", "Optional CSS selector of a specific element", nil),
			"limit":    prop("number", "Maximum bytes to return", d.HTMLLimit),
		})
	case entity.ToolInspectElements:
		return object(nil, map[string]interface{}{
			"searchTerm": prop("string", "Text to search for (e.g. 'Date', 'Location'). Leave empty to list all matching elements.", nil),
			"elementTypes": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "Element selectors to enumerate",
				"default":     d.InspectTypes,
			},
			"limit": prop("number", "Maximum elements to return", d.InspectLimit),
		})
	case entity.ToolGetEvents:
		return object(nil, map[string]interface{}{
			"containerSelector": prop("string", "CSS selector of an event container", d.EventsSelector),
			"limit":             prop("number", "Maximum containers to examine", d.EventsLimit),
		})
	case entity.ToolScreenshot:
		return object([]string{"path"}, map[string]interface{}{
			"path":     prop("string", "File to write the image to", nil),
			"fullPage": prop("boolean", "Capture the whole scrollable page", false),
			"maxWidth": prop("number", "Downscale images wider than this many pixels (0 keeps the original size)", 0),
			"quality":  prop("number", "JPEG quality 1-100, used for .jpg paths", d.ScreenshotQuality),
		})
	case entity.ToolClose:
		return object(nil, map[string]interface{}{})
	}
	return nil
}
