package entity

// ElementSummary describes one element found by inspect_elements.
type ElementSummary struct {
	Text       string `json:"text"`
	Type       string `json:"type"`
	Selector   string `json:"selector"`
	ClassName  string `json:"className"`
	ID         string `json:"id"`
	IsCheckbox bool   `json:"isCheckbox,omitempty"`
	Checked    *bool  `json:"checked,omitempty"`
}

// Event is a title/time pair pulled out of a card-like container.
type Event struct {
	Title string
	Time  string
}

type ResponseInfo struct {
	URL    string
	Status int
}

type Viewport struct {
	Width  int
	Height int
}

type ScreenshotFormat string

const (
	ScreenshotPNG  ScreenshotFormat = "png"
	ScreenshotJPEG ScreenshotFormat = "jpeg"
)

type ScreenshotOptions struct {
	FullPage bool
	Format   ScreenshotFormat
	Quality  int
}
