package svg

import "github.com/shopspring/decimal"

// Bar is one labelled value of a horizontal bar chart. Display is the text
// printed next to the bar, typically a formatted amount.
type Bar struct {
	Label   string
	Value   decimal.Decimal
	Display string
}

// BarOpts customises the horizontal bar renderer.
type BarOpts struct {
	Title       string
	Description string
	BarColor    string
	TrackColor  string
	TextColor   string
	RowHeight   float64
	LabelWidth  float64
	ValueWidth  float64
}

// Defaults for the dashboard chart.
const (
	DefaultWidth      = 720
	DefaultRowHeight  = 28.0
	DefaultLabelWidth = 160.0
	DefaultValueWidth = 96.0
)
