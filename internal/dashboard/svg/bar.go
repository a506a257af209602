// Package svg renders the dashboard sales chart as inline SVG.
package svg

import (
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNoBars is returned when there is nothing to draw.
var ErrNoBars = errors.New("svg: at least one bar required")

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// BarPercent sizes value against the largest value of the set:
// min(100, value / max(maxValue, 1) * 100). Negative values draw nothing.
func BarPercent(value, maxValue decimal.Decimal) float64 {
	denom := decimal.Max(maxValue, one)
	pct := value.Div(denom).Mul(hundred)
	if pct.GreaterThan(hundred) {
		pct = hundred
	}
	if pct.IsNegative() {
		pct = decimal.Zero
	}
	return pct.InexactFloat64()
}

// MaxValue returns the largest bar value, or zero for an empty set.
func MaxValue(bars []Bar) decimal.Decimal {
	maxValue := decimal.Zero
	for i, b := range bars {
		if i == 0 || b.Value.GreaterThan(maxValue) {
			maxValue = b.Value
		}
	}
	return maxValue
}

// HorizontalBars renders one row per bar. Widths are relative to the
// largest value in bars, not to any absolute scale.
func HorizontalBars(width int, bars []Bar, opts BarOpts) (template.HTML, error) {
	if len(bars) == 0 {
		return "", ErrNoBars
	}
	if width <= 0 {
		width = DefaultWidth
	}
	rowHeight := opts.RowHeight
	if rowHeight <= 0 {
		rowHeight = DefaultRowHeight
	}
	labelWidth := opts.LabelWidth
	if labelWidth <= 0 {
		labelWidth = DefaultLabelWidth
	}
	valueWidth := opts.ValueWidth
	if valueWidth <= 0 {
		valueWidth = DefaultValueWidth
	}
	trackWidth := float64(width) - labelWidth - valueWidth
	if trackWidth <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}

	barColor := fallback(opts.BarColor, "#2563eb")
	trackColor := fallback(opts.TrackColor, "#e5e7eb")
	textColor := fallback(opts.TextColor, "#374151")
	height := rowHeight * float64(len(bars))
	maxValue := MaxValue(bars)

	titleID := makeID(opts.Title, "hbar-title")
	descID := makeID(opts.Title, "hbar-desc")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %.0f\" role=\"img\" aria-labelledby=\"%s %s\">", width, height, titleID, descID))
	b.WriteString(fmt.Sprintf("<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Bar chart"))))
	b.WriteString(fmt.Sprintf("<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, "Horizontal bar comparison"))))

	barHeight := rowHeight * 0.6
	for i, bar := range bars {
		top := float64(i) * rowHeight
		barY := top + (rowHeight-barHeight)/2
		textY := top + rowHeight/2 + 4
		pct := BarPercent(bar.Value, maxValue)
		fill := trackWidth * pct / 100

		b.WriteString(fmt.Sprintf("<g data-percent=\"%.2f\">", pct))
		b.WriteString(fmt.Sprintf("<text x=\"0\" y=\"%.2f\" fill=\"%s\" font-size=\"12\">%s</text>", textY, textColor, template.HTMLEscapeString(bar.Label)))
		b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" rx=\"3\" fill=\"%s\"></rect>", labelWidth, barY, trackWidth, barHeight, trackColor))
		b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" rx=\"3\" fill=\"%s\" aria-label=\"%s\"></rect>", labelWidth, barY, fill, barHeight, barColor, template.HTMLEscapeString(bar.Label)))
		b.WriteString(fmt.Sprintf("<text x=\"%d\" y=\"%.2f\" fill=\"%s\" font-size=\"12\" text-anchor=\"end\">%s</text>", width, textY, textColor, template.HTMLEscapeString(bar.Display)))
		b.WriteString("</g>")
	}

	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

func fallback(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return value
}

func makeID(base, suffix string) string {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, strings.ToLower(strings.TrimSpace(base)))
	cleaned = strings.Trim(cleaned, "-")
	if cleaned == "" {
		cleaned = "chart"
	}
	return cleaned + "-" + suffix
}
