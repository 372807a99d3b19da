package output

import (
	"fmt"

	"github.com/fatih/color"
)

// ColorHelper colors report text. Colors are disabled automatically when
// stdout is not a terminal or NO_COLOR is set.
type ColorHelper struct {
	enabled bool
}

// NewColorHelper creates a new color helper.
func NewColorHelper() *ColorHelper {
	return &ColorHelper{
		enabled: !color.NoColor,
	}
}

// Success returns green colored text.
func (c *ColorHelper) Success(text string) string {
	if !c.enabled {
		return text
	}
	return color.GreenString(text)
}

// Failure returns red colored text.
func (c *ColorHelper) Failure(text string) string {
	if !c.enabled {
		return text
	}
	return color.RedString(text)
}

// Warning returns yellow colored text.
func (c *ColorHelper) Warning(text string) string {
	if !c.enabled {
		return text
	}
	return color.YellowString(text)
}

// Info returns cyan colored text.
func (c *ColorHelper) Info(text string) string {
	if !c.enabled {
		return text
	}
	return color.CyanString(text)
}

// Muted returns gray colored text.
func (c *ColorHelper) Muted(text string) string {
	if !c.enabled {
		return text
	}
	return color.New(color.FgHiBlack).Sprint(text)
}

// Bold returns bold text.
func (c *ColorHelper) Bold(text string) string {
	if !c.enabled {
		return text
	}
	return color.New(color.Bold).Sprint(text)
}

// Header returns bold cyan text for section headers.
func (c *ColorHelper) Header(text string) string {
	if !c.enabled {
		return text
	}
	return color.New(color.FgCyan, color.Bold).Sprint(text)
}

// FormatStatus returns a colored pass or fail marker.
func (c *ColorHelper) FormatStatus(passed bool) string {
	if passed {
		return c.Success("✓ PASS")
	}
	return c.Failure("✗ FAIL")
}

// FormatPercentage returns a colored percentage based on value.
func (c *ColorHelper) FormatPercentage(value float64) string {
	text := fmt.Sprintf("%.1f%%", value)
	if value == 100.0 {
		return c.Success(text)
	}
	if value >= 90.0 {
		return c.Warning(text)
	}
	return c.Failure(text)
}
