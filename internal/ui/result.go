package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/netauto/iosxecfg/internal/restconf"
)

// ResultType indicates success, failure or a partially applied change
type ResultType int

const (
	ResultSuccess ResultType = iota
	ResultFailure
	ResultWarning
)

// Detail is one key/value line of a result box. Details render in the
// order they were added.
type Detail struct {
	Key   string
	Value string
}

// Result represents a result box
type Result struct {
	Type            ResultType
	Title           string // e.g., "Hostname updated"
	Details         []Detail
	Error           error    // for failure results
	Troubleshooting []string // for failure results
	Width           int
}

// NewSuccessResult creates a success result box
func NewSuccessResult(title string) *Result {
	return &Result{Type: ResultSuccess, Title: title, Width: GetTerminalWidth()}
}

// NewFailureResult creates a failure result box
func NewFailureResult(title string, err error, troubleshooting []string) *Result {
	return &Result{
		Type:            ResultFailure,
		Title:           title,
		Error:           err,
		Troubleshooting: troubleshooting,
		Width:           GetTerminalWidth(),
	}
}

// NewWarningResult creates a warning result box
func NewWarningResult(title string) *Result {
	return &Result{Type: ResultWarning, Title: title, Width: GetTerminalWidth()}
}

// FailureFromError builds a failure box from a restconf error, filling in the
// short message and troubleshooting hints for its kind.
func FailureFromError(title string, err error) *Result {
	r := NewFailureResult(title, err, restconf.TroubleshootingHint(err))
	if err != nil {
		r.Error = errors.New(restconf.ShortMessage(err))
	}
	return r
}

// OutcomeResult renders an interface change. A partial outcome is a warning,
// never a success.
func OutcomeResult(o restconf.InterfaceOutcome) *Result {
	var r *Result
	switch {
	case o.Complete():
		r = NewSuccessResult("Interface " + o.Name + " configured")
	case o.Partial():
		r = NewWarningResult("Interface " + o.Name + " partially configured")
	default:
		err := o.AddressErr
		if err == nil {
			err = o.DescriptionErr
		}
		r = FailureFromError("Interface "+o.Name+" not configured", err)
	}
	r.AddDetail("Address", partText(o.AddressApplied, o.AddressSkipped, o.AddressErr))
	r.AddDetail("Description", partText(o.DescriptionApplied, o.DescriptionSkipped, o.DescriptionErr))
	return r
}

func partText(applied, skipped bool, err error) string {
	state := restconf.PartState(applied, skipped)
	if !applied && !skipped && err != nil {
		return state + ": " + restconf.ShortMessage(err)
	}
	return state
}

// SetWidth sets the terminal width for responsive rendering
func (r *Result) SetWidth(width int) *Result {
	r.Width = width
	return r
}

// AddDetail appends a detail line
func (r *Result) AddDetail(key, value string) *Result {
	r.Details = append(r.Details, Detail{Key: key, Value: value})
	return r
}

// Render returns the styled result box as a string
func (r *Result) Render() string {
	width := r.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	var (
		title string
		color lipgloss.Color
	)
	switch r.Type {
	case ResultFailure:
		title = ErrorTitleStyle.Render(fmt.Sprintf("   %s  FAILED  ─  %s", FailureMarker, r.Title))
		color = ErrorColor
	case ResultWarning:
		title = WarningTitleStyle.Render(fmt.Sprintf("   %s  PARTIAL  ─  %s", WarningMarker, r.Title))
		color = WarningColor
	default:
		title = SuccessTitleStyle.Render(fmt.Sprintf("   %s  SUCCESS  ─  %s", SuccessMarker, r.Title))
		color = SuccessColor
	}

	lines := []string{"", title, ""}

	if r.Type == ResultFailure && r.Error != nil {
		lines = append(lines, ErrorMessageStyle.Render("   Error: "+r.Error.Error()), "")
	}

	for _, d := range r.Details {
		lines = append(lines, ResultKeyStyle.Render("   "+d.Key+":")+" "+ResultValueStyle.Render(d.Value))
	}
	if len(r.Details) > 0 {
		lines = append(lines, "")
	}

	if r.Type == ResultFailure && len(r.Troubleshooting) > 0 {
		lines = append(lines, r.renderTroubleshootingBox(width), "")
	}

	return resultBoxStyle(width, color).Render(strings.Join(lines, "\n"))
}

func (r *Result) renderTroubleshootingBox(width int) string {
	lines := []string{TroubleshootingTitleStyle.Render("Troubleshooting:"), ""}
	for _, tip := range r.Troubleshooting {
		lines = append(lines, TroubleshootingItemStyle.Render("  • "+tip))
	}
	return TroubleshootingBoxStyle(width).Render(strings.Join(lines, "\n"))
}

// String implements fmt.Stringer
func (r *Result) String() string {
	return r.Render()
}
