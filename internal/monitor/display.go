package monitor

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/kiranshivaraju/keywordlens/pkg/models"
)

// Display is the title, message and colour shown for a job status.
type Display struct {
	Title   string
	Message string
	Color   color.Attribute
}

var unknownDisplay = Display{
	Title:   "Checking Status...",
	Message: "Getting job status...",
	Color:   color.FgWhite,
}

var displayTable = map[string]Display{
	models.JobStatusPending: {
		Title:   "Queued",
		Message: "Your analysis is waiting in queue...",
		Color:   color.FgYellow,
	},
	models.JobStatusProcessing: {
		Title:   "Processing",
		Message: "Analyzing your domain...",
		Color:   color.FgBlue,
	},
	models.JobStatusCompleted: {
		Title:   "Completed!",
		Message: "Your analysis is ready for download.",
		Color:   color.FgGreen,
	},
	models.JobStatusFailed: {
		Title:   "Failed",
		Message: "Something went wrong with your analysis.",
		Color:   color.FgRed,
	},
}

// DisplayFor looks up the default display for status. Unknown or empty
// statuses get the "Checking Status..." entry.
func DisplayFor(status string) Display {
	if d, ok := displayTable[status]; ok {
		return d
	}
	return unknownDisplay
}

// Describe is DisplayFor with the snapshot's own text applied: a processing
// message or a failed error replaces the default message. A nil snapshot
// means no status has been fetched yet.
func Describe(snap *models.JobSnapshot) Display {
	if snap == nil {
		return unknownDisplay
	}
	d := DisplayFor(snap.Status)
	switch {
	case snap.Status == models.JobStatusProcessing && snap.Message != "":
		d.Message = snap.Message
	case snap.Status == models.JobStatusFailed && snap.Error != "":
		d.Message = snap.Error
	}
	return d
}

// Line renders a one-line coloured status, with a progress bar while
// processing.
func Line(snap *models.JobSnapshot) string {
	d := Describe(snap)
	title := color.New(d.Color, color.Bold).Sprint(d.Title)
	if snap != nil && snap.Status == models.JobStatusProcessing {
		return fmt.Sprintf("%s %s %d%%  %s", title, progressBar(snap.ProgressPercent(), 20), snap.ProgressPercent(), d.Message)
	}
	return fmt.Sprintf("%s  %s", title, d.Message)
}

func progressBar(pct, width int) string {
	filled := pct * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}
