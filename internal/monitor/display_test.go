package monitor

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/kiranshivaraju/keywordlens/pkg/models"
)

func TestDisplayFor(t *testing.T) {
	tests := []struct {
		status string
		title  string
		color  color.Attribute
	}{
		{models.JobStatusPending, "Queued", color.FgYellow},
		{models.JobStatusProcessing, "Processing", color.FgBlue},
		{models.JobStatusCompleted, "Completed!", color.FgGreen},
		{models.JobStatusFailed, "Failed", color.FgRed},
		{"", "Checking Status...", color.FgWhite},
		{"archived", "Checking Status...", color.FgWhite},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			d := DisplayFor(tt.status)
			assert.Equal(t, tt.title, d.Title)
			assert.Equal(t, tt.color, d.Color)
			assert.NotEmpty(t, d.Message)
		})
	}
}

func TestDescribe(t *testing.T) {
	t.Run("nil snapshot", func(t *testing.T) {
		assert.Equal(t, "Checking Status...", Describe(nil).Title)
	})

	t.Run("processing message overrides default", func(t *testing.T) {
		d := Describe(&models.JobSnapshot{Status: models.JobStatusProcessing, Message: "Analyzing keywords for acme.io..."})
		assert.Equal(t, "Processing", d.Title)
		assert.Equal(t, "Analyzing keywords for acme.io...", d.Message)
	})

	t.Run("failed error overrides default", func(t *testing.T) {
		d := Describe(&models.JobSnapshot{Status: models.JobStatusFailed, Error: "network error"})
		assert.Equal(t, "network error", d.Message)
	})

	t.Run("pending message is ignored", func(t *testing.T) {
		d := Describe(&models.JobSnapshot{Status: models.JobStatusPending, Message: "custom"})
		assert.Equal(t, "Your analysis is waiting in queue...", d.Message)
	})
}

func TestLine(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	p := 40
	line := Line(&models.JobSnapshot{Status: models.JobStatusProcessing, Progress: &p})
	assert.Equal(t, "Processing [########------------] 40%  Analyzing your domain...", line)

	assert.Equal(t, "Completed!  Your analysis is ready for download.",
		Line(&models.JobSnapshot{Status: models.JobStatusCompleted}))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "[----]", progressBar(0, 4))
	assert.Equal(t, "[##--]", progressBar(50, 4))
	assert.Equal(t, "[####]", progressBar(100, 4))
}
