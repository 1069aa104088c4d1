package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/kiranshivaraju/keywordlens/internal/monitor"
	"github.com/kiranshivaraju/keywordlens/pkg/models"
)

func renderView(w io.Writer, v monitor.View) {
	switch v := v.(type) {
	case monitor.FormView:
		if v.Notice != "" {
			fmt.Fprintln(w, v.Notice)
		}
	case monitor.DomainCheckView:
		renderDomainStatus(w, v.Domain, v.Status)
	case monitor.JobMonitorView:
		fmt.Fprintln(w, monitor.Line(v.Snapshot))
	case monitor.CSVReadyView:
		fmt.Fprintf(w, "%s keyword CSV for %s is ready\n", color.GreenString("✓"), v.Domain)
	}
}

func renderDomainStatus(w io.Writer, domain string, st models.DomainStatus) {
	if st.KeywordCount != nil {
		fmt.Fprintf(w, "%s: %s (%d keywords)\n", domain, st.Status, *st.KeywordCount)
	} else {
		fmt.Fprintf(w, "%s: %s\n", domain, st.Status)
	}
	if st.Message != "" {
		fmt.Fprintln(w, st.Message)
	}
}

func csvFilename(domain string) string {
	return "keywords-" + domain + ".csv"
}

func writeCSV(w io.Writer, path string, body []byte) error {
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(w, "saved %d bytes to %s\n", len(body), path)
	return nil
}
