package models

const (
	CompetitionLow    = "LOW"
	CompetitionMedium = "MEDIUM"
	CompetitionHigh   = "HIGH"
)

// KeywordMetric is one row of the keyword CSV artifact.
type KeywordMetric struct {
	Keyword            string `json:"keyword"`
	AvgMonthlySearches int    `json:"avg_monthly_searches"`
	CompetitionLevel   string `json:"competition_level"`
}

// ValidCompetitionLevel reports whether level is one of LOW, MEDIUM, HIGH.
func ValidCompetitionLevel(level string) bool {
	switch level {
	case CompetitionLow, CompetitionMedium, CompetitionHigh:
		return true
	}
	return false
}

const (
	DomainStatusReadyForCSV  = "ready_for_csv"
	DomainStatusNotProcessed = "not_processed"
	DomainStatusProcessing   = "processing"
)

// DomainStatus reports whether a domain already has keyword data.
type DomainStatus struct {
	Status       string `json:"status"`
	KeywordCount *int   `json:"keyword_count,omitempty"`
	Message      string `json:"message"`
}
