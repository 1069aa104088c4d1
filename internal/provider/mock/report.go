package mock

import (
	"math/rand/v2"

	"github.com/kiranshivaraju/keywordlens/pkg/models"
)

// Report is the job report shape served in mock mode. It is a superset
// of models.JobSnapshot.
type Report struct {
	JobID    string    `json:"job_id"`
	Status   string    `json:"status"`
	Domain   string    `json:"domain"`
	Progress *int      `json:"progress,omitempty"`
	Message  string    `json:"message,omitempty"`
	Clusters []Cluster `json:"clusters"`
}

type Cluster struct {
	Name     string         `json:"name"`
	Keywords []string       `json:"keywords"`
	Metrics  ClusterMetrics `json:"metrics"`
	Insights []Insight      `json:"insights"`
}

type ClusterMetrics struct {
	SearchVolume int `json:"search_volume"`
	Competition  int `json:"competition"`
}

// Insight types: usecase, feature, competitor.
type Insight struct {
	Type     string   `json:"type"`
	Entities []string `json:"entities"`
}

func sampleClusters() []Cluster {
	return []Cluster{
		{
			Name:     "Technology",
			Keywords: []string{"cloud computing", "AI", "machine learning"},
			Metrics:  ClusterMetrics{SearchVolume: 15000, Competition: 85},
			Insights: []Insight{
				{Type: "feature", Entities: []string{"Scalability", "Security"}},
			},
		},
	}
}

func processedDomainKeywords(domain string) []models.KeywordMetric {
	return []models.KeywordMetric{
		{Keyword: domain + " pricing", AvgMonthlySearches: 1200, CompetitionLevel: models.CompetitionHigh},
		{Keyword: domain + " alternatives", AvgMonthlySearches: 800, CompetitionLevel: models.CompetitionMedium},
		{Keyword: "best " + domain + " features", AvgMonthlySearches: 950, CompetitionLevel: models.CompetitionHigh},
		{Keyword: domain + " vs competitors", AvgMonthlySearches: 650, CompetitionLevel: models.CompetitionMedium},
		{Keyword: domain + " reviews", AvgMonthlySearches: 1100, CompetitionLevel: models.CompetitionHigh},
		{Keyword: domain + " integration", AvgMonthlySearches: 400, CompetitionLevel: models.CompetitionLow},
		{Keyword: domain + " tutorial", AvgMonthlySearches: 600, CompetitionLevel: models.CompetitionMedium},
		{Keyword: domain + " comparison", AvgMonthlySearches: 750, CompetitionLevel: models.CompetitionHigh},
		{Keyword: domain + " tools", AvgMonthlySearches: 300, CompetitionLevel: models.CompetitionLow},
		{Keyword: domain + " support", AvgMonthlySearches: 500, CompetitionLevel: models.CompetitionMedium},
	}
}

func analysisKeywords(domain string) []models.KeywordMetric {
	return []models.KeywordMetric{
		{Keyword: domain + " pricing", AvgMonthlySearches: 1200, CompetitionLevel: models.CompetitionHigh},
		{Keyword: domain + " alternatives", AvgMonthlySearches: 800, CompetitionLevel: models.CompetitionMedium},
		{Keyword: "best " + domain + " features", AvgMonthlySearches: 950, CompetitionLevel: models.CompetitionHigh},
		{Keyword: domain + " vs competitors", AvgMonthlySearches: 650, CompetitionLevel: models.CompetitionMedium},
		{Keyword: domain + " reviews", AvgMonthlySearches: 1100, CompetitionLevel: models.CompetitionHigh},
	}
}

func domainInsights(domain string) models.DomainInsights {
	return models.DomainInsights{
		KeywordsAnalyzed:     50000 + rand.IntN(200000),
		EmergingClusters:     20 + rand.IntN(50),
		CompetitorReferences: 5 + rand.IntN(20),
		ConsumerSearches: []string{
			domain + " pricing and features",
			"Best alternatives to " + domain,
			"How to use " + domain + " effectively",
			domain + " vs competitors comparison",
			domain + " customer reviews and ratings",
		},
		Problems: []string{
			"Users struggle with " + domain + " onboarding process",
			"Integration challenges with " + domain + " platform",
			"Performance issues reported for " + domain,
			"Limited customization options in " + domain,
			"Support response time concerns for " + domain,
		},
		Competitors: []string{
			"Direct competitor analysis for " + domain,
			"Market leaders in " + domain + " space",
			"Emerging players challenging " + domain,
			"Feature comparison with " + domain + " alternatives",
			"Pricing strategies of " + domain + " competitors",
		},
	}
}
