package models

// DomainInsightsRequest asks for a strategic overview of a domain.
type DomainInsightsRequest struct {
	Domain             string `json:"domain"`
	IncludeSubdomains  bool   `json:"includeSubdomains"`
	IncludeCompetitors bool   `json:"includeCompetitors"`
	StrategicFocus     string `json:"strategicFocus,omitempty"`
}

// DomainInsights summarises what searchers ask about a domain, the
// problems they report and the competitors they mention.
type DomainInsights struct {
	KeywordsAnalyzed     int      `json:"keywordsAnalyzed"`
	EmergingClusters     int      `json:"emergingClusters"`
	CompetitorReferences int      `json:"competitorReferences"`
	ConsumerSearches     []string `json:"consumerSearches"`
	Problems             []string `json:"problems"`
	Competitors          []string `json:"competitors"`
}
