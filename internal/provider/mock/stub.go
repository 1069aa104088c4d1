package mock

import (
	"context"
	"encoding/json"

	"github.com/kiranshivaraju/keywordlens/pkg/models"
)

// StubProvider satisfies models.KeywordProvider for testing. Each method
// delegates to its Func field; a nil field returns zero values.
type StubProvider struct {
	Name_             string
	SubmitFunc        func(ctx context.Context, domain, email string) (*models.Submission, error)
	JobReportFunc     func(ctx context.Context, jobID string) (json.RawMessage, error)
	DomainStatusFunc  func(ctx context.Context, domain string) (json.RawMessage, error)
	GenerateCSVFunc   func(ctx context.Context, domain string) (json.RawMessage, error)
	DownloadCSVFunc   func(ctx context.Context, domain string) ([]byte, error)
	SeedsFunc         func(ctx context.Context, domain string) (string, error)
	ExpandInputFunc   func(ctx context.Context, filename string, content []byte) (string, error)
	AnalyzeDomainFunc func(ctx context.Context, req models.DomainInsightsRequest) (json.RawMessage, error)
}

func (s *StubProvider) Name() string { return s.Name_ }

func (s *StubProvider) Submit(ctx context.Context, domain, email string) (*models.Submission, error) {
	if s.SubmitFunc != nil {
		return s.SubmitFunc(ctx, domain, email)
	}
	return &models.Submission{}, nil
}

func (s *StubProvider) JobReport(ctx context.Context, jobID string) (json.RawMessage, error) {
	if s.JobReportFunc != nil {
		return s.JobReportFunc(ctx, jobID)
	}
	return json.RawMessage(`{}`), nil
}

func (s *StubProvider) DomainStatus(ctx context.Context, domain string) (json.RawMessage, error) {
	if s.DomainStatusFunc != nil {
		return s.DomainStatusFunc(ctx, domain)
	}
	return json.RawMessage(`{}`), nil
}

func (s *StubProvider) GenerateCSV(ctx context.Context, domain string) (json.RawMessage, error) {
	if s.GenerateCSVFunc != nil {
		return s.GenerateCSVFunc(ctx, domain)
	}
	return json.RawMessage(`{}`), nil
}

func (s *StubProvider) DownloadCSV(ctx context.Context, domain string) ([]byte, error) {
	if s.DownloadCSVFunc != nil {
		return s.DownloadCSVFunc(ctx, domain)
	}
	return nil, nil
}

func (s *StubProvider) Seeds(ctx context.Context, domain string) (string, error) {
	if s.SeedsFunc != nil {
		return s.SeedsFunc(ctx, domain)
	}
	return "", nil
}

func (s *StubProvider) ExpandInput(ctx context.Context, filename string, content []byte) (string, error) {
	if s.ExpandInputFunc != nil {
		return s.ExpandInputFunc(ctx, filename, content)
	}
	return "", nil
}

func (s *StubProvider) AnalyzeDomain(ctx context.Context, req models.DomainInsightsRequest) (json.RawMessage, error) {
	if s.AnalyzeDomainFunc != nil {
		return s.AnalyzeDomainFunc(ctx, req)
	}
	return json.RawMessage(`{}`), nil
}

// NewFailingProvider returns a StubProvider whose every call returns err.
func NewFailingProvider(err error) *StubProvider {
	return &StubProvider{
		Name_: "mock-failing",
		SubmitFunc: func(context.Context, string, string) (*models.Submission, error) {
			return nil, err
		},
		JobReportFunc: func(context.Context, string) (json.RawMessage, error) {
			return nil, err
		},
		DomainStatusFunc: func(context.Context, string) (json.RawMessage, error) {
			return nil, err
		},
		GenerateCSVFunc: func(context.Context, string) (json.RawMessage, error) {
			return nil, err
		},
		DownloadCSVFunc: func(context.Context, string) ([]byte, error) {
			return nil, err
		},
		SeedsFunc: func(context.Context, string) (string, error) {
			return "", err
		},
		ExpandInputFunc: func(context.Context, string, []byte) (string, error) {
			return "", err
		},
		AnalyzeDomainFunc: func(context.Context, models.DomainInsightsRequest) (json.RawMessage, error) {
			return nil, err
		},
	}
}

// Compile-time check that StubProvider implements KeywordProvider.
var _ models.KeywordProvider = (*StubProvider)(nil)
