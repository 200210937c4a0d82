package workflow

import (
	"sort"
	"sync"
)

// ReportStore keeps finished batch reports in memory for the API to
// serve. Reports are small; the newest ones are what operators look at.
type ReportStore struct {
	mu      sync.RWMutex
	reports map[string]*Report
}

func NewReportStore() *ReportStore {
	return &ReportStore{reports: make(map[string]*Report)}
}

func (s *ReportStore) Save(report *Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[report.BatchID] = report
}

func (s *ReportStore) Get(batchID string) (*Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.reports[batchID]
	return report, ok
}

// List returns all reports, newest first.
func (s *ReportStore) List() []*Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Report, 0, len(s.reports))
	for _, r := range s.reports {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	return out
}
