package mock

// TrackedJobs reports how many jobs p is holding.
func (p *Provider) TrackedJobs() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.jobs)
}
