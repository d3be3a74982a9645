package preflight

import "evorun/internal/report"

// Render prints each attempted check, and the remediation hint for a failure.
func Render(rep *report.Reporter, r Report) {
	for _, result := range r.Results {
		if result.Passed {
			rep.OK("%s: %s", result.Name, result.Detail)
			continue
		}
		rep.Fail("%s: %s", result.Name, result.Detail)
		if result.Hint != "" {
			rep.Info("%s", result.Hint)
		}
	}
}
