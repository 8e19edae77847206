package runtime

import "strings"

// Report is the final accumulated distribution: one coalesced Element per
// distinct datum, sorted ascending by datum.
type Report struct {
	Entries []Element
}

func newReport(s Stream) *Report {
	return &Report{Entries: Coalesce(s)}
}

// Render formats the report: one line per datum, sorted by datum,
// "<datum>: <probability with 12 fractional digits>".
func (r *Report) Render() string {
	var b strings.Builder
	for _, e := range r.Entries {
		b.WriteString(e.Value.Render())
		b.WriteString(": ")
		b.WriteString(e.Prob.Decimal(12))
		b.WriteByte('\n')
	}
	return b.String()
}
