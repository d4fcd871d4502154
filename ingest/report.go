package ingest

import "fmt"

// QuarterOutcome records how one (prefecture, year, quarter) unit of work
// ended: skipped because unpublished, failed, or loaded with the given
// counts.
type QuarterOutcome struct {
	Prefecture string
	Year       int
	Quarter    int
	Fetched    int
	Inserted   int64
	Skipped    bool
	Err        error
}

func (o QuarterOutcome) String() string {
	label := fmt.Sprintf("%s %d Q%d", o.Prefecture, o.Year, o.Quarter)
	switch {
	case o.Err != nil:
		return fmt.Sprintf("%s: failed: %s", label, o.Err)
	case o.Skipped:
		return fmt.Sprintf("%s: not yet available", label)
	default:
		return fmt.Sprintf("%s: %d fetched, %d new", label, o.Fetched, o.Inserted)
	}
}

// Summary aggregates the outcomes of a whole run so an operator can spot
// gaps without re-running everything.
type Summary struct {
	Fetched  int
	Inserted int64
	Skipped  int
	Failures []QuarterOutcome
}

func (s *Summary) add(outcome QuarterOutcome) {
	switch {
	case outcome.Err != nil:
		s.Failures = append(s.Failures, outcome)
	case outcome.Skipped:
		s.Skipped++
	default:
		s.Fetched += outcome.Fetched
		s.Inserted += outcome.Inserted
	}
}

func (s *Summary) AddAll(outcomes []QuarterOutcome) {
	for _, outcome := range outcomes {
		s.add(outcome)
	}
}

func (s *Summary) String() string {
	return fmt.Sprintf(
		"%d records fetched, %d new rows inserted, %d periods not yet available, %d periods failed",
		s.Fetched, s.Inserted, s.Skipped, len(s.Failures),
	)
}
