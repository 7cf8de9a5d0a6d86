package domain

import "time"

// ScorePoint is one attempt's score on the progress timeline.
type ScorePoint struct {
	Timestamp time.Time
	Score     float64
}

// ProgressReport is computed by the backend per document and is read-only on the client.
type ProgressReport struct {
	TotalQuizzesTaken int
	AverageScore      float64
	HighestScore      float64
	ScoresOverTime    []ScorePoint
}

// HasData reports whether at least one quiz was taken for the document.
func (p *ProgressReport) HasData() bool {
	return p != nil && p.TotalQuizzesTaken > 0
}

// BuildProgressReport derives a report from attempts ordered oldest first.
func BuildProgressReport(attempts []QuizAttempt) *ProgressReport {
	report := &ProgressReport{ScoresOverTime: make([]ScorePoint, 0, len(attempts))}
	if len(attempts) == 0 {
		return report
	}

	var sum float64
	for i, a := range attempts {
		sum += a.Score
		if i == 0 || a.Score > report.HighestScore {
			report.HighestScore = a.Score
		}
		report.ScoresOverTime = append(report.ScoresOverTime, ScorePoint{Timestamp: a.Timestamp, Score: a.Score})
	}
	report.TotalQuizzesTaken = len(attempts)
	report.AverageScore = sum / float64(len(attempts))
	return report
}
