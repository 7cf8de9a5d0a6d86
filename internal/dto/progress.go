package dto

import "study-buddy/internal/domain"

type ScorePoint struct {
	Timestamp Timestamp `json:"timestamp"`
	Score     float64   `json:"score"`
}

// ProgressReportResponse mirrors the backend report. Average and highest scores are
// null until a quiz has been taken.
type ProgressReportResponse struct {
	TotalQuizzesTaken int          `json:"total_quizzes_taken"`
	AverageScore      *float64     `json:"average_score"`
	HighestScore      *float64     `json:"highest_score"`
	ScoresOverTime    []ScorePoint `json:"scores_over_time"`
}

func (p ProgressReportResponse) ToDomain() *domain.ProgressReport {
	report := &domain.ProgressReport{
		TotalQuizzesTaken: p.TotalQuizzesTaken,
		ScoresOverTime:    make([]domain.ScorePoint, 0, len(p.ScoresOverTime)),
	}
	if p.AverageScore != nil {
		report.AverageScore = *p.AverageScore
	}
	if p.HighestScore != nil {
		report.HighestScore = *p.HighestScore
	}
	for _, s := range p.ScoresOverTime {
		report.ScoresOverTime = append(report.ScoresOverTime, domain.ScorePoint{Timestamp: s.Timestamp.Time, Score: s.Score})
	}
	return report
}

func NewProgressReportResponse(r *domain.ProgressReport) ProgressReportResponse {
	resp := ProgressReportResponse{
		TotalQuizzesTaken: r.TotalQuizzesTaken,
		ScoresOverTime:    make([]ScorePoint, 0, len(r.ScoresOverTime)),
	}
	if r.HasData() {
		avg, high := r.AverageScore, r.HighestScore
		resp.AverageScore = &avg
		resp.HighestScore = &high
	}
	for _, s := range r.ScoresOverTime {
		resp.ScoresOverTime = append(resp.ScoresOverTime, ScorePoint{Timestamp: NewTimestamp(s.Timestamp), Score: s.Score})
	}
	return resp
}
