package backend

import (
	"context"
	"fmt"
	"net/http"
	"study-buddy/internal/domain"
	"study-buddy/internal/dto"
)

func (c *Client) ProgressReport(ctx context.Context, token string, documentID int64) (*domain.ProgressReport, error) {
	var resp dto.ProgressReportResponse
	err := c.do(ctx, call{method: http.MethodGet, path: fmt.Sprintf("/documents/%d/progress-report", documentID), token: token, out: &resp})
	if err != nil {
		return nil, err
	}
	return resp.ToDomain(), nil
}
