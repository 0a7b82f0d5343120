package dto

import (
	"github.com/turtacn/transgate/internal/domain/models"
	"github.com/turtacn/transgate/pkg/constants"
	"github.com/turtacn/transgate/pkg/errors"
)

// ErrorResponse 通用错误响应结构
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// ContentSafetyDetails 内容安全拒绝详情
type ContentSafetyDetails struct {
	Message          string                    `json:"message"`
	Categories       []models.CategorySeverity `json:"categories"`
	BlocklistMatches []models.BlocklistMatch   `json:"blocklistMatches,omitempty"`
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// NewErrorResponse builds the public body for err. Internal detail is only
// included when verbose is set.
func NewErrorResponse(err errors.AppError, verbose bool) *ErrorResponse {
	resp := &ErrorResponse{Error: err.Description()}
	if verbose && err.Error() != err.Description() {
		resp.Details = err.Error()
	}
	return resp
}

// NewContentSafetyWarning builds the 400 body for a moderation rejection.
func NewContentSafetyWarning(rejection *models.ModerationRejection) *ErrorResponse {
	categories := rejection.Verdict.FlaggedCategories
	if categories == nil {
		categories = []models.CategorySeverity{}
	}
	return &ErrorResponse{
		Error: constants.MsgContentSafetyWarning,
		Details: &ContentSafetyDetails{
			Message:          rejection.Message(),
			Categories:       categories,
			BlocklistMatches: rejection.Verdict.BlocklistMatches,
		},
	}
}

//Personal.AI order the ending
