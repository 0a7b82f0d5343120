package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/turtacn/transgate/internal/application/dto"
	"github.com/turtacn/transgate/internal/application/service"
	"github.com/turtacn/transgate/internal/domain/models"
	"github.com/turtacn/transgate/pkg/constants"
	"github.com/turtacn/transgate/pkg/errors"
	"github.com/turtacn/transgate/pkg/logger"
	"github.com/turtacn/transgate/pkg/utils"
)

// TranslateHandler handles moderated translation requests.
type TranslateHandler struct {
	svc     service.TranslationAppService
	verbose bool
	log     logger.Logger
}

// NewTranslateHandler creates a new TranslateHandler.
// verbose adds internal error detail to 500 responses.
func NewTranslateHandler(svc service.TranslationAppService, verbose bool, log logger.Logger) *TranslateHandler {
	return &TranslateHandler{svc: svc, verbose: verbose, log: log}
}

// Translate godoc
// @Summary      Translate text
// @Description  Screens the source text, translates it and screens the result.
// @Tags         translate
// @Accept       json
// @Produce      json
// @Param        request body dto.TranslateRequest true "Translation request"
// @Success      200  {object}  dto.TranslateResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /translate [post]
func (h *TranslateHandler) Translate(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn(ctx, "Invalid translate request", logger.Fields{"error": err.Error()})
		resp := &dto.ErrorResponse{Error: constants.MsgInvalidRequest}
		if details := utils.ValidationDetails(err); len(details) > 0 {
			resp.Details = details
		}
		c.JSON(http.StatusBadRequest, resp)
		return
	}
	if !utils.ValidateNotEmpty(req.Text) {
		c.JSON(http.StatusBadRequest, &dto.ErrorResponse{
			Error:   constants.MsgInvalidRequest,
			Details: map[string]string{"text": "must not be blank"},
		})
		return
	}

	resp, err := h.svc.Translate(ctx, &req)
	if err != nil {
		var rejection *models.ModerationRejection
		if errors.As(err, &rejection) {
			h.log.Info(ctx, "Translation rejected by content safety", logger.Fields{
				"stage": string(rejection.Stage),
			})
			c.JSON(http.StatusBadRequest, dto.NewContentSafetyWarning(rejection))
			return
		}

		appErr := errors.AsAppError(err)
		h.log.Error(ctx, "Translation failed", err, logger.Fields{"code": string(appErr.Code())})
		c.JSON(appErr.HTTPStatus(), dto.NewErrorResponse(appErr, h.verbose))
		return
	}

	c.JSON(http.StatusOK, resp)
}

//Personal.AI order the ending
