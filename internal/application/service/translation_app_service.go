// Package service provides application-level services that orchestrate domain services
package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/turtacn/transgate/internal/application/dto"
	"github.com/turtacn/transgate/internal/domain/models"
	domainService "github.com/turtacn/transgate/internal/domain/service"
	"github.com/turtacn/transgate/pkg/constants"
	"github.com/turtacn/transgate/pkg/errors"
	"github.com/turtacn/transgate/pkg/logger"
)

// TranslationAppService defines the interface for the moderated translation use case
type TranslationAppService interface {
	// Translate screens the source text, translates it and screens the result.
	// A flagged verdict on either side is returned as *models.ModerationRejection.
	Translate(ctx context.Context, req *dto.TranslateRequest) (*dto.TranslateResponse, error)
}

// translationAppServiceImpl is the concrete implementation of TranslationAppService
type translationAppServiceImpl struct {
	gate       domainService.ModerationGate
	translator domainService.Translator
	metrics    domainService.Metrics
	logger     logger.Logger
	tracer     trace.Tracer
}

// NewTranslationAppService creates a new instance of TranslationAppService
func NewTranslationAppService(
	gate domainService.ModerationGate,
	translator domainService.Translator,
	metrics domainService.Metrics,
	log logger.Logger,
) TranslationAppService {
	if metrics == nil {
		metrics = domainService.NoopMetrics{}
	}
	return &translationAppServiceImpl{
		gate:       gate,
		translator: translator,
		metrics:    metrics,
		logger:     log,
		tracer:     otel.Tracer("github.com/turtacn/transgate/internal/application/service"),
	}
}

func (s *translationAppServiceImpl) Translate(ctx context.Context, req *dto.TranslateRequest) (*dto.TranslateResponse, error) {
	start := time.Now()
	resp, err := s.translate(ctx, req)
	s.metrics.RecordTranslation(outcome(err), time.Since(start))
	return resp, err
}

// translate runs the stages strictly in order. Nothing is returned to the
// caller until the translated text has passed moderation.
func (s *translationAppServiceImpl) translate(ctx context.Context, req *dto.TranslateRequest) (*dto.TranslateResponse, error) {
	ctx, span := s.tracer.Start(ctx, "TranslationAppService.Translate", trace.WithAttributes(
		attribute.String("translate.source_lang", req.SourceLang),
		attribute.String("translate.target_lang", req.TargetLang),
		attribute.Int("translate.text_length", len(req.Text)),
	))
	defer span.End()

	log := s.logger.ForContext(ctx)

	// 1. Screen the source text
	if err := s.screen(ctx, constants.StageSource, req.Text); err != nil {
		recordSpanError(span, err)
		return nil, err
	}

	// 2. Translate
	translated, err := s.callTranslator(ctx, req)
	if err != nil {
		log.Error(ctx, "Translation failed", err, logger.Fields{"target_lang": req.TargetLang})
		recordSpanError(span, err)
		return nil, err
	}

	// 3. Screen the translated text
	if err := s.screen(ctx, constants.StageTranslated, translated); err != nil {
		recordSpanError(span, err)
		return nil, err
	}

	// 4. Return
	log.Info(ctx, "Translation completed", logger.Fields{
		"source_lang": req.SourceLang,
		"target_lang": req.TargetLang,
	})
	return &dto.TranslateResponse{TranslatedText: translated}, nil
}

func (s *translationAppServiceImpl) screen(ctx context.Context, stage constants.ModerationStage, text string) error {
	ctx, span := s.tracer.Start(ctx, "ModerationGate.Screen", trace.WithAttributes(
		attribute.String("moderation.stage", string(stage)),
	))
	defer span.End()

	verdict, err := s.gate.Screen(ctx, text)
	if err != nil {
		s.metrics.RecordModeration(string(stage), "error")
		s.logger.Error(ctx, "Moderation unavailable", err, logger.Fields{"stage": stage})
		if !errors.HasCode(err, constants.ErrCodeModerationUnavailable) {
			err = errors.ErrModerationUnavailable("moderation failed").WithCause(err)
		}
		recordSpanError(span, err)
		return err
	}

	if verdict.Flagged() {
		s.metrics.RecordModeration(string(stage), "flagged")
		s.logger.Warn(ctx, "Content flagged", logger.Fields{
			"stage":      stage,
			"categories": verdict.FlaggedCategories,
			"blocklist":  len(verdict.BlocklistMatches),
		})
		span.SetAttributes(attribute.Bool("moderation.flagged", true))
		return &models.ModerationRejection{Stage: stage, Verdict: verdict}
	}

	s.metrics.RecordModeration(string(stage), "pass")
	return nil
}

func (s *translationAppServiceImpl) callTranslator(ctx context.Context, req *dto.TranslateRequest) (string, error) {
	ctx, span := s.tracer.Start(ctx, "Translator.Translate")
	defer span.End()

	translated, err := s.translator.Translate(ctx, req.Text, req.SourceLang, req.TargetLang)
	if err != nil {
		if !errors.HasCode(err, constants.ErrCodeTranslationUnavailable) {
			err = errors.ErrTranslationUnavailable("translation failed").WithCause(err)
		}
		recordSpanError(span, err)
		return "", err
	}
	return translated, nil
}

func recordSpanError(span trace.Span, err error) {
	var rejection *models.ModerationRejection
	if errors.As(err, &rejection) {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	var rejection *models.ModerationRejection
	if errors.As(err, &rejection) {
		return "rejected_" + string(rejection.Stage)
	}
	return string(errors.AsAppError(err).Code())
}

//Personal.AI order the ending
