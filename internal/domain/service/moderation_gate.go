package service

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/turtacn/transgate/internal/domain/models"
	"github.com/turtacn/transgate/pkg/constants"
	"github.com/turtacn/transgate/pkg/errors"
	"github.com/turtacn/transgate/pkg/logger"
)

var _ ModerationGate = (*ThresholdGate)(nil)

// ThresholdGate screens text through a ContentClassifier and applies
// per-category reject thresholds.
type ThresholdGate struct {
	classifier ContentClassifier
	// thresholds maps a lower-cased category name to its reject threshold.
	thresholds atomic.Pointer[map[string]int]
	log        logger.Logger
}

// NewModerationGate creates a gate that rejects any category whose severity
// reaches its threshold. Categories without a threshold never reject.
func NewModerationGate(classifier ContentClassifier, thresholds map[string]int, log logger.Logger) *ThresholdGate {
	g := &ThresholdGate{classifier: classifier, log: log}
	g.SetThresholds(thresholds)
	return g
}

// SetThresholds atomically replaces the reject thresholds.
// Screens already in flight keep the table they started with.
func (g *ThresholdGate) SetThresholds(thresholds map[string]int) {
	next := make(map[string]int, len(thresholds))
	for category, threshold := range thresholds {
		next[strings.ToLower(category)] = threshold
	}
	g.thresholds.Store(&next)
}

// Thresholds returns a copy of the active thresholds.
func (g *ThresholdGate) Thresholds() map[string]int {
	current := *g.thresholds.Load()
	out := make(map[string]int, len(current))
	for k, v := range current {
		out[k] = v
	}
	return out
}

func (g *ThresholdGate) Screen(ctx context.Context, text string) (*models.ModerationVerdict, error) {
	thresholds := *g.thresholds.Load()

	result, err := g.classifier.Analyze(ctx, text, models.AllHarmCategories)
	if err != nil {
		g.log.Warn(ctx, "Content classification failed", logger.Fields{"error": err.Error()})
		if errors.HasCode(err, constants.ErrCodeModerationUnavailable) {
			return nil, err
		}
		return nil, errors.ErrModerationUnavailable("content classification failed").WithCause(err)
	}

	verdict := &models.ModerationVerdict{}
	if result == nil {
		return verdict, nil
	}
	if len(result.BlocklistMatches) > 0 {
		verdict.BlocklistMatches = append(verdict.BlocklistMatches, result.BlocklistMatches...)
	}
	for _, c := range result.Categories {
		threshold, ok := thresholds[strings.ToLower(string(c.Category))]
		if !ok {
			continue
		}
		if c.Severity >= threshold {
			verdict.FlaggedCategories = append(verdict.FlaggedCategories, c)
		}
	}
	return verdict, nil
}

//Personal.AI order the ending
