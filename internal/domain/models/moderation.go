package models

import (
	"fmt"
	"strings"

	"github.com/turtacn/transgate/pkg/constants"
)

// HarmCategory is a content-safety classification category.
type HarmCategory string

const (
	CategoryHate     HarmCategory = "Hate"
	CategoryViolence HarmCategory = "Violence"
	CategorySelfHarm HarmCategory = "SelfHarm"
	CategorySexual   HarmCategory = "Sexual"
)

// AllHarmCategories is the fixed category set submitted with every request.
var AllHarmCategories = []HarmCategory{CategoryHate, CategorySexual, CategorySelfHarm, CategoryViolence}

// CategorySeverity is one scored category.
// CategorySeverity 是一个已评分的类别。
type CategorySeverity struct {
	Category HarmCategory `json:"category"`
	Severity int          `json:"severity"`
}

// BlocklistMatch is a custom blocklist hit reported by the classifier.
type BlocklistMatch struct {
	BlocklistName     string `json:"blocklistName"`
	BlocklistItemID   string `json:"blocklistItemId"`
	BlocklistItemText string `json:"blocklistItemText"`
}

// ClassifierResult is the raw classifier output before thresholds are applied.
type ClassifierResult struct {
	Categories       []CategorySeverity
	BlocklistMatches []BlocklistMatch
}

// ModerationVerdict is the outcome of one moderation pass. An empty verdict is a pass.
// ModerationVerdict 是一次审核的结果，为空表示通过。
type ModerationVerdict struct {
	// FlaggedCategories keeps the classifier's ordering.
	FlaggedCategories []CategorySeverity `json:"categories"`
	// BlocklistMatches is non-empty when the classifier halted on a blocklist hit.
	BlocklistMatches []BlocklistMatch `json:"blocklistMatches,omitempty"`
}

// Flagged reports whether the text must be rejected.
func (v *ModerationVerdict) Flagged() bool {
	return v != nil && (len(v.FlaggedCategories) > 0 || len(v.BlocklistMatches) > 0)
}

// ModerationRejection is the expected negative outcome of the moderation gate.
// It is returned as an error so that callers cannot accidentally surface text.
type ModerationRejection struct {
	Stage   constants.ModerationStage
	Verdict *ModerationVerdict
}

func (r *ModerationRejection) Error() string {
	names := make([]string, 0, len(r.Verdict.FlaggedCategories))
	for _, c := range r.Verdict.FlaggedCategories {
		names = append(names, fmt.Sprintf("%s=%d", c.Category, c.Severity))
	}
	if len(r.Verdict.BlocklistMatches) > 0 {
		names = append(names, fmt.Sprintf("blocklist=%d", len(r.Verdict.BlocklistMatches)))
	}
	return fmt.Sprintf("%s content flagged: %s", r.Stage, strings.Join(names, ","))
}

// Message is the caller-facing explanation for the rejection.
func (r *ModerationRejection) Message() string {
	if r.Stage == constants.StageTranslated {
		return "Translated content flagged by Azure Content Safety"
	}
	return "Content flagged by Azure Content Safety"
}

//Personal.AI order the ending
