package azure

import (
	"context"
	"net/url"

	"github.com/turtacn/transgate/internal/config"
	"github.com/turtacn/transgate/internal/domain/models"
	"github.com/turtacn/transgate/internal/domain/service"
	"github.com/turtacn/transgate/pkg/constants"
	"github.com/turtacn/transgate/pkg/errors"
	"github.com/turtacn/transgate/pkg/utils"
)

var _ service.ContentClassifier = (*ContentSafetyClient)(nil)

type analyzeTextRequest struct {
	Text               string                `json:"text"`
	Categories         []models.HarmCategory `json:"categories"`
	BlocklistNames     []string              `json:"blocklistNames,omitempty"`
	HaltOnBlocklistHit bool                  `json:"haltOnBlocklistHit"`
	OutputType         string                `json:"outputType"`
}

type analyzeTextResponse struct {
	BlocklistsMatch    []models.BlocklistMatch   `json:"blocklistsMatch"`
	CategoriesAnalysis []models.CategorySeverity `json:"categoriesAnalysis"`
}

// ContentSafetyClient calls the Azure AI Content Safety text:analyze operation.
type ContentSafetyClient struct {
	cognitiveClient
	analyzeURL     string
	blocklistNames []string
}

// NewContentSafetyClient creates a ContentSafetyClient.
func NewContentSafetyClient(cfg *config.ContentSafetyConfig, metrics service.Metrics) *ContentSafetyClient {
	q := url.Values{}
	q.Set("api-version", constants.ContentSafetyAPIVersion)
	return &ContentSafetyClient{
		cognitiveClient: newCognitiveClient("content_safety", cfg.Key, cfg.Region, cfg.Timeout, metrics),
		analyzeURL:      utils.TrimEndpoint(cfg.Endpoint) + "/contentsafety/text:analyze?" + q.Encode(),
		blocklistNames:  cfg.BlocklistNames,
	}
}

// Analyze scores text. When a blocklist matches, the service halts and may
// return no category scores.
func (c *ContentSafetyClient) Analyze(ctx context.Context, text string, categories []models.HarmCategory) (*models.ClassifierResult, error) {
	req := analyzeTextRequest{
		Text:               text,
		Categories:         categories,
		BlocklistNames:     c.blocklistNames,
		HaltOnBlocklistHit: true,
		OutputType:         constants.ContentSafetyOutputType,
	}
	var resp analyzeTextResponse
	if err := c.postJSON(ctx, c.analyzeURL, req, &resp); err != nil {
		return nil, errors.ErrModerationUnavailable("content safety request failed").WithCause(err)
	}
	return &models.ClassifierResult{
		Categories:       resp.CategoriesAnalysis,
		BlocklistMatches: resp.BlocklistsMatch,
	}, nil
}

//Personal.AI order the ending
