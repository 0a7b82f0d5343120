package azure

import (
	"context"
	"net/url"

	"github.com/turtacn/transgate/internal/config"
	"github.com/turtacn/transgate/internal/domain/service"
	"github.com/turtacn/transgate/pkg/constants"
	"github.com/turtacn/transgate/pkg/errors"
	"github.com/turtacn/transgate/pkg/utils"
)

var _ service.Translator = (*TranslatorClient)(nil)

type translateItem struct {
	Text string `json:"Text"`
}

type translateResult struct {
	Translations []struct {
		Text string `json:"text"`
		To   string `json:"to"`
	} `json:"translations"`
}

// TranslatorClient calls the Azure AI Translator v3 translate operation.
type TranslatorClient struct {
	cognitiveClient
	endpoint string
}

// NewTranslatorClient creates a TranslatorClient.
func NewTranslatorClient(cfg *config.TranslatorConfig, metrics service.Metrics) *TranslatorClient {
	return &TranslatorClient{
		cognitiveClient: newCognitiveClient("translator", cfg.Key, cfg.Region, cfg.Timeout, metrics),
		endpoint:        utils.TrimEndpoint(cfg.Endpoint),
	}
}

// Translate translates text to targetLang. An empty sourceLang lets the
// service detect the language.
func (c *TranslatorClient) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	q := url.Values{}
	q.Set("api-version", constants.TranslatorAPIVersion)
	if sourceLang != "" {
		q.Set("from", sourceLang)
	}
	q.Set("to", targetLang)

	var resp []translateResult
	if err := c.postJSON(ctx, c.endpoint+"/translate?"+q.Encode(), []translateItem{{Text: text}}, &resp); err != nil {
		return "", errors.ErrTranslationUnavailable("translator request failed").WithCause(err)
	}
	if len(resp) == 0 || len(resp[0].Translations) == 0 {
		return "", errors.ErrTranslationUnavailable("translator returned no translation")
	}
	return resp[0].Translations[0].Text, nil
}

//Personal.AI order the ending
