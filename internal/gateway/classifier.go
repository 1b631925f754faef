package gateway

import (
	"strings"

	"github.com/healthbuzzonline/post-gateway/internal/models"
	"github.com/healthbuzzonline/post-gateway/internal/utils"
)

// DefaultCrawlerSignatures identifica os robôs de preview das redes sociais
var DefaultCrawlerSignatures = []string{
	"facebookexternalhit",
	"facebookcatalog",
	"meta-externalagent",
	"meta-externalfetcher",
	"twitterbot",
	"linkedinbot",
	"pinterest",
	"slackbot",
	"whatsapp",
	"telegrambot",
	"discordbot",
	"redditbot",
	"skypeuripreview",
}

// DefaultSocialDomains são os domínios de referência considerados sociais
var DefaultSocialDomains = []string{
	"facebook.com",
	"instagram.com",
	"messenger.com",
	"threads.net",
}

// Classifier atribui uma TrafficClass a cada requisição.
// Não guarda estado mutável e pode ser usado por várias goroutines.
type Classifier struct {
	crawlerSignatures []string
	socialDomains     []string
}

// NewClassifier cria um classificador. Listas vazias usam os valores padrão.
func NewClassifier(crawlerSignatures, socialDomains []string) *Classifier {
	return &Classifier{
		crawlerSignatures: lowerAll(crawlerSignatures, DefaultCrawlerSignatures),
		socialDomains:     lowerAll(socialDomains, DefaultSocialDomains),
	}
}

// Classify é total e determinística: o crawler tem precedência, depois a
// referência social (referrer ou parâmetro de rastreamento), senão Direct.
func (c *Classifier) Classify(rc models.RequestContext) models.TrafficClass {
	if utils.ContainsAny(rc.UserAgent, c.crawlerSignatures) {
		return models.ClassAutomatedCrawler
	}

	if utils.ContainsAny(rc.Referrer, c.socialDomains) || strings.TrimSpace(rc.TrackingParam) != "" {
		return models.ClassSocialReferral
	}

	return models.ClassDirect
}

func lowerAll(values, fallback []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			result = append(result, v)
		}
	}
	if len(result) == 0 {
		result = append(result, fallback...)
	}
	return result
}
