package gateway

import (
	"fmt"
	"strings"

	"github.com/healthbuzzonline/post-gateway/internal/models"
	"github.com/healthbuzzonline/post-gateway/internal/utils"
)

const (
	// PolicyPrefetchRedirect decide antes da busca: só crawlers recebem a
	// página, o resto é redirecionado sem consultar o upstream.
	PolicyPrefetchRedirect = "prefetch-redirect"
	// PolicyClientRedirect sempre renderiza e adia o redirecionamento das
	// visitas sociais para o navegador.
	PolicyClientRedirect = "client-redirect"
	// PolicyClientRedirectWWW é igual a PolicyClientRedirect, mas redireciona
	// para o host canônico com prefixo www.
	PolicyClientRedirectWWW = "client-redirect-www"
)

// Policy mapeia a classe de tráfego e o resultado da busca para uma Action.
// Decide recebe article == nil quando a busca não achou o artigo ou quando
// NeedsFetch retornou false para a classe.
type Policy interface {
	Name() string
	NeedsFetch(class models.TrafficClass) bool
	Decide(rc models.RequestContext, class models.TrafficClass, article *models.Article) models.Action
}

// NewPolicy cria a política pelo nome configurado
func NewPolicy(name, canonicalHost string) (Policy, error) {
	canonicalHost = strings.TrimSpace(canonicalHost)
	if canonicalHost == "" {
		return nil, ErrEmptyHost
	}

	switch name {
	case PolicyPrefetchRedirect, "":
		return &PrefetchRedirectPolicy{canonicalHost: canonicalHost}, nil
	case PolicyClientRedirect:
		return &ClientRedirectPolicy{name: PolicyClientRedirect, redirectHost: canonicalHost}, nil
	case PolicyClientRedirectWWW:
		return &ClientRedirectPolicy{name: PolicyClientRedirectWWW, redirectHost: utils.WWWHost(canonicalHost)}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// PrefetchRedirectPolicy é a política de referência
type PrefetchRedirectPolicy struct {
	canonicalHost string
}

func (p *PrefetchRedirectPolicy) Name() string {
	return PolicyPrefetchRedirect
}

// NeedsFetch só consulta o upstream para crawlers
func (p *PrefetchRedirectPolicy) NeedsFetch(class models.TrafficClass) bool {
	return class == models.ClassAutomatedCrawler
}

func (p *PrefetchRedirectPolicy) Decide(rc models.RequestContext, class models.TrafficClass, article *models.Article) models.Action {
	if class != models.ClassAutomatedCrawler {
		return models.Redirect(utils.CanonicalURL(p.canonicalHost, rc.Path))
	}
	return renderAction(rc, article, "")
}

// ClientRedirectPolicy sempre busca o artigo e renderiza a página completa
type ClientRedirectPolicy struct {
	name         string
	redirectHost string
}

func (p *ClientRedirectPolicy) Name() string {
	return p.name
}

func (p *ClientRedirectPolicy) NeedsFetch(class models.TrafficClass) bool {
	return true
}

func (p *ClientRedirectPolicy) Decide(rc models.RequestContext, class models.TrafficClass, article *models.Article) models.Action {
	clientRedirect := ""
	if class == models.ClassSocialReferral {
		clientRedirect = utils.CanonicalURL(p.redirectHost, rc.Path)
	}
	return renderAction(rc, article, clientRedirect)
}

// renderAction escolhe entre página completa e mínima; sem host não há como
// derivar og:url, canonical e og:site_name.
func renderAction(rc models.RequestContext, article *models.Article, clientRedirect string) models.Action {
	if article == nil {
		return models.NotFound()
	}
	if strings.TrimSpace(rc.Host) == "" {
		return models.RenderPlain(article, clientRedirect)
	}
	return models.RenderEnriched(article, clientRedirect)
}
