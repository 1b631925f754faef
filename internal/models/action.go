package models

// ActionKind define o comportamento de resposta escolhido para a requisição
type ActionKind string

const (
	ActionNotFound       ActionKind = "not_found"
	ActionRenderEnriched ActionKind = "render_enriched"
	ActionRenderPlain    ActionKind = "render_plain"
	ActionRedirect       ActionKind = "redirect"
)

// Action é a decisão de despacho para uma requisição.
// Article é preenchido nas ações de render; Target apenas em ActionRedirect.
// ClientRedirect, quando não vazio, é um redirecionamento adiado para a
// página renderizada (executado no navegador).
type Action struct {
	Kind           ActionKind
	Article        *Article
	Target         string
	ClientRedirect string
}

// NotFound cria a ação de recurso inexistente
func NotFound() Action {
	return Action{Kind: ActionNotFound}
}

// Redirect cria a ação de redirecionamento imediato
func Redirect(target string) Action {
	return Action{Kind: ActionRedirect, Target: target}
}

// RenderEnriched cria a ação de página completa com metadados sociais
func RenderEnriched(article *Article, clientRedirect string) Action {
	return Action{Kind: ActionRenderEnriched, Article: article, ClientRedirect: clientRedirect}
}

// RenderPlain cria a ação de página com metadados mínimos
func RenderPlain(article *Article, clientRedirect string) Action {
	return Action{Kind: ActionRenderPlain, Article: article, ClientRedirect: clientRedirect}
}
