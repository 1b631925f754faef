package contentsource

import "errors"

var (
	ErrEmptyPath         = errors.New("path do artigo é obrigatório")
	ErrMalformedResponse = errors.New("resposta do upstream malformada")
	ErrSchemaMismatch    = errors.New("payload do upstream fora do schema esperado")
	ErrUpstreamQuery     = errors.New("upstream retornou erros na consulta")
)
