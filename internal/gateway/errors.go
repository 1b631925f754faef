package gateway

import "errors"

var (
	ErrUnknownPolicy = errors.New("política de despacho desconhecida")
	ErrEmptyHost     = errors.New("host canônico é obrigatório")
	ErrUnknownAction = errors.New("ação de despacho desconhecida")
)
