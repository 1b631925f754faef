package config

import "errors"

var (
	ErrMissingRequired = errors.New("configuração obrigatória ausente")
	ErrInvalidValue    = errors.New("valor de configuração inválido")
)
