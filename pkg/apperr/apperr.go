package apperr

import (
	"errors"
	"fmt"
)

// Kind classifica um erro da aplicação em uma das categorias estáveis
// expostas pela API. Apenas KindInternal é elegível para retry pelo caller.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindUnauthorized
	KindInactive
	KindInternal
)

// Error é o erro padrão da aplicação, carregando a categoria e a causa.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.kindString(), e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.kindString(), e.Message)
}

// Unwrap permite o uso de errors.Is e errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) kindString() string {
	switch e.Kind {
	case KindValidation:
		return "ValidationError"
	case KindNotFound:
		return "NotFoundError"
	case KindUnauthorized:
		return "AuthorizationError"
	case KindInactive:
		return "InactiveResourceError"
	case KindInternal:
		return "ServerError"
	default:
		return "UnknownError"
	}
}

// KindString retorna o nome estável da categoria, usado no corpo das respostas HTTP.
func (e *Error) KindString() string {
	return e.kindString()
}

// NewValidation cria um erro de validação (entrada malformada ou incompleta).
func NewValidation(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

// NewNotFound cria um erro de recurso inexistente.
func NewNotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// NewUnauthorized cria um erro de autorização (papel ou empresa incorretos).
func NewUnauthorized(msg string) error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

// NewInactive cria um erro de recurso desativado ou fora da janela de validade.
func NewInactive(msg string) error {
	return &Error{Kind: KindInactive, Message: msg}
}

// NewInternal cria um erro interno embrulhando a causa original.
func NewInternal(msg string, err error) error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf retorna a categoria de um erro; erros desconhecidos contam como internos.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// IsValidation verifica se o erro é de validação.
func IsValidation(err error) bool { return isKind(err, KindValidation) }

// IsNotFound verifica se o erro é de recurso inexistente.
func IsNotFound(err error) bool { return isKind(err, KindNotFound) }

// IsUnauthorized verifica se o erro é de autorização.
func IsUnauthorized(err error) bool { return isKind(err, KindUnauthorized) }

// IsInactive verifica se o erro é de recurso desativado.
func IsInactive(err error) bool { return isKind(err, KindInactive) }

// IsInternal verifica se o erro é interno.
func IsInternal(err error) bool { return isKind(err, KindInternal) }

func isKind(err error, k Kind) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind == k
	}
	return false
}
