package deepseek

import (
	"errors"

	"seminary/internal/calllog"
)

// Kind classifies a failed call.
type Kind int

const (
	KindTimeout Kind = iota + 1
	KindTransport
	KindUnexpected
	KindNotConfigured
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindTransport:
		return "transport"
	case KindUnexpected:
		return "unexpected"
	case KindNotConfigured:
		return "not_configured"
	}
	return "unknown"
}

// Sentinels for errors.Is against a *CallError of the matching kind.
var (
	ErrTimeout       = errors.New("deepseek: timeout")
	ErrTransport     = errors.New("deepseek: request failed")
	ErrUnexpected    = errors.New("deepseek: unexpected failure")
	ErrNotConfigured = errors.New("deepseek: api key not configured")
)

// CallError is returned by Client.Call. Error() is the message shown to end
// users; the cause is available through Unwrap.
type CallError struct {
	Kind Kind
	Err  error
}

func (e *CallError) Error() string {
	switch e.Kind {
	case KindTimeout:
		return "Désolé, je n'ai pas pu obtenir une réponse de l'API DeepSeek dans le délai imparti. Veuillez réessayer plus tard."
	case KindTransport:
		return "Désolé, une erreur s'est produite lors de l'appel à l'API DeepSeek: " + e.cause()
	case KindNotConfigured:
		return "Désolé, je ne peux pas traiter votre demande car la clé API DeepSeek n'est pas configurée. Veuillez contacter l'administrateur."
	default:
		return "Désolé, une erreur inattendue s'est produite: " + e.cause()
	}
}

func (e *CallError) cause() string {
	if e.Err == nil {
		return ""
	}
	return calllog.Redact(e.Err.Error())
}

func (e *CallError) Unwrap() error { return e.Err }

func (e *CallError) Is(target error) bool {
	switch target {
	case ErrTimeout:
		return e.Kind == KindTimeout
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrUnexpected:
		return e.Kind == KindUnexpected
	case ErrNotConfigured:
		return e.Kind == KindNotConfigured
	}
	return false
}

// Retryable reports whether another attempt may succeed.
func (k Kind) Retryable() bool { return k == KindTimeout || k == KindTransport }
