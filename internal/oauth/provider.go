package oauth

import (
	"context"
	"errors"
	"net/url"
)

const (
	ProviderGoogle = "google"
	ProviderApple  = "apple"
)

var (
	ErrUnknownProvider = errors.New("unknown oauth provider")
	ErrInvalidState    = errors.New("invalid or expired oauth state")
	ErrNoEmail         = errors.New("no email found from oauth provider")
)

// Identity: профиль, полученный от провайдера после обмена кода
type Identity struct {
	Provider   string
	ProviderID string
	Email      string
	Name       string
}

// Provider: адаптер redirect/code-exchange одного провайдера.
// form содержит поля callback-запроса (Apple передаёт имя в поле user).
type Provider interface {
	Name() string
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string, form url.Values) (*Identity, error)
}

// Registry хранит включённых провайдеров
type Registry struct {
	providers map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider)}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, ErrUnknownProvider
	}
	return p, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
