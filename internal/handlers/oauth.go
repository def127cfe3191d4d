package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/thereayou/noticeboard/internal/apperr"
	"github.com/thereayou/noticeboard/internal/metrics"
	"github.com/thereayou/noticeboard/internal/oauth"
	"github.com/thereayou/noticeboard/internal/services"
)

type OAuthHandler struct {
	providers   *oauth.Registry
	states      oauth.StateStore
	auth        *services.AuthService
	frontendURL string
	log         logrus.FieldLogger
}

func NewOAuthHandler(providers *oauth.Registry, states oauth.StateStore, svc *services.AuthService, frontendURL string, log logrus.FieldLogger) *OAuthHandler {
	return &OAuthHandler{
		providers:   providers,
		states:      states,
		auth:        svc,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		log:         log,
	}
}

// Redirect отправляет пользователя на страницу согласия провайдера
func (h *OAuthHandler) Redirect(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provider, err := h.providers.Get(name)
		if err != nil {
			fail(c, apperr.NotFound("Unknown login provider"))
			return
		}

		state := oauth.NewState()
		if err := h.states.Save(c.Request.Context(), state, name, oauth.StateTTL); err != nil {
			fail(c, err)
			return
		}

		c.Redirect(http.StatusFound, provider.AuthCodeURL(state))
	}
}

// Callback меняет code на профиль, связывает аккаунт и возвращает токен фронтенду.
// Apple присылает form_post, Google: query; c.Request.Form содержит оба.
func (h *OAuthHandler) Callback(name string) gin.HandlerFunc {
	failed := apperr.Unauthorized(strings.ToUpper(name[:1]) + name[1:] + " authentication failed")

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if err := c.Request.ParseForm(); err != nil {
			fail(c, apperr.BadRequest("Invalid callback request"))
			return
		}
		form := c.Request.Form

		provider, err := h.providers.Get(name)
		if err != nil {
			fail(c, apperr.NotFound("Unknown login provider"))
			return
		}

		stateProvider, err := h.states.Consume(ctx, form.Get("state"))
		if err != nil || stateProvider != name {
			h.log.WithField("provider", name).Warn("oauth callback with invalid state")
			metrics.Login(name, false)
			fail(c, failed)
			return
		}

		code := form.Get("code")
		if code == "" {
			metrics.Login(name, false)
			fail(c, failed)
			return
		}

		identity, err := provider.Exchange(ctx, code, c.Request.PostForm)
		if err != nil {
			h.log.WithError(err).WithField("provider", name).Warn("oauth exchange failed")
			metrics.Login(name, false)
			fail(c, failed)
			return
		}

		res, err := h.auth.LoginWithProvider(ctx, identity)
		metrics.Login(name, err == nil)
		if errors.Is(err, oauth.ErrNoEmail) {
			fail(c, apperr.BadRequest("No email found from OAuth provider"))
			return
		}
		if err != nil {
			fail(c, err)
			return
		}

		c.Redirect(http.StatusFound, h.frontendURL+"/auth/callback?token="+url.QueryEscape(res.Token))
	}
}
