package controllers

import (
	"errors"
	"net/http"

	"e84consent/internal/models"
	"e84consent/internal/providers"
	"e84consent/internal/services"
	"e84consent/internal/structures"
)

type SessionResolver interface {
	ID(r *http.Request) string
	Ensure(w http.ResponseWriter, r *http.Request, secure bool) string
}

type ConsentController struct {
	logger         providers.Logger
	service        services.ConsentServiceInterface
	sessions       SessionResolver
	metrics        providers.MetricsProviderInterface
	trustForwarded bool
}

func NewConsentController(conf *structures.Config, logger providers.Logger, service services.ConsentServiceInterface, sessions SessionResolver, metrics providers.MetricsProviderInterface) *ConsentController {
	return &ConsentController{
		logger:         logger,
		service:        service,
		sessions:       sessions,
		metrics:        metrics,
		trustForwarded: conf.Consent.TrustForwardedProto,
	}
}

// Register binds the dismissal action for every caller, logged in or not.
func (cc *ConsentController) Register(registry services.ActionRegistry) {
	registry.Register(services.DismissAction, http.HandlerFunc(cc.Dismiss))
}

func (cc *ConsentController) Dismiss(w http.ResponseWriter, r *http.Request) {
	cookie, err := cc.service.Dismiss(models.DismissRequest{
		Nonce:     r.PostFormValue("nonce"),
		SessionID: cc.sessions.ID(r),
		Secure:    providers.IsSecure(r, cc.trustForwarded),
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidNonce) {
			cc.metrics.IncDismissals(providers.DismissRejected)
			cc.logger.Warnf(providers.TypePost, "Dismissal rejected: %s", err)
			providers.WriteAjax(w, http.StatusForbidden, models.AjaxResponse{
				Success: false,
				Data:    map[string]string{"message": "invalid nonce"},
			})
			return
		}
		cc.logger.Errorf(providers.TypePost, "Dismissal failed: %s", err)
		providers.WriteAjax(w, http.StatusInternalServerError, models.AjaxResponse{Success: false})
		return
	}

	http.SetCookie(w, cookie)
	cc.metrics.IncDismissals(providers.DismissAccepted)
	providers.WriteAjax(w, http.StatusOK, models.AjaxResponse{Success: true})
}
