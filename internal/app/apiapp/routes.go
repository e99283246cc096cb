package apiapp

import (
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/config"
	checkoutsvc "github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/services/checkout"
	"github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/transport/http/handlers"
)

type Dependencies struct {
	CheckoutService *checkoutsvc.Service
	Reconciler      handlers.Reconciler
	Logger          *zap.Logger
	Config          config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	checkoutHandler := handlers.NewCheckoutHandler(deps.CheckoutService, deps.Logger)
	webhookHandler := handlers.NewWebhookHandler(deps.Reconciler, deps.Logger)

	webhookPath := strings.TrimSpace(deps.Config.Site.WebhookPath)
	if webhookPath == "" {
		webhookPath = "/api/webhook"
	}
	if !strings.HasPrefix(webhookPath, "/") {
		webhookPath = "/" + webhookPath
	}

	r.Get("/healthz", healthHandler.Get)
	// Handlers gate methods themselves.
	r.HandleFunc("/api/checkout", checkoutHandler.Handle)
	r.HandleFunc(webhookPath, webhookHandler.Handle)
}
