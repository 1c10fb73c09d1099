package entitlement_fx

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"vibedl/internal/api/controllers"
	"vibedl/internal/config"
	"vibedl/internal/repositories"
	"vibedl/internal/services"
)

var Module = fx.Provide(
	provideEntitlementService, provideAdminController)

func provideEntitlementService(accountRepo repositories.AccountRepository, cfg *config.Config, logger zerolog.Logger) services.EntitlementServiceInterface {
	return services.NewEntitlementService(accountRepo, cfg.AdminAPIKey, logger)
}

func provideAdminController(entitlementService services.EntitlementServiceInterface) *controllers.AdminController {
	return controllers.NewAdminController(entitlementService)
}
