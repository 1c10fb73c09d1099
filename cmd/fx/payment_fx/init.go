package payment_fx

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"vibedl/internal/api/controllers"
	"vibedl/internal/config"
	"vibedl/internal/gateway"
	"vibedl/internal/repositories"
	"vibedl/internal/services"
)

var Module = fx.Provide(
	provideGatewayClient, providePaymentIntentRepo, providePaymentService, providePaymentController)

func provideGatewayClient(cfg *config.Config, logger zerolog.Logger) gateway.Client {
	return gateway.NewMercadoPagoClient(cfg.MercadoPago.BaseURL, cfg.MercadoPago.AccessToken, logger)
}

func providePaymentIntentRepo(db *gorm.DB) repositories.PaymentIntentRepository {
	return repositories.NewPaymentIntentRepository(db)
}

func providePaymentService(
	intentRepo repositories.PaymentIntentRepository,
	accountRepo repositories.AccountRepository,
	gw gateway.Client,
	cfg *config.Config,
	logger zerolog.Logger,
) services.PaymentServiceInterface {
	return services.NewPaymentService(intentRepo, accountRepo, gw, services.PaymentConfig{
		PriceCentavos:   cfg.PriceCentavos,
		GrantDays:       cfg.GrantDays,
		NotificationURL: cfg.MercadoPago.NotificationURL,
	}, logger)
}

func providePaymentController(paymentService services.PaymentServiceInterface, logger zerolog.Logger) *controllers.PaymentController {
	return controllers.NewPaymentController(paymentService, logger)
}
