package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"vibedl/cmd/fx/account_fx"
	"vibedl/cmd/fx/config_fx"
	"vibedl/cmd/fx/coupon_fx"
	"vibedl/cmd/fx/db_fx"
	"vibedl/cmd/fx/download_fx"
	"vibedl/cmd/fx/entitlement_fx"
	"vibedl/cmd/fx/payment_fx"
	"vibedl/internal/api/controllers"
	"vibedl/internal/config"
	"vibedl/internal/services"
	"vibedl/pkg/middleware"
	"vibedl/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	app := fx.New(
		config_fx.Module,
		db_fx.Module,
		entitlement_fx.Module,
		account_fx.Module,
		payment_fx.Module,
		coupon_fx.Module,
		download_fx.Module,

		fx.Invoke(initJWT),
		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func initJWT(cfg *config.Config) {
	utils.InitJWT(cfg.JWTSecret)
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, cfg *config.Config, logger zerolog.Logger) {
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("starting HTTP server")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("HTTP server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

func ProvideRouter(
	logger zerolog.Logger,
	entitlementService services.EntitlementServiceInterface,
	accountController *controllers.AccountController,
	paymentController *controllers.PaymentController,
	couponController *controllers.CouponController,
	adminController *controllers.AdminController,
	downloadController *controllers.DownloadController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORSMiddleware())

	RegisterRoutes(r, entitlementService,
		accountController, paymentController, couponController, adminController, downloadController)

	return r
}

func RegisterRoutes(
	r *gin.Engine,
	entitlementService services.EntitlementServiceInterface,
	accountController *controllers.AccountController,
	paymentController *controllers.PaymentController,
	couponController *controllers.CouponController,
	adminController *controllers.AdminController,
	downloadController *controllers.DownloadController,
) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	accounts := r.Group("/accounts")
	accounts.POST("/register", accountController.Register)
	accounts.POST("/login", accountController.Login)

	payments := r.Group("/payments")
	payments.POST("/webhook", paymentController.HandleWebhook)
	authedPayments := payments.Group("")
	authedPayments.Use(middleware.JWTAuthMiddleware())
	authedPayments.POST("/pix", paymentController.CreatePixPayment)
	authedPayments.GET("/status/:reference", paymentController.CheckStatus)

	coupons := r.Group("/coupons")
	coupons.Use(middleware.JWTAuthMiddleware())
	coupons.POST("/redeem", couponController.Redeem)

	admin := r.Group("/admin")
	admin.POST("/grant", adminController.Grant)

	downloads := r.Group("/downloads")
	downloads.Use(middleware.JWTAuthMiddleware())
	downloads.Use(middleware.EntitlementMiddleware(entitlementService.Authorize))
	downloads.POST("", downloadController.Create)
}
