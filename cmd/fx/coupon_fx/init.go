package coupon_fx

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"vibedl/internal/api/controllers"
	"vibedl/internal/repositories"
	"vibedl/internal/services"
)

var Module = fx.Provide(
	provideCouponRepo, provideCouponService, provideCouponController)

func provideCouponRepo(db *gorm.DB) repositories.CouponRepository {
	return repositories.NewCouponRepository(db)
}

func provideCouponService(couponRepo repositories.CouponRepository, logger zerolog.Logger) services.CouponServiceInterface {
	return services.NewCouponService(couponRepo, logger)
}

func provideCouponController(couponService services.CouponServiceInterface) *controllers.CouponController {
	return controllers.NewCouponController(couponService)
}
