package download_fx

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"vibedl/internal/api/controllers"
	"vibedl/internal/config"
	"vibedl/internal/extract"
	"vibedl/internal/repositories"
	"vibedl/internal/services"
)

var Module = fx.Provide(
	provideDownloadJobRepo, provideExtractor, provideDownloadService, provideDownloadController)

func provideDownloadJobRepo(db *gorm.DB) repositories.DownloadJobRepository {
	return repositories.NewDownloadJobRepository(db)
}

func provideExtractor(cfg *config.Config, logger zerolog.Logger) extract.Extractor {
	return extract.NewYTDLPExtractor(cfg.YTDLPPath, logger)
}

func provideDownloadService(
	jobRepo repositories.DownloadJobRepository,
	extractor extract.Extractor,
	cfg *config.Config,
	logger zerolog.Logger,
) services.DownloadServiceInterface {
	return services.NewDownloadService(jobRepo, extractor, cfg.DownloadDir, logger)
}

func provideDownloadController(downloadService services.DownloadServiceInterface) *controllers.DownloadController {
	return controllers.NewDownloadController(downloadService)
}
