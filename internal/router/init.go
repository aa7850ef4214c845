package router

import (
	app "github.com/campnet-io/campnet-backend/internal/application"
	"github.com/campnet-io/campnet-backend/internal/container"
	pginfra "github.com/campnet-io/campnet-backend/internal/infrastructure/postgres"
	handlers "github.com/campnet-io/campnet-backend/internal/interface/http"
	"github.com/campnet-io/campnet-backend/internal/router/modules"
)

// InitModules builds all feature services from the container singletons and
// registers their route modules. Called once at startup, after the container
// is populated. It returns the notification service so main can subscribe it
// to the event bus.
func InitModules(r *Registry) *app.NotificationService {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()
	jwt := container.GetJWT()

	userRepo := pginfra.NewUserRepository(pool)
	followRepo := pginfra.NewFollowRepository(pool)
	notifRepo := pginfra.NewNotificationRepository(pool)
	courseRepo := pginfra.NewCourseRepository(pool)
	commentRepo := pginfra.NewCommentRepository(pool)

	userSvc := app.NewUserService(userRepo, jwt, container.GetRedis(), logger)
	userSvc.GCS = container.GetGCS()
	userSvc.GCSBucket = cfg.GCSBucket
	userSvc.ES = container.GetES()
	userSvc.ESUsersIndex = cfg.ESUsersIndex
	userSvc.SMS = container.GetSMS()
	userSvc.SMSEnabled = cfg.SMSSendEnabled
	userSvc.Mail = container.GetRabbitPub()
	userSvc.MailEnabled = cfg.MailSendEnabled
	userSvc.ResetURL = cfg.ResetPasswordURL

	followSvc := app.NewFollowService(followRepo, userRepo, container.GetBus(), logger)
	notifSvc := app.NewNotificationService(notifRepo, container.GetRedis(), cfg.NotifyChannel, logger)
	courseSvc := app.NewCourseService(courseRepo, userRepo, container.GetBus(), logger)
	commentSvc := app.NewCommentService(commentRepo, courseRepo, logger)

	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, logger, cfg.CookieDomain, cfg.CookieSecure), jwt))
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(userSvc, logger), jwt))
	r.Add(modules.NewAdminModule(handlers.NewAdminHandler(userSvc, logger), jwt))
	r.Add(modules.NewFollowModule(handlers.NewFollowHandler(followSvc, logger), jwt))
	r.Add(modules.NewNotificationModule(handlers.NewNotificationHandler(notifSvc, logger), jwt))
	r.Add(modules.NewCourseModule(handlers.NewCourseHandler(courseSvc, logger), handlers.NewCommentHandler(commentSvc, logger), jwt))
	r.Add(modules.NewRealtimeModule(container.GetHub(), jwt))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}

	return notifSvc
}
