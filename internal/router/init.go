package router

import (
	"github.com/oksasatya/locshare-api/internal/application"
	"github.com/oksasatya/locshare-api/internal/container"
	pginfra "github.com/oksasatya/locshare-api/internal/infrastructure/postgres"
	"github.com/oksasatya/locshare-api/internal/infrastructure/redisstore"
	handlers "github.com/oksasatya/locshare-api/internal/interface/http"
	"github.com/oksasatya/locshare-api/internal/router/modules"
)

type accountModuleDeps struct {
	Accounts *application.AccountService
	Handler  *handlers.AccountHandler
}

type userModuleDeps struct {
	Accounts *application.AccountService
	User     *handlers.UserHandler
	Sharing  *handlers.SharingHandler
	Places   *handlers.PlaceHandler
}

func buildAccountDeps() accountModuleDeps {
	cfg := container.GetConfig()
	rdb := container.GetRedis()
	logger := container.GetLogger()

	users := redisstore.NewUserStore(rdb)
	sharing := redisstore.NewSharingStore(rdb)
	resets := redisstore.NewResetCodeStore(rdb, cfg.ResetCodeTTL)
	flood := redisstore.NewFloodStore(rdb)
	mail := application.NewQueueMailer(container.GetRabbitPub(), logger, cfg.MailSendEnabled)

	accounts := application.NewAccountService(users, sharing, resets, mail, logger,
		cfg.UserIDSalt, cfg.RecoveryModeTimeout, cfg.ResetLinkBase)

	return accountModuleDeps{
		Accounts: accounts,
		Handler:  handlers.NewAccountHandler(accounts, flood, logger),
	}
}

func buildUserDeps(accounts *application.AccountService) userModuleDeps {
	cfg := container.GetConfig()
	rdb := container.GetRedis()
	logger := container.GetLogger()

	users := redisstore.NewUserStore(rdb)
	sharing := redisstore.NewSharingStore(rdb)
	pending := redisstore.NewPendingStore(rdb)
	crashes := pginfra.NewCrashReportRepository(container.GetPGPool())
	mail := application.NewQueueMailer(container.GetRabbitPub(), logger, cfg.MailSendEnabled)

	sharingSvc := application.NewSharingService(users, sharing, pending, mail,
		container.GetPushGateway(), logger, cfg.UserIDSalt, cfg.LocationRequestTimeout)
	dashboards := application.NewDashboardService(users, sharing, logger)
	profiles := application.NewProfileService(users, crashes, logger, cfg.MaxPlacesPerUser)

	return userModuleDeps{
		Accounts: accounts,
		User:     handlers.NewUserHandler(dashboards, profiles, logger),
		Sharing:  handlers.NewSharingHandler(sharingSvc, logger),
		Places:   handlers.NewPlaceHandler(profiles, logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	accountDeps := buildAccountDeps()
	userDeps := buildUserDeps(accountDeps.Accounts)

	r.Add(modules.NewAccountModule(accountDeps.Handler))
	r.Add(modules.NewUserModule(userDeps.Accounts, userDeps.User, userDeps.Sharing, userDeps.Places))
}
