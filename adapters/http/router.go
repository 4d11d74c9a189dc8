package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/khoahotran/cv-portfolio/adapters/metrics"
	authUC "github.com/khoahotran/cv-portfolio/internal/application/usecase/auth"
	"github.com/khoahotran/cv-portfolio/pkg/logger"
	"github.com/khoahotran/cv-portfolio/pkg/validate"
)

type Handlers struct {
	Auth      *AuthHandler
	Profile   *ProfileHandler
	Users     *UserHandler
	Account   *AccountHandler
	Language  *LanguageHandler
	Validate  *ValidateHandler
	Activity  *ActivityHandler
	System    *SystemHandler
	Portfolio *PortfolioHandler
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validate.RegisterRules(v)
	}
}

// NewRouter builds the gin engine with every public and admin route.
func NewRouter(h Handlers, gate *authUC.Gate, watchdog *authUC.Watchdog, log logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), metrics.GinMiddleware(), RequestInfoMiddleware(), ErrorMiddleware(log))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })

		api.GET("/portfolio/:locale", h.Portfolio.GetPortfolio)
		api.GET("/portfolio/:locale/feed.rss", h.Portfolio.Feed)

		api.GET("/language", h.Language.GetLanguage)
		api.PUT("/language", h.Language.SetLanguage)

		api.POST("/validate/email", h.Validate.Email)
		api.POST("/validate/password", h.Validate.Password)

		account := api.Group("/account")
		{
			account.POST("/register", h.Account.Register)
			account.POST("/login", h.Account.Login)
			account.POST("/logout", h.Account.Logout)
			account.GET("/me", h.Account.Me)
		}

		admin := api.Group("/admin")
		{
			admin.POST("/auth/login", h.Auth.Login)

			adminPrivate := admin.Group("/")
			adminPrivate.Use(AuthMiddleware(gate, watchdog, log))
			{
				adminPrivate.POST("/auth/logout", h.Auth.Logout)
				adminPrivate.GET("/session", h.Auth.Session)
				adminPrivate.PUT("/auth/password", h.Auth.ChangePassword)

				profile := adminPrivate.Group("/profile/:locale")
				{
					view := RequirePermission("portfolios", "view")
					edit := RequirePermission("portfolios", "edit")

					profile.GET("", view, h.Profile.GetProfile)
					profile.PUT("", edit, h.Profile.SaveProfile)
					profile.DELETE("", edit, h.Profile.ResetProfile)
					profile.GET("/form", view, h.Profile.GetForm)
					profile.PUT("/form", edit, h.Profile.SaveForm)
					profile.POST("/autosave", edit, h.Profile.Autosave)
					profile.GET("/export", view, h.Profile.ExportProfile)
					profile.POST("/import", edit, h.Profile.ImportProfile)
					profile.POST("/skills", edit, h.Profile.AddSkill)
					profile.DELETE("/skills", edit, h.Profile.RemoveSkill)
					profile.PUT("/experience/:index/current", edit, h.Profile.SetCurrentJob)
					profile.POST("/picture", edit, h.Profile.UploadPicture)
				}

				users := adminPrivate.Group("/users")
				{
					users.GET("", h.Users.ListUsers)
					users.POST("", h.Users.CreateUser)
					users.GET("/stats", h.Users.Stats)
					users.GET("/export.csv", h.Users.ExportCSV)
					users.GET("/:id", h.Users.GetUser)
					users.PUT("/:id", h.Users.UpdateUser)
					users.DELETE("/:id", h.Users.DeleteUser)
					users.POST("/:id/toggle-status", h.Users.ToggleStatus)
				}

				adminPrivate.GET("/activity", RequirePermission("analytics", "view"), h.Activity.ListActivity)
				adminPrivate.GET("/activity/export", RequirePermission("analytics", "export"), h.Activity.ExportActivity)

				adminPrivate.POST("/system/backup", h.System.Backup)
			}
		}
	}

	return router
}
