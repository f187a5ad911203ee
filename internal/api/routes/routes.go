package routes

import (
	"html/template"
	"net/http"

	"visitlog/internal/api/handlers"
	"visitlog/internal/api/middleware"
	"visitlog/internal/config"
	"visitlog/internal/services"
	"visitlog/web"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config, db *gorm.DB, codes *services.CodeStore, mailer services.Mailer) {
	// Views are embedded so the server runs from any working directory
	r.SetHTMLTemplate(template.Must(template.ParseFS(web.Templates, "templates/*.html")))

	// Initialize services
	authService := services.NewAuthService(cfg, db)
	visitService := services.NewVisitService(cfg, db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, codes, mailer, cfg)
	visitHandler := handlers.NewVisitHandler(visitService)

	// Public routes
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/login")
	})
	r.GET("/login", authHandler.ShowLogin)
	r.GET("/register", authHandler.ShowRegister)
	r.POST("/create_account", authHandler.CreateAccount)
	r.POST("/check-user", authHandler.CheckUser)
	r.POST("/verify_code", authHandler.VerifyCode)

	// Session-gated routes
	protected := r.Group("")
	protected.Use(middleware.SessionMiddleware(authService))
	{
		protected.GET("/visits", visitHandler.ListVisits)
		protected.GET("/create-visit", visitHandler.ShowCreateVisit)
		protected.POST("/register-visit", visitHandler.RegisterVisit)
	}
}
