package bootstrap

import (
	"regexp"

	httpapi "github.com/RinkiBai/portfolio-backend/internal/api/http"
	"github.com/RinkiBai/portfolio-backend/internal/api/http/middleware"
	"github.com/RinkiBai/portfolio-backend/internal/contact/guard"
	contacthttp "github.com/RinkiBai/portfolio-backend/internal/contact/http"
	"github.com/RinkiBai/portfolio-backend/internal/projects"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	Logger         *zap.Logger
	DB             httpapi.Pinger
	TrustedProxies []string
	MaxBodyBytes   int64
	AllowedOrigins []string
	OriginPatterns []*regexp.Regexp
	Contact        *contacthttp.Handler
	Limiter        guard.Limiter
	OperatorAuth   gin.HandlerFunc
	Catalog        projects.Catalog
}

func BuildRouter(dep RouterDeps) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(dep.TrustedProxies); err != nil {
		return nil, err
	}

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(dep.Logger))
	r.Use(middleware.CORS(dep.AllowedOrigins, dep.OriginPatterns))
	r.Use(middleware.BodyLimit(dep.MaxBodyBytes))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api")

	var submitGuards []gin.HandlerFunc
	if dep.Limiter != nil {
		submitGuards = append(submitGuards, guard.Middleware(dep.Limiter, dep.Logger))
	}
	dep.Contact.Register(api.Group("/contact"), submitGuards, dep.OperatorAuth)

	projects.Register(api.Group("/projects"), dep.Catalog, dep.Logger)

	return r, nil
}
