package controller

import (
	"context"
	"strings"

	"github.com/Phechr2025/Bio-Shop-VPN-information/web/middleware"
	"github.com/Phechr2025/Bio-Shop-VPN-information/web/security"
	"github.com/Phechr2025/Bio-Shop-VPN-information/web/service"

	"github.com/gin-gonic/gin"
)

// ClientLookup 按 Client ID 查询面板中的客户端
type ClientLookup interface {
	Lookup(ctx context.Context, clientID string) (*service.LookupResult, error)
}

type LookupForm struct {
	ClientID string `form:"client_id"`
}

// LookupController 面板 API 版本的首页和查询
type LookupController struct {
	BaseController

	lookupService ClientLookup
}

func NewLookupController(g *gin.RouterGroup, lookupService ClientLookup, limiter security.RateLimiter) *LookupController {
	a := &LookupController{
		lookupService: lookupService,
	}
	a.initRouter(g, limiter)
	return a
}

func (a *LookupController) initRouter(g *gin.RouterGroup, limiter security.RateLimiter) {
	g.GET("/", a.index)

	handlers := []gin.HandlerFunc{a.lookup}
	if limiter != nil {
		handlers = append([]gin.HandlerFunc{middleware.RateLimitMiddleware(limiter, a.limited)}, handlers...)
	}
	g.POST("/lookup", handlers...)
}

func (a *LookupController) index(c *gin.Context) {
	html(c, "index.html", nil)
}

func (a *LookupController) limited(c *gin.Context) {
	htmlError(c, "index.html", msgTooManyLookups, nil)
}

func (a *LookupController) lookup(c *gin.Context) {
	var form LookupForm
	_ = c.ShouldBind(&form)
	form.ClientID = strings.TrimSpace(form.ClientID)

	result, err := a.lookupService.Lookup(c.Request.Context(), form.ClientID)
	if err != nil {
		htmlError(c, "index.html", lookupErrorMessage(err, form.ClientID), gin.H{"client_id": form.ClientID})
		return
	}
	html(c, "result.html", gin.H{"data": result})
}
