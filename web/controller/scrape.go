package controller

import (
	"context"
	"strings"

	"github.com/Phechr2025/Bio-Shop-VPN-information/database/model"
	"github.com/Phechr2025/Bio-Shop-VPN-information/sub"
	"github.com/Phechr2025/Bio-Shop-VPN-information/web/middleware"
	"github.com/Phechr2025/Bio-Shop-VPN-information/web/security"

	"github.com/gin-gonic/gin"
)

// SubscriptionLookup 按订阅 ID 抓取订阅页面
type SubscriptionLookup interface {
	Lookup(ctx context.Context, subID string) (*sub.ParsedSubscription, error)
}

// ScrapeSettings 管理页读写订阅页地址
type ScrapeSettings interface {
	ViewScrapeConfig() *model.ScrapeConfig
	SaveScrapeConfig(adminPassword string, baseURL string) error
}

type ScrapeLookupForm struct {
	SubID string `form:"sub_id"`
}

type ScrapeAdminForm struct {
	Password string `form:"password"`
	BaseURL  string `form:"base_url"`
}

// ScrapeController 订阅页抓取版本的首页、查询和设置页
type ScrapeController struct {
	BaseController

	scrapeService SubscriptionLookup
	settings      ScrapeSettings
}

func NewScrapeController(g *gin.RouterGroup, scrapeService SubscriptionLookup, settings ScrapeSettings, limiter security.RateLimiter) *ScrapeController {
	a := &ScrapeController{
		scrapeService: scrapeService,
		settings:      settings,
	}
	a.initRouter(g, limiter)
	return a
}

func (a *ScrapeController) initRouter(g *gin.RouterGroup, limiter security.RateLimiter) {
	g.GET("/", a.index)

	handlers := []gin.HandlerFunc{a.lookup}
	if limiter != nil {
		handlers = append([]gin.HandlerFunc{middleware.RateLimitMiddleware(limiter, a.limited)}, handlers...)
	}
	g.POST("/lookup", handlers...)

	g.GET("/admin", a.showAdmin)
	g.POST("/admin", a.saveAdmin)
}

func (a *ScrapeController) index(c *gin.Context) {
	html(c, "scrape_index.html", nil)
}

func (a *ScrapeController) limited(c *gin.Context) {
	htmlError(c, "scrape_index.html", msgTooManyLookups, nil)
}

func (a *ScrapeController) lookup(c *gin.Context) {
	var form ScrapeLookupForm
	_ = c.ShouldBind(&form)
	form.SubID = strings.TrimSpace(form.SubID)

	parsed, err := a.scrapeService.Lookup(c.Request.Context(), form.SubID)
	if err != nil {
		htmlError(c, "scrape_index.html", lookupErrorMessage(err, form.SubID), gin.H{"sub_id": form.SubID})
		return
	}
	html(c, "scrape_result.html", gin.H{"data": parsed, "sub_id": form.SubID})
}

func (a *ScrapeController) showAdmin(c *gin.Context) {
	html(c, "scrape_admin.html", gin.H{"cfg": a.settings.ViewScrapeConfig()})
}

func (a *ScrapeController) saveAdmin(c *gin.Context) {
	var form ScrapeAdminForm
	_ = c.ShouldBind(&form)

	err := a.settings.SaveScrapeConfig(form.Password, form.BaseURL)
	data := gin.H{"cfg": a.settings.ViewScrapeConfig()}
	if err != nil {
		data["message"] = adminErrorMessage(err)
	} else {
		data["message"] = msgSaved
		data["success"] = true
	}
	html(c, "scrape_admin.html", data)
}
