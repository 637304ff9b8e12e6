package controller

import (
	"github.com/Phechr2025/Bio-Shop-VPN-information/database/model"

	"github.com/gin-gonic/gin"
)

// PanelSettings 管理页读写面板连接配置
type PanelSettings interface {
	ViewPanelConfig() *model.PanelConfig
	SavePanelConfig(adminPassword string, cfg *model.PanelConfig) error
}

type AdminForm struct {
	AdminPassword string `form:"admin_password"`
	PanelBaseURL  string `form:"panel_base_url"`
	PanelUsername string `form:"panel_username"`
	PanelPassword string `form:"panel_password"`
	SubTemplate   string `form:"sub_template"`
}

// AdminController 面板 API 版本的设置页
type AdminController struct {
	BaseController

	settings PanelSettings
}

func NewAdminController(g *gin.RouterGroup, settings PanelSettings) *AdminController {
	a := &AdminController{
		settings: settings,
	}
	a.initRouter(g)
	return a
}

func (a *AdminController) initRouter(g *gin.RouterGroup) {
	g.GET("/admin", a.show)
	g.POST("/admin", a.save)
}

func (a *AdminController) show(c *gin.Context) {
	html(c, "admin.html", gin.H{"cfg": a.settings.ViewPanelConfig()})
}

func (a *AdminController) save(c *gin.Context) {
	var form AdminForm
	_ = c.ShouldBind(&form)

	err := a.settings.SavePanelConfig(form.AdminPassword, &model.PanelConfig{
		PanelBaseURL:  form.PanelBaseURL,
		PanelUsername: form.PanelUsername,
		PanelPassword: form.PanelPassword,
		SubTemplate:   form.SubTemplate,
	})
	data := gin.H{"cfg": a.settings.ViewPanelConfig()}
	if err != nil {
		data["message"] = adminErrorMessage(err)
	} else {
		data["message"] = msgSaved
		data["success"] = true
	}
	html(c, "admin.html", data)
}
