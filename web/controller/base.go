package controller

import (
	"net/http"

	"github.com/Phechr2025/Bio-Shop-VPN-information/config"

	"github.com/gin-gonic/gin"
)

type BaseController struct{}

// html 渲染页面，附带站点名称和版本供页脚使用
func html(c *gin.Context, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["app_name"] = config.GetName()
	data["app_version"] = config.GetVersion()
	c.HTML(http.StatusOK, name, data)
}

// htmlError 在指定页面上展示一条错误信息
func htmlError(c *gin.Context, name string, msg string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["error"] = msg
	html(c, name, data)
}
