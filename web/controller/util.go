package controller

import (
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/Phechr2025/Bio-Shop-VPN-information/util/common"
)

// 页面提示文案
const (
	msgEmptyClientID  = "กรุณากรอก Client ID"
	msgEmptySubID     = "กรุณากรอก Subscription ID"
	msgNotConfigured  = "ยังไม่ได้ตั้งค่าในหน้า Admin"
	msgClientNotFound = "ไม่พบ Client ID นี้ใน 3x-ui: %s"
	msgErrorPrefix    = "เกิดข้อผิดพลาด: %v"
	msgTooManyLookups = "ส่งคำขอบ่อยเกินไป กรุณาลองใหม่ภายหลัง"

	msgWrongAdminPassword = "รหัสผ่านแอดมินไม่ถูกต้อง"
	msgMissingFields      = "กรุณากรอกข้อมูลให้ครบ"
	msgSaved              = "บันทึกการตั้งค่าเรียบร้อยแล้ว"
)

// lookupErrorMessage 把查询流程中的错误转换为页面上展示的提示
func lookupErrorMessage(err error, id string) string {
	switch {
	case errors.Is(err, common.ErrEmptyClientID):
		return msgEmptyClientID
	case errors.Is(err, common.ErrEmptySubID):
		return msgEmptySubID
	case errors.Is(err, common.ErrConfigMissing):
		return msgNotConfigured
	case errors.Is(err, common.ErrClientNotFound):
		return fmt.Sprintf(msgClientNotFound, id)
	default:
		return fmt.Sprintf(msgErrorPrefix, describeError(err))
	}
}

// adminErrorMessage 把保存配置时的错误转换为页面提示
func adminErrorMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrAdminPassword):
		return msgWrongAdminPassword
	case errors.Is(err, common.ErrMissingFields):
		return msgMissingFields
	default:
		return fmt.Sprintf(msgErrorPrefix, describeError(err))
	}
}

func describeError(err error) string {
	var statusErr *common.HTTPStatusError
	switch {
	case errors.As(err, &statusErr):
		return fmt.Sprintf("ปลายทางตอบกลับด้วยสถานะ HTTP %d", statusErr.StatusCode)
	case errors.Is(err, common.ErrAuthFailure):
		return "เข้าสู่ระบบ 3x-ui ไม่สำเร็จ"
	case errors.Is(err, common.ErrNoUsableAPI):
		return "ไม่พบ API inbounds ที่ใช้งานได้"
	case errors.Is(err, common.ErrTransport):
		return "เชื่อมต่อปลายทางไม่สำเร็จ"
	default:
		return "ระบบขัดข้อง กรุณาลองใหม่ภายหลัง"
	}
}

// TemplateFuncs 页面模板使用的函数
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"safeURL": safeURL,
	}
}

// safeURL 只放行图片 data URI，其它地址仍按 html/template 的规则过滤
func safeURL(s string) any {
	if strings.HasPrefix(s, "data:image/") {
		return template.URL(s)
	}
	return s
}
