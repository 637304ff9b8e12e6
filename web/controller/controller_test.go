package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Phechr2025/Bio-Shop-VPN-information/database/model"
	"github.com/Phechr2025/Bio-Shop-VPN-information/sub"
	"github.com/Phechr2025/Bio-Shop-VPN-information/util/common"
	"github.com/Phechr2025/Bio-Shop-VPN-information/web/security"
	"github.com/Phechr2025/Bio-Shop-VPN-information/web/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestEngine() (*gin.Engine, *gin.RouterGroup) {
	engine := gin.New()
	engine.SetFuncMap(TemplateFuncs())
	engine.LoadHTMLGlob("../html/*.html")
	return engine, engine.Group("/")
}

func postForm(engine *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = "192.0.2.10:40000"
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func get(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

type fakeLookup struct {
	gotID  string
	result *service.LookupResult
	err    error
}

func (f *fakeLookup) Lookup(ctx context.Context, clientID string) (*service.LookupResult, error) {
	f.gotID = clientID
	return f.result, f.err
}

type fakePanelSettings struct {
	password string
	cfg      model.PanelConfig
}

func (f *fakePanelSettings) ViewPanelConfig() *model.PanelConfig {
	cfg := f.cfg
	return &cfg
}

func (f *fakePanelSettings) SavePanelConfig(adminPassword string, cfg *model.PanelConfig) error {
	if adminPassword != f.password {
		return common.ErrAdminPassword
	}
	if cfg.PanelBaseURL == "" || cfg.PanelUsername == "" || cfg.PanelPassword == "" {
		return common.ErrMissingFields
	}
	f.cfg = *cfg
	return nil
}

func TestLookupController_Index(t *testing.T) {
	engine, g := newTestEngine()
	NewLookupController(g, &fakeLookup{}, nil)

	w := get(engine, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="client_id"`)
	assert.NotContains(t, w.Body.String(), "no value")
}

func TestLookupController_ErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"empty", common.ErrEmptyClientID, "กรุณากรอก Client ID"},
		{"not configured", common.ErrConfigMissing, "ยังไม่ได้ตั้งค่าในหน้า Admin"},
		{"not found", common.ErrClientNotFound, "ไม่พบ Client ID นี้ใน 3x-ui: abc-123"},
		{"auth", common.HandleError("LookupService.Login", common.ErrAuthFailure), "เกิดข้อผิดพลาด: เข้าสู่ระบบ 3x-ui ไม่สำเร็จ"},
		{"no api", common.ErrNoUsableAPI, "เกิดข้อผิดพลาด: ไม่พบ API inbounds ที่ใช้งานได้"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, g := newTestEngine()
			NewLookupController(g, &fakeLookup{err: tt.err}, nil)

			w := postForm(engine, "/lookup", url.Values{"client_id": {"abc-123"}})
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
			assert.Contains(t, w.Body.String(), `value="abc-123"`)
		})
	}
}

func TestLookupController_TrimsClientID(t *testing.T) {
	engine, g := newTestEngine()
	NewLookupController(g, &fakeLookup{err: common.ErrClientNotFound}, nil)

	w := postForm(engine, "/lookup", url.Values{"client_id": {"  abc-123 "}})
	body := w.Body.String()
	assert.Contains(t, body, "ไม่พบ Client ID นี้ใน 3x-ui: abc-123<")
	assert.Contains(t, body, `value="abc-123"`)
	assert.NotContains(t, body, "  abc-123 ")
}

func TestLookupController_Result(t *testing.T) {
	lookup := &fakeLookup{result: &service.LookupResult{
		ClientID:        "abc-123",
		Email:           "user@bio.shop",
		Enable:          true,
		TotalGBText:     "50.00GB",
		ExpiryText:      "2026-12-31 00:00:00",
		HasTraffic:      true,
		UsageUpText:     "1.00MB",
		UsageDownText:   "2.00MB",
		UsageTotalText:  "3.00MB",
		InboundProtocol: "vless",
		Port:            "443",
		SubURL:          "http://127.0.0.1:2096/sub/user@bio.shop",
		Configs:         []string{"vless://a@h:443#sg"},
		QRDataURI:       "data:image/png;base64,iVBORw0KGgo=",
	}}
	engine, g := newTestEngine()
	NewLookupController(g, lookup, nil)

	w := postForm(engine, "/lookup", url.Values{"client_id": {"  abc-123 "}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc-123", lookup.gotID)

	body := w.Body.String()
	assert.Contains(t, body, "user@bio.shop")
	assert.Contains(t, body, "50.00GB")
	assert.Contains(t, body, "2026-12-31 00:00:00")
	assert.Contains(t, body, "vless://a@h:443#sg")
	assert.Contains(t, body, `src="data:image/png;base64,iVBORw0KGgo="`)
	assert.NotContains(t, body, "ZgotmplZ")
}

func TestLookupController_RateLimited(t *testing.T) {
	limiter := security.NewRateLimiter(&security.RateLimitConfig{PerMinute: 1, Burst: 1})
	defer limiter.Close()

	lookup := &fakeLookup{err: common.ErrClientNotFound}
	engine, g := newTestEngine()
	NewLookupController(g, lookup, limiter)

	first := postForm(engine, "/lookup", url.Values{"client_id": {"a"}})
	assert.Contains(t, first.Body.String(), "ไม่พบ Client ID")

	lookup.gotID = ""
	second := postForm(engine, "/lookup", url.Values{"client_id": {"b"}})
	assert.Contains(t, second.Body.String(), "ส่งคำขอบ่อยเกินไป")
	assert.Empty(t, lookup.gotID)
}

func TestAdminController(t *testing.T) {
	settings := &fakePanelSettings{password: "pw", cfg: *model.DefaultPanelConfig()}
	engine, g := newTestEngine()
	NewAdminController(g, settings)

	w := get(engine, "/admin")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), model.DefaultPanelBaseURL)

	form := url.Values{
		"admin_password": {"wrong"},
		"panel_base_url": {"http://new:2053"},
		"panel_username": {"u"},
		"panel_password": {"p"},
	}
	w = postForm(engine, "/admin", form)
	assert.Contains(t, w.Body.String(), "รหัสผ่านแอดมินไม่ถูกต้อง")
	assert.Equal(t, model.DefaultPanelBaseURL, settings.cfg.PanelBaseURL)

	form.Set("admin_password", "pw")
	form.Set("panel_username", "")
	w = postForm(engine, "/admin", form)
	assert.Contains(t, w.Body.String(), "กรุณากรอกข้อมูลให้ครบ")

	form.Set("panel_username", "u")
	form.Set("sub_template", "http://new:2096/sub/{id}")
	w = postForm(engine, "/admin", form)
	assert.Contains(t, w.Body.String(), "บันทึกการตั้งค่าเรียบร้อยแล้ว")
	assert.Contains(t, w.Body.String(), "http://new:2053")
	assert.Equal(t, "http://new:2096/sub/{id}", settings.cfg.SubTemplate)
}

type fakeScrapeLookup struct {
	gotID  string
	parsed *sub.ParsedSubscription
	err    error
}

func (f *fakeScrapeLookup) Lookup(ctx context.Context, subID string) (*sub.ParsedSubscription, error) {
	f.gotID = subID
	return f.parsed, f.err
}

type fakeScrapeSettings struct {
	password string
	url      string
}

func (f *fakeScrapeSettings) ViewScrapeConfig() *model.ScrapeConfig {
	return &model.ScrapeConfig{URL: f.url}
}

func (f *fakeScrapeSettings) SaveScrapeConfig(adminPassword string, baseURL string) error {
	if adminPassword != f.password {
		return common.ErrAdminPassword
	}
	if strings.TrimSpace(baseURL) == "" {
		return common.ErrMissingFields
	}
	f.url = baseURL
	return nil
}

func TestScrapeController_Lookup(t *testing.T) {
	parsed := &sub.ParsedSubscription{
		QRCode:  "data:image/png;base64,AAAA",
		Fields:  []sub.Field{{Label: sub.LabelStatus, Value: "Active"}, {Label: sub.LabelExpiry}},
		Configs: []string{"trojan://pw@h:443#jp"},
	}
	engine, g := newTestEngine()
	NewScrapeController(g, &fakeScrapeLookup{parsed: parsed}, &fakeScrapeSettings{}, nil)

	w := postForm(engine, "/lookup", url.Values{"sub_id": {"abc"}})
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Active")
	assert.Contains(t, body, "trojan://pw@h:443#jp")
	assert.Contains(t, body, `src="data:image/png;base64,AAAA"`)
}

func TestScrapeController_Errors(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{common.ErrEmptySubID, "กรุณากรอก Subscription ID"},
		{common.ErrConfigMissing, "ยังไม่ได้ตั้งค่าในหน้า Admin"},
		{&common.HTTPStatusError{URL: "http://x/abc", StatusCode: 404}, "HTTP 404"},
		{common.ErrTransport, "เชื่อมต่อปลายทางไม่สำเร็จ"},
	}
	for _, tt := range tests {
		engine, g := newTestEngine()
		NewScrapeController(g, &fakeScrapeLookup{err: tt.err}, &fakeScrapeSettings{}, nil)

		w := postForm(engine, "/lookup", url.Values{"sub_id": {"abc"}})
		assert.Contains(t, w.Body.String(), tt.want)
	}
}

func TestScrapeController_TrimsSubID(t *testing.T) {
	lookup := &fakeScrapeLookup{err: &common.HTTPStatusError{URL: "http://x/abc", StatusCode: 404}}
	engine, g := newTestEngine()
	NewScrapeController(g, lookup, &fakeScrapeSettings{}, nil)

	w := postForm(engine, "/lookup", url.Values{"sub_id": {" abc\t"}})
	assert.Equal(t, "abc", lookup.gotID)
	assert.Contains(t, w.Body.String(), `value="abc"`)
}

func TestScrapeController_Admin(t *testing.T) {
	settings := &fakeScrapeSettings{password: "pw", url: model.DefaultScrapeBaseURL}
	engine, g := newTestEngine()
	NewScrapeController(g, &fakeScrapeLookup{}, settings, nil)

	w := get(engine, "/admin")
	assert.Contains(t, w.Body.String(), model.DefaultScrapeBaseURL)

	w = postForm(engine, "/admin", url.Values{"password": {"nope"}, "base_url": {"http://evil/sub"}})
	assert.Contains(t, w.Body.String(), "รหัสผ่านแอดมินไม่ถูกต้อง")
	assert.Equal(t, model.DefaultScrapeBaseURL, settings.url)

	w = postForm(engine, "/admin", url.Values{"password": {"pw"}, "base_url": {"https://sub.example.com/sub"}})
	assert.Contains(t, w.Body.String(), "บันทึกการตั้งค่าเรียบร้อยแล้ว")
	assert.Equal(t, "https://sub.example.com/sub", settings.url)
}

func TestSafeURL(t *testing.T) {
	_, isURL := safeURL("data:image/png;base64,AAAA").(string)
	assert.False(t, isURL)
	assert.Equal(t, "javascript:alert(1)", safeURL("javascript:alert(1)"))
}
