package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Phechr2025/Bio-Shop-VPN-information/config"
	"github.com/Phechr2025/Bio-Shop-VPN-information/logger"
	"github.com/Phechr2025/Bio-Shop-VPN-information/util/common"
	"github.com/Phechr2025/Bio-Shop-VPN-information/web/controller"
	"github.com/Phechr2025/Bio-Shop-VPN-information/web/middleware"
	"github.com/Phechr2025/Bio-Shop-VPN-information/web/security"
	"github.com/Phechr2025/Bio-Shop-VPN-information/web/service"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

//go:embed html/*
var htmlFS embed.FS

// Variant 决定 Web 服务挂载哪一组页面
type Variant string

const (
	// VariantPanel 登录 3x-ui 面板 API 按 Client ID 查询
	VariantPanel Variant = "panel"
	// VariantScrape 抓取订阅页面按订阅 ID 查询
	VariantScrape Variant = "scrape"
)

// ParseVariant 解析命令行传入的版本名称
func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case "", VariantPanel:
		return VariantPanel, nil
	case VariantScrape:
		return VariantScrape, nil
	default:
		return "", fmt.Errorf("unknown variant %q", s)
	}
}

// Keep-Alive 监听器包装器：为每个新连接设置 Keep-Alive
type keepAliveListener struct {
	*net.TCPListener
	KeepAlivePeriod time.Duration
}

func (l keepAliveListener) Accept() (net.Conn, error) {
	tc, err := l.TCPListener.AcceptTCP()
	if err != nil {
		return nil, err
	}
	if err := tc.SetKeepAlive(true); err != nil {
		logger.Warning("Failed to set KeepAlive:", err)
	}
	if err := tc.SetKeepAlivePeriod(l.KeepAlivePeriod); err != nil {
		logger.Warning("Failed to set KeepAlivePeriod:", err)
	}
	return tc, nil
}

type Server struct {
	httpServer *http.Server
	listener   net.Listener

	variant Variant

	settingService *service.SettingService
	lookupService  *service.LookupService
	scrapeService  *service.ScrapeService
	limiter        security.RateLimiter

	ctx    context.Context
	cancel context.CancelFunc
}

func NewServer(variant Variant, settingService *service.SettingService, lookupService *service.LookupService, scrapeService *service.ScrapeService) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		ctx:            ctx,
		cancel:         cancel,
		variant:        variant,
		settingService: settingService,
		lookupService:  lookupService,
		scrapeService:  scrapeService,
	}
}

func (s *Server) Variant() Variant {
	return s.variant
}

func (s *Server) getHtmlFiles() ([]string, error) {
	files := make([]string, 0)
	dir, _ := os.Getwd()
	err := fs.WalkDir(os.DirFS(dir), "web/html", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (s *Server) getHtmlTemplate(funcMap template.FuncMap) (*template.Template, error) {
	t := template.New("").Funcs(funcMap)

	err := fs.WalkDir(htmlFS, "html", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}
		b, err := htmlFS.ReadFile(path)
		if err != nil {
			return err
		}
		// 模板名去掉 "html/" 前缀，和 c.HTML 里使用的文件名一致
		name := strings.TrimPrefix(path, "html/")
		_, err = t.New(name).Parse(string(b))
		return err
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	// 限速按 ClientIP 计数，只有配置过的代理才能通过转发头改写客户端 IP
	if err := engine.SetTrustedProxies(config.GetTrustedProxies()); err != nil {
		return nil, err
	}
	engine.Use(gin.Logger(), middleware.RecoveryMiddleware())

	if webDomain := config.GetWebDomain(); webDomain != "" {
		engine.Use(middleware.DomainValidatorMiddleware(webDomain))
	}
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	engine.SetFuncMap(controller.TemplateFuncs())
	if config.IsDebug() {
		// 开发模式直接读磁盘上的模板，改动后重启即可生效
		files, err := s.getHtmlFiles()
		if err != nil {
			return nil, err
		}
		engine.LoadHTMLFiles(files...)
	} else {
		t, err := s.getHtmlTemplate(engine.FuncMap)
		if err != nil {
			return nil, err
		}
		engine.SetHTMLTemplate(t)
	}

	perMinute, burst := config.GetLookupRate()
	s.limiter = security.NewRateLimiter(&security.RateLimitConfig{
		PerMinute: perMinute,
		Burst:     burst,
	})

	g := engine.Group("/")
	switch s.variant {
	case VariantScrape:
		controller.NewScrapeController(g, s.scrapeService, s.settingService, s.limiter)
	default:
		controller.NewLookupController(g, s.lookupService, s.limiter)
		controller.NewAdminController(g, s.settingService)
	}

	return engine, nil
}

func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listenAddr := net.JoinHostPort(config.GetListen(), strconv.Itoa(config.GetPort()))
	baseListener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}

	var listener net.Listener
	if tcpListener, ok := baseListener.(*net.TCPListener); ok {
		listener = keepAliveListener{
			TCPListener:     tcpListener,
			KeepAlivePeriod: 30 * time.Second,
		}
	} else {
		listener = baseListener
	}
	s.listener = listener
	logger.Infof("Web server (%s) running HTTP on %s", s.variant, listener.Addr())

	s.httpServer = &http.Server{
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		// 查询会串行访问面板和订阅地址，写超时要覆盖两次外部请求
		WriteTimeout: 2*config.GetHTTPTimeout() + 10*time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("web server stopped:", err)
		}
	}()

	return nil
}

func (s *Server) Stop() error {
	s.cancel()
	if s.limiter != nil {
		s.limiter.Close()
	}
	var err1 error
	var err2 error
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		err1 = s.httpServer.Shutdown(ctx)
	}
	if s.listener != nil {
		err2 = s.listener.Close()
		if errors.Is(err2, net.ErrClosed) {
			err2 = nil
		}
	}
	return common.Combine(err1, err2)
}

func (s *Server) GetCtx() context.Context {
	return s.ctx
}

// Addr 返回实际监听地址，未启动时为 nil
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}
