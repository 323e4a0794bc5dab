package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"time"

	"socialhub/internal/config"
	"socialhub/internal/logger"
)

// HTTPServer 包装 http.Server，按配置决定是否启用 TLS
type HTTPServer struct {
	srv      *http.Server
	tls      bool
	certFile string
	keyFile  string
}

// New 创建 HTTP 服务器
func New(cfg *config.Config, handler http.Handler) *HTTPServer {
	s := &HTTPServer{
		srv: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
			Handler: handler,

			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
		},
		tls:      cfg.Server.TLS.Enabled,
		certFile: cfg.Server.TLS.CertFile,
		keyFile:  cfg.Server.TLS.KeyFile,
	}
	if s.tls {
		s.srv.TLSConfig = TLSConfig()
	}
	return s
}

// TLSConfig 标准TLS配置，最低 TLS 1.2
func TLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion: tls.VersionTLS12,
		CipherSuites: []uint16{
			tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
		},
	}
}

// Addr 监听地址
func (s *HTTPServer) Addr() string {
	return s.srv.Addr
}

// ValidateCertificates 启用 TLS 时检查证书和私钥能否加载
func (s *HTTPServer) ValidateCertificates() error {
	if !s.tls {
		return nil
	}
	if _, err := tls.LoadX509KeyPair(s.certFile, s.keyFile); err != nil {
		return fmt.Errorf("验证TLS证书失败: %w", err)
	}
	return nil
}

// Start 阻塞运行直到服务器关闭；正常关闭时返回 nil
func (s *HTTPServer) Start() error {
	var err error
	if s.tls {
		logger.Info("启动HTTPS服务器", "addr", s.srv.Addr, "cert", s.certFile)
		err = s.srv.ListenAndServeTLS(s.certFile, s.keyFile)
	} else {
		logger.Info("启动HTTP服务器", "addr", s.srv.Addr)
		err = s.srv.ListenAndServe()
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown 优雅关闭
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
