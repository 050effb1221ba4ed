package main

// @title           ERPNext Business Copilot API
// @version         1.0
// @description     采购业务助手后端 API，提供自然语言问答与采购分析服务
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support

// @host      localhost:8080
// @BasePath  /api/v1

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/config"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/repo/rperp"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/services/svcopilot"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/pkg/logger"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/server/handlers/copilot"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/server/handlers/data"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/server/routers"
)

func main() {
	// 1. 加载配置
	cfg, err := config.LoadDefault()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config validation failed: %v", err)
	}

	// 2. 初始化日志
	appLogger, err := logger.NewZapLogger(cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer appLogger.Sync()

	// 3. 组装依赖：数据网关 -> 编排服务 -> HTTP 处理器
	gateway := rperp.NewGateway(cfg.ERP.BaseURL, cfg.ERP.APIKey, cfg.ERP.APISecret, cfg.ERP.Timeout)
	copilotService := svcopilot.NewService(gateway, appLogger)
	copilotHandler := copilot.NewCopilotHandler(copilotService)
	dataHandler := data.NewDataHandler(gateway)

	engine := routers.SetupRoutes(copilotHandler, dataHandler, appLogger)

	// 4. 创建 HTTP Server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: engine,
	}

	// 5. 启动 HTTP Server（后台 goroutine）
	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	// 6. 优雅停机处理
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Println("Received shutdown signal, gracefully shutting down...")
		gracefulShutdown(server)
	case err := <-serverErrChan:
		log.Fatalf("HTTP server error: %v", err)
	}

	log.Println("Application stopped")
}

// gracefulShutdown 优雅停机
func gracefulShutdown(server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	} else {
		log.Println("HTTP server stopped gracefully")
	}
}
