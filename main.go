package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"go-satire/config"
	"go-satire/internal/handler"
	"go-satire/internal/scheduler"
	"go-satire/internal/service"
	"go-satire/internal/store"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	gin.SetMode(cfg.Server.Mode)

	// 初始化数据库
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatal("Failed to create data dir:", err)
	}
	db, err := gorm.Open(sqlite.Open(cfg.Database.Path), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect database:", err)
	}

	// 自动迁移
	st := store.NewStore(db)
	if err := st.AutoMigrate(); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// 初始化服务
	newsSvc := service.NewNewsService(cfg.News)
	llmSvc := service.NewLLMService(cfg.LLM)
	imageSvc := service.NewImageService(cfg.Image)
	poster := service.NewPosterService(st, cfg.Twitter, cfg.Encryption.Key)
	engine := service.NewEngine(newsSvc, llmSvc, imageSvc, poster)

	// 启动各租户定时任务
	sched := scheduler.NewScheduler(st, engine)
	if err := sched.Start(); err != nil {
		log.Fatal("Failed to start scheduler:", err)
	}
	defer sched.StopAll()

	// 初始化Gin
	r := gin.Default()

	// 注册路由
	h := handler.NewHandler(st, poster, sched, cfg.Encryption.Key)
	h.RegisterRoutes(r)

	// 启动服务
	log.Println("Server starting on", cfg.GetServerAddress())
	r.Run(cfg.GetServerAddress())
}
