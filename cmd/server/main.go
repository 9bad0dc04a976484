package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shariqazeem/umanity-social-sub000/internal/config"
	"github.com/shariqazeem/umanity-social-sub000/internal/database"
	"github.com/shariqazeem/umanity-social-sub000/internal/event"
	"github.com/shariqazeem/umanity-social-sub000/internal/handler"
	"github.com/shariqazeem/umanity-social-sub000/internal/logger"
	"github.com/shariqazeem/umanity-social-sub000/internal/logic"
	"github.com/shariqazeem/umanity-social-sub000/internal/notify"
	"github.com/shariqazeem/umanity-social-sub000/internal/router"
	"github.com/shariqazeem/umanity-social-sub000/internal/task"
)

func main() {
	// 加载配置
	cfg := config.Load()

	if err := logger.Init(cfg.Log); err != nil {
		logger.Fatal("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	// 治理事件通知
	var notifier notify.Notifier = notify.NopNotifier{}
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Warn("Redis unavailable at %s, notifications will fail until it recovers: %v", cfg.Redis.Addr, err)
		}
		notifier = notify.NewRedisNotifier(rdb, cfg.Redis.Stream)
		logger.Info("Publishing governance events to redis stream %s", cfg.Redis.Stream)
	}

	clock := logic.SystemClock{}
	campaignLogic := logic.NewCampaignLogic(db, clock)
	userLogic := logic.NewUserLogic(db)
	proposalLogic := logic.NewProposalLogic(db, notifier, clock, cfg.Governance)
	voteLogic := logic.NewVoteLogic(db, clock)
	tallyLogic := logic.NewTallyLogic(db)
	executionLogic := logic.NewExecutionLogic(db, notifier, clock)
	thresholdLogic := logic.NewThresholdLogic(db, proposalLogic)

	processor, err := event.NewDonationProcessor(db, thresholdLogic, cfg.Governance.PointsPerSol, cfg.Worker.PoolSize)
	if err != nil {
		logger.Fatal("Failed to initialize donation processor: %v", err)
	}
	defer processor.Release()

	// 启动定时任务
	tasks, err := task.NewManager(
		task.NewProposalExecuteJob(proposalLogic, executionLogic, time.Duration(cfg.Task.Interval)*time.Second),
	)
	if err != nil {
		logger.Fatal("Failed to create task manager: %v", err)
	}
	if err := tasks.Start(); err != nil {
		logger.Fatal("Failed to start task manager: %v", err)
	}
	defer tasks.Stop()

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(cfg.Server, router.Handlers{
		Campaign:   handler.NewCampaignHandler(campaignLogic),
		User:       handler.NewUserHandler(userLogic),
		Donation:   handler.NewDonationHandler(processor),
		Governance: handler.NewGovernanceHandler(proposalLogic, voteLogic, tallyLogic, executionLogic),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown: %v", err)
	}
}
