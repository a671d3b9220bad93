package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Office_Hub/internal/config"
	"Office_Hub/internal/pkg"
	"Office_Hub/internal/repository/rdb"
	"Office_Hub/internal/repository/redis"
	"Office_Hub/internal/router"
	"Office_Hub/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := rdb.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	// 自动建表
	if err = rdb.AutoMigrate(db); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	// 连接redis
	rdbClient, err := redis.Init(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("connect redis: %v", err)
	}
	defer rdbClient.Close()

	users := &rdb.UserRepository{DB: db}
	divisions := &rdb.DivisionRepository{DB: db}
	employees := &rdb.EmployeeRepository{DB: db}
	posts := &rdb.PostRepository{DB: db}
	comments := &rdb.CommentRepository{DB: db}
	activities := &rdb.ActivityRepository{DB: db}
	scores := &rdb.ScoreRepository{DB: db}

	sessions := redis.NewSessionRepository(rdbClient)
	cache := redis.NewCacheRepository(rdbClient)
	lock := redis.NewDistLock(rdbClient)

	storage := pkg.NewDiskStorage(cfg.StorageRoot, cfg.PublicURL)
	if err = os.MkdirAll(cfg.StorageRoot, 0o755); err != nil {
		log.Fatalf("create storage root: %v", err)
	}
	tokens := pkg.NewTokenManager(cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.JWTTTL, cfg.JWTRefreshTTL)

	// 配置邮件环境
	mailer := service.NewMailNotifier(pkg.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})

	userSvc := service.NewUserService(users, posts, sessions, tokens, storage)
	dashboardSvc := service.NewDashboardService(employees, divisions, activities, cache)
	divisionSvc := service.NewDivisionService(divisions, employees, dashboardSvc.Invalidate)
	employeeSvc := service.NewEmployeeService(employees, divisions, storage,
		service.ActivityHook(activities),
		dashboardSvc.EmployeeHook(),
	)
	postSvc := service.NewPostService(posts, storage)
	commentSvc := service.NewCommentService(comments, posts, mailer)
	reportSvc := service.NewReportService(scores, cache, lock)

	if err = userSvc.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword, cfg.AdminEmail); err != nil {
		log.Fatalf("bootstrap admin: %v", err)
	}

	// 活动日志投递：配置了 kafka 时发到 topic，否则只打印
	sender := service.Sender(service.LogSender)
	if len(cfg.KafkaBrokers) > 0 {
		producer := pkg.NewKafkaProducer(pkg.KafkaConfig{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic})
		defer producer.Close()
		log.Printf("activity events -> kafka topic %s", cfg.KafkaTopic)
		sender = service.KafkaSender(producer)
	}
	go service.NewActivityRelayer(activities, sender).Run(ctx)

	gin.SetMode(gin.ReleaseMode)
	r := router.InitRouter(router.Deps{
		Users:      userSvc,
		Divisions:  divisionSvc,
		Employees:  employeeSvc,
		Posts:      postSvc,
		Comments:   commentSvc,
		Dashboard:  dashboardSvc,
		Reports:    reportSvc,
		Storage:    storage,
		RequestLog: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
}
