// Package bootstrap 根据配置组装各进程共用的依赖：存储、Redis、仓储和业务服务。
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"hrportal/internal/config"
	"hrportal/internal/database"
	"hrportal/internal/jobdesc"
	"hrportal/internal/mailer"
	"hrportal/internal/payroll"
	"hrportal/internal/services"
	"hrportal/internal/storage"
	"hrportal/internal/store"
	"hrportal/internal/upload"
)

const idLockTTL = 10 * time.Second

// Runtime 汇总一个进程持有的外部连接。
type Runtime struct {
	DB      *gorm.DB
	Objects *storage.Client
	Redis   *redis.Client
	Repos   *store.Repositories
	Service *services.Service
}

// New 连接 MinIO、Redis（以及 postgres 后端时的数据库）并创建 Service。
// tasks 为空时工资条只保存不渲染。
func New(cfg *config.Config, logger *slog.Logger, tasks services.TaskEnqueuer) (*Runtime, error) {
	rt := &Runtime{}

	objects, err := storage.NewClient(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("init storage client: %w", err)
	}
	rt.Objects = objects
	logger.Info("storage client ready", slog.String("bucket", objects.Bucket()))

	if cfg.Storage.Backend == config.BackendPostgres {
		db, err := database.InitDatabase(cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		rt.DB = db
		logger.Info("database connection ready",
			slog.String("host", cfg.Database.Host),
			slog.Int("port", cfg.Database.Port),
			slog.String("db", cfg.Database.Name),
		)
	}

	repos, err := store.Open(cfg.Storage.Backend, rt.DB, objects)
	if err != nil {
		return nil, err
	}
	rt.Repos = repos

	rt.Redis = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rt.Redis.Ping(ctx).Err(); err != nil {
		rt.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	var locker store.Locker = store.NopLocker{}
	if cfg.Redis.IDLock {
		locker = store.NewRedisLocker(rt.Redis, idLockTTL)
	}

	location, ok := jobdesc.ParseLocationStrategy(cfg.JobDesc.LocationStrategy)
	if !ok {
		rt.Close()
		return nil, fmt.Errorf("unknown location strategy %q", cfg.JobDesc.LocationStrategy)
	}

	// 未配置 SMTP 时保持接口为 nil，发信操作返回 ErrMailerUnavailable。
	var sender mailer.Sender
	if strings.TrimSpace(cfg.SMTP.Host) != "" {
		sender = mailer.New(cfg.SMTP)
	}

	opts := services.Options{
		Repos:         repos,
		Sequencer:     store.NewSequencer(locker),
		Objects:       objects,
		Mailer:        sender,
		Scanner:       upload.NewScanner(cfg.Clamd.Addr),
		Rates:         payroll.NewRates(cfg.Payroll.TaxPercent, cfg.Payroll.PFPercent),
		Location:      location,
		PublicBaseURL: cfg.API.PublicBaseURL,
		Company:       cfg.API.CompanyName,
		Logger:        logger,
	}
	if tasks != nil {
		opts.Tasks = tasks
	}
	rt.Service = services.New(opts)

	return rt, nil
}

// Close 释放 Redis 与数据库连接。
func (r *Runtime) Close() {
	if r.Redis != nil {
		if err := r.Redis.Close(); err != nil {
			slog.Default().Error("close redis client failed", slog.Any("error", err))
		}
	}
	if r.DB != nil {
		if sqlDB, err := r.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
