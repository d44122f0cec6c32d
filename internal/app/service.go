package app

import (
	"context"
	"errors"
	"os/signal"
	"time"

	"go.uber.org/zap"
)

const defaultStopTimeout = 10 * time.Second

// Service 可运行服务。api 服务与队列 worker 都实现该接口，
// 由 Runner 统一编排启动与优雅退出。
type Service interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Runner 服务运行器
type Runner struct {
	services []Service
}

// NewRunner 创建服务运行器
func NewRunner(services ...Service) *Runner {
	return &Runner{services: services}
}

// RunWithOptions 运行服务并处理系统信号
func RunWithOptions(runner *Runner, opts Options) error {
	if runner == nil {
		return errors.New("runner is nil")
	}
	opts = normalizeOptions(opts)

	ctx := context.Background()
	if len(opts.Signals) > 0 {
		var cancel context.CancelFunc
		ctx, cancel = signal.NotifyContext(ctx, opts.Signals...)
		defer cancel()
	}
	return runner.Run(ctx, opts.ShutdownTimeout, opts.Logger)
}

// Run 并行启动全部服务，任一服务退出或收到信号后整体停机。
// 停机阶段所有服务共享同一个限时上下文，超时后不再等待。
func (r *Runner) Run(ctx context.Context, stopTimeout time.Duration, log *zap.SugaredLogger) error {
	if r == nil || len(r.services) == 0 {
		return errors.New("no services to run")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, len(r.services))
	for _, svc := range r.services {
		go startOne(ctx, svc, log, errCh)
	}

	var runErr error
	select {
	case <-ctx.Done():
		runErr = ctx.Err()
	case err := <-errCh:
		runErr = err
	}
	cancel()

	if stopTimeout <= 0 {
		stopTimeout = defaultStopTimeout
	}
	stopCtx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)
	defer stopCancel()
	r.stopAll(stopCtx, log)

	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

func startOne(ctx context.Context, svc Service, log *zap.SugaredLogger, errCh chan<- error) {
	if svc == nil {
		errCh <- errors.New("service is nil")
		return
	}
	if log != nil {
		log.Infow("service_start", "service", svc.Name())
	}
	errCh <- svc.Start(ctx)
	if log != nil {
		log.Infow("service_exit", "service", svc.Name())
	}
}

func (r *Runner) stopAll(ctx context.Context, log *zap.SugaredLogger) {
	for _, svc := range r.services {
		if svc == nil {
			continue
		}
		if err := svc.Stop(ctx); err != nil && log != nil {
			log.Errorw("service_stop_failed", "service", svc.Name(), "error", err)
		}
	}
}
