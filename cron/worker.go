package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"adwuma/config"
	"adwuma/models"
	"adwuma/services/booking"
	"adwuma/services/notification"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	TypeEscrowSweep    = "escrow:sweep"
	TypeNotifyDispatch = "notify:dispatch"
)

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSweepQueueDB,
	}
}

// AsynqDispatcher implements the booking service's NotificationDispatcher by
// queueing notifications for the background worker. Enqueue failures are
// logged and dropped: notification delivery never fails a booking transition.
type AsynqDispatcher struct {
	client *asynq.Client
	logger *zap.Logger
}

func NewAsynqDispatcher(logger *zap.Logger) *AsynqDispatcher {
	return &AsynqDispatcher{
		client: asynq.NewClient(redisOpts()),
		logger: logger,
	}
}

func (d *AsynqDispatcher) Dispatch(ctx context.Context, n models.Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		d.logger.Error("notification payload marshal failed",
			zap.String("notificationId", n.ID), zap.Error(err))
		return
	}
	task := asynq.NewTask(TypeNotifyDispatch, payload,
		asynq.MaxRetry(5),
		asynq.TaskID(n.ID)) // one enqueue per transition event, re-entry is a no-op
	if _, err := d.client.EnqueueContext(ctx, task); err != nil {
		d.logger.Error("notification enqueue failed",
			zap.String("notificationId", n.ID), zap.Error(err))
	}
}

// InitSweepWorker runs the async worker and the periodic sweep scheduler in
// the background.
func InitSweepWorker(bookingSvc booking.BookingService, sender notification.Sender, logger *zap.Logger) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeEscrowSweep, handleSweepTask(bookingSvc, logger))
	mux.HandleFunc(TypeNotifyDispatch, handleNotifyTask(sender, logger))

	go monitorRedisConnection()

	go func() {
		log.Println("[SweepWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[SweepWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[SweepWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	go runSweepScheduler(logger)
}

// runSweepScheduler enqueues the periodic sweep task. The sweep itself is
// idempotent, so an overlapping or repeated tick is harmless.
func runSweepScheduler(logger *zap.Logger) {
	scheduler := asynq.NewScheduler(redisOpts(), &asynq.SchedulerOpts{})

	interval := config.AppConfig.SweepIntervalMin
	if interval <= 0 {
		interval = 60
	}
	spec := fmt.Sprintf("@every %dm", interval)
	if _, err := scheduler.Register(spec, asynq.NewTask(TypeEscrowSweep, nil)); err != nil {
		logger.Error("failed to register sweep schedule", zap.Error(err))
		return
	}
	if err := scheduler.Run(); err != nil {
		logger.Error("sweep scheduler stopped", zap.Error(err))
	}
}

func handleSweepTask(bookingSvc booking.BookingService, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		summary, err := bookingSvc.RunAutoConfirmSweep(ctx, time.Now())
		if err != nil {
			logger.Error("auto-confirm sweep run failed", zap.Error(err))
			return err
		}
		logger.Info("scheduled sweep completed",
			zap.Int("checked", summary.CheckedCount),
			zap.Int("confirmed", summary.ConfirmedCount))
		return nil
	}
}

func handleNotifyTask(sender notification.Sender, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var n models.Notification
		if err := json.Unmarshal(task.Payload(), &n); err != nil {
			logger.Error("invalid notification payload", zap.Error(err))
			return nil // unparseable, retrying will not help
		}
		if err := sender.Send(ctx, n); err != nil {
			logger.Warn("notification delivery failed",
				zap.String("notificationId", n.ID), zap.Error(err))
			return err // asynq retries with backoff
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSweepQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[SweepWorker] redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
