package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/FashOJ/LogicJudger/internal/runner"
)

// KeyPrefix 实例信息在 redis 中的键前缀
const KeyPrefix = "judger:instances:"

// store 心跳只用到的 redis 命令，*redis.Client 满足
type store interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Load 评测队列负载
type Load interface {
	QueueLen() int
	Workers() int
}

// HealthChecker 求解器健康检查
type HealthChecker interface {
	Check(ctx context.Context) runner.Health
}

type Registry struct {
	client     store
	instanceID string
	addr       string
	interval   time.Duration
	load       Load
	health     HealthChecker
	logger     *zap.Logger

	stopChan chan struct{}
	done     chan struct{}
	once     sync.Once
}

type InstanceInfo struct {
	ID            string `json:"id"`
	Addr          string `json:"addr"`
	SolverUp      bool   `json:"solver_up"`
	SolverVersion string `json:"solver_version,omitempty"`
	Workers       int    `json:"workers"`
	QueueLength   int    `json:"queue_length"`
	LastUpdated   int64  `json:"last_updated"`
}

// NewRegistry interval 为心跳间隔，键的过期时间是它的三倍
func NewRegistry(client *redis.Client, addr string, interval time.Duration, load Load, health HealthChecker, logger *zap.Logger) *Registry {
	return newRegistry(client, addr, interval, load, health, logger)
}

func newRegistry(client store, addr string, interval time.Duration, load Load, health HealthChecker, logger *zap.Logger) *Registry {
	hostname, _ := os.Hostname()
	return &Registry{
		client:     client,
		instanceID: fmt.Sprintf("%s-%s", hostname, addr),
		addr:       addr,
		interval:   interval,
		load:       load,
		health:     health,
		logger:     logger,
		stopChan:   make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (r *Registry) key() string {
	return KeyPrefix + r.instanceID
}

// Start 立即注册一次，之后按间隔发送心跳
func (r *Registry) Start() {
	r.register()
	go r.heartbeat()
}

func (r *Registry) Stop() {
	r.once.Do(func() {
		close(r.stopChan)
		<-r.done
		// 删除注册信息
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := r.client.Del(ctx, r.key()).Err(); err != nil {
			r.logger.Warn("Failed to deregister instance", zap.Error(err))
		}
	})
}

func (r *Registry) heartbeat() {
	defer close(r.done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopChan:
			return
		case <-ticker.C:
			r.register()
		}
	}
}

func (r *Registry) snapshot(ctx context.Context) InstanceInfo {
	h := r.health.Check(ctx)
	return InstanceInfo{
		ID:            r.instanceID,
		Addr:          r.addr,
		SolverUp:      h.Up,
		SolverVersion: h.Version,
		Workers:       r.load.Workers(),
		QueueLength:   r.load.QueueLen(),
		LastUpdated:   time.Now().Unix(),
	}
}

func (r *Registry) register() {
	ctx, cancel := context.WithTimeout(context.Background(), r.interval)
	defer cancel()

	data, err := json.Marshal(r.snapshot(ctx))
	if err != nil {
		r.logger.Error("Failed to encode instance info", zap.Error(err))
		return
	}
	if err := r.client.Set(ctx, r.key(), data, 3*r.interval).Err(); err != nil {
		r.logger.Error("Failed to send heartbeat", zap.Error(err))
	}
}
