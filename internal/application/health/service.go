package health

import (
	"context"
	"encoding/json"
	"runtime"
	"strconv"
	"time"

	"estate-backend/internal/middleware"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// DBPinger is satisfied by *sql.DB. A nil pinger reports the database as disconnected.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// CollectResult is the body of /health/json.
type CollectResult struct {
	Status       string               `json:"status"`
	Runtime      RuntimeInfo          `json:"runtime"`
	Traffic      TrafficInfo          `json:"traffic"`
	Dependencies map[string]DepStatus `json:"dependencies"`
}

type RuntimeInfo struct {
	UptimeSeconds int64      `json:"uptimeSeconds"`
	Memory        MemoryInfo `json:"memory"`
	Goroutines    int        `json:"goroutines"`
	Platform      string     `json:"platform"`
	GoVersion     string     `json:"goVersion"`
}

type MemoryInfo struct {
	AllocMB  int `json:"allocMb"`
	HeapUsed int `json:"heapUsedMb"`
}

type TrafficInfo struct {
	TotalRequests   int         `json:"totalRequests"`
	SuccessCount    int         `json:"successCount"`
	FailedCount     int         `json:"failedCount"`
	SuccessRate     string      `json:"successRate"`
	AvgResponseTime interface{} `json:"avgResponseTime"`
	LastRequest     interface{} `json:"lastRequest"`
}

type DepStatus struct {
	Status string `json:"status"`
	PingMs *int64 `json:"pingMs"`
}

const (
	StatusOK    = "ok"
	StatusIssue = "issue"

	depConnected    = "connected"
	depDisconnected = "disconnected"
	depError        = "error"

	pingTimeout = 2 * time.Second
)

// CollectHealth pings the database and Redis concurrently and reads the traffic
// counters written by middleware.HealthMarker.
func CollectHealth(ctx context.Context, rdb *redis.Client, db DBPinger) CollectResult {
	var dbDep, redisDep DepStatus
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		dbDep = pingDB(gctx, db)
		return nil
	})
	g.Go(func() error {
		redisDep = pingRedis(gctx, rdb)
		return nil
	})
	_ = g.Wait()

	result := CollectResult{
		Dependencies: map[string]DepStatus{
			"database": dbDep,
			"redis":    redisDep,
		},
	}

	startTimeMs := time.Now().UnixMilli()
	stats := TrafficInfo{AvgResponseTime: 0, SuccessRate: "100"}
	if redisDep.Status == depConnected {
		stats, startTimeMs = readTraffic(ctx, rdb, startTimeMs)
	}
	result.Traffic = stats

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	uptimeSec := (time.Now().UnixMilli() - startTimeMs) / 1000
	if uptimeSec < 0 {
		uptimeSec = 0
	}
	result.Runtime = RuntimeInfo{
		UptimeSeconds: uptimeSec,
		Memory:        MemoryInfo{AllocMB: int(m.Alloc / 1024 / 1024), HeapUsed: int(m.HeapInuse / 1024 / 1024)},
		Goroutines:    runtime.NumGoroutine(),
		Platform:      runtime.GOOS + " (" + runtime.GOARCH + ")",
		GoVersion:     runtime.Version(),
	}

	if dbDep.Status == depConnected && redisDep.Status == depConnected {
		result.Status = StatusOK
	} else {
		result.Status = StatusIssue
	}
	return result
}

func pingDB(ctx context.Context, db DBPinger) DepStatus {
	if db == nil {
		return DepStatus{Status: depDisconnected}
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	start := time.Now()
	if err := db.PingContext(ctx); err != nil {
		return DepStatus{Status: depError}
	}
	ms := time.Since(start).Milliseconds()
	return DepStatus{Status: depConnected, PingMs: &ms}
}

func pingRedis(ctx context.Context, rdb *redis.Client) DepStatus {
	if rdb == nil {
		return DepStatus{Status: depDisconnected}
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	start := time.Now()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return DepStatus{Status: depError}
	}
	ms := time.Since(start).Milliseconds()
	return DepStatus{Status: depConnected, PingMs: &ms}
}

func readTraffic(ctx context.Context, rdb *redis.Client, startTimeMs int64) (TrafficInfo, int64) {
	stats := TrafficInfo{AvgResponseTime: 0, SuccessRate: "100"}
	vals, err := rdb.MGet(ctx,
		middleware.KeyReqTotal,
		middleware.KeyReqErrors,
		middleware.KeyResTime,
		middleware.KeyResCount,
		middleware.KeyStartTime,
		middleware.KeyLastReq,
	).Result()
	if err != nil {
		return stats, startTimeMs
	}
	str := func(i int) string {
		s, _ := vals[i].(string)
		return s
	}

	if s := str(4); s != "" {
		if t, err := strconv.ParseInt(s, 10, 64); err == nil {
			startTimeMs = t
		}
	} else {
		rdb.Set(ctx, middleware.KeyStartTime, startTimeMs, 0)
	}

	stats.TotalRequests, _ = strconv.Atoi(str(0))
	stats.FailedCount, _ = strconv.Atoi(str(1))
	stats.SuccessCount = stats.TotalRequests - stats.FailedCount
	if stats.TotalRequests > 0 {
		stats.SuccessRate = strconv.FormatFloat(float64(stats.SuccessCount)/float64(stats.TotalRequests)*100, 'f', 1, 64)
	}
	timeSum, _ := strconv.ParseFloat(str(2), 64)
	countSum, _ := strconv.Atoi(str(3))
	if countSum > 0 {
		stats.AvgResponseTime = strconv.FormatFloat(timeSum/float64(countSum), 'f', 2, 64)
	}
	if s := str(5); s != "" {
		var lastReq map[string]interface{}
		_ = json.Unmarshal([]byte(s), &lastReq)
		stats.LastRequest = lastReq
	}
	return stats, startTimeMs
}

// ResetTraffic clears all counters and restarts the uptime clock.
func ResetTraffic(ctx context.Context, rdb *redis.Client) error {
	keys := []string{
		middleware.KeyReqTotal,
		middleware.KeyReqErrors,
		middleware.KeyResTime,
		middleware.KeyResCount,
		middleware.KeyStartTime,
		middleware.KeyLastReq,
		middleware.KeyErrorLog,
	}
	if err := rdb.Del(ctx, keys...).Err(); err != nil {
		return err
	}
	return rdb.Set(ctx, middleware.KeyStartTime, strconv.FormatInt(time.Now().UnixMilli(), 10), 0).Err()
}

// RecentErrors returns up to limit entries from the error log, newest first.
func RecentErrors(ctx context.Context, rdb *redis.Client, limit int64) ([]map[string]interface{}, error) {
	entries, err := rdb.LRange(ctx, middleware.KeyErrorLog, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, 0, len(entries))
	for _, s := range entries {
		var m map[string]interface{}
		if _ = json.Unmarshal([]byte(s), &m); m != nil {
			out = append(out, m)
		}
	}
	return out, nil
}
