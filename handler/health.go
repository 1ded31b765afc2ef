package handler

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// HealthCheckResponse represents the health check response
type HealthCheckResponse struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Uptime    string                   `json:"uptime"`
	Services  map[string]ServiceStatus `json:"services"`
	System    SystemInfo               `json:"system"`
}

// ServiceStatus represents the status of a service
type ServiceStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	Architecture string `json:"architecture"`
	OS           string `json:"os"`
	NumCPU       int    `json:"num_cpu"`
	MemoryUsage  string `json:"memory_usage"`
}

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDegraded  = "degraded"
	statusDisabled  = "disabled"
)

var startTime = time.Now()

type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewHealthHandler checks db and, when non-nil, redis.
func NewHealthHandler(db *gorm.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

// HealthCheck reports 503 only when the database is down. Redis only backs sign-out
// revocation, so losing it degrades the service.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	response := HealthCheckResponse{
		Status:    statusHealthy,
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Uptime:    time.Since(startTime).String(),
		Services:  make(map[string]ServiceStatus),
		System:    getSystemInfo(),
	}

	dbStatus := h.checkDatabase(ctx)
	response.Services["database"] = dbStatus
	if dbStatus.Status != statusHealthy {
		response.Status = statusUnhealthy
	}

	redisStatus := h.checkRedis(ctx)
	response.Services["redis"] = redisStatus
	if redisStatus.Status == statusUnhealthy && response.Status == statusHealthy {
		response.Status = statusDegraded
	}

	statusCode := http.StatusOK
	if response.Status == statusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) ServiceStatus {
	start := time.Now()

	var result int
	err := h.db.WithContext(ctx).Raw("SELECT 1").Scan(&result).Error
	if err != nil {
		return ServiceStatus{
			Status:  statusUnhealthy,
			Message: err.Error(),
		}
	}

	return ServiceStatus{
		Status:  statusHealthy,
		Latency: time.Since(start).String(),
	}
}

func (h *HealthHandler) checkRedis(ctx context.Context) ServiceStatus {
	if h.redis == nil {
		return ServiceStatus{Status: statusDisabled}
	}

	start := time.Now()
	if err := h.redis.Ping(ctx).Err(); err != nil {
		return ServiceStatus{
			Status:  statusUnhealthy,
			Message: err.Error(),
		}
	}

	return ServiceStatus{
		Status:  statusHealthy,
		Latency: time.Since(start).String(),
	}
}

func getSystemInfo() SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return SystemInfo{
		GoVersion:    runtime.Version(),
		Architecture: runtime.GOARCH,
		OS:           runtime.GOOS,
		NumCPU:       runtime.NumCPU(),
		MemoryUsage:  formatBytes(m.Alloc),
	}
}

// formatBytes formats bytes to human readable format
func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
