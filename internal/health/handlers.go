package health

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"voltmarket-backend/internal/middleware"
	"voltmarket-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Handlers holds dependencies for the health endpoints.
type Handlers struct {
	Rdb            *redis.Client
	DB             DBPinger
	HealthAdminKey string
	FrontendURL    string
}

// Reset clears health stats in Redis. Requires query key=HEALTH_ADMIN_KEY.
func (h *Handlers) Reset(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" || key != h.HealthAdminKey {
		return response.Error(c, "Unauthorized", fiber.StatusForbidden, nil)
	}
	ctx := context.Background()
	keys := []string{middleware.KeyReqTotal, middleware.KeyReqErrors, middleware.KeyResTime, middleware.KeyResCount, middleware.KeyStartTime, middleware.KeyLastReq, middleware.KeyErrorLog}
	if err := h.Rdb.Del(ctx, keys...).Err(); err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	if err := h.Rdb.Set(ctx, middleware.KeyStartTime, strconv.FormatInt(time.Now().UnixMilli(), 10), 0).Err(); err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Stats reset successfully", fiber.Map{"success": true}, nil)
}

// JSON returns the collected health data.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	ctx := context.Background()
	result := CollectHealth(ctx, h.Rdb, h.DB, h.FrontendURL)
	out := map[string]interface{}{
		"service":      "voltmarket-api",
		"status":       result.Status,
		"runtime":      result.Runtime,
		"traffic":      result.Traffic,
		"dependencies": result.Dependencies,
	}
	return c.JSON(out)
}

// Errors returns the last 50 error log entries from Redis.
func (h *Handlers) Errors(c *fiber.Ctx) error {
	ctx := context.Background()
	entries, err := h.Rdb.LRange(ctx, middleware.KeyErrorLog, 0, 49).Result()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON([]interface{}{})
	}
	errors := make([]map[string]interface{}, 0, len(entries))
	for _, s := range entries {
		var m map[string]interface{}
		if _ = json.Unmarshal([]byte(s), &m); m != nil {
			errors = append(errors, m)
		}
	}
	return c.JSON(errors)
}

// Dashboard renders a minimal HTML status page for GET /.
func (h *Handlers) Dashboard(c *fiber.Ctx) error {
	ctx := context.Background()
	result := CollectHealth(ctx, h.Rdb, h.DB, h.FrontendURL)
	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.SendString(renderDashboard(result))
}

func renderDashboard(result CollectResult) string {
	headline := "All systems operational"
	if result.Status != "ok" {
		headline = "Degraded service"
	}
	rows := ""
	for _, name := range []string{"database", "redis", "frontend", "stripe"} {
		dep := result.Dependencies[name]
		ping := "-"
		if p, ok := dep.PingMs.(*int64); ok && p != nil {
			ping = fmt.Sprintf("%d ms", *p)
		}
		rows += fmt.Sprintf(`<tr><td>%s</td><td class="%s">%s</td><td>%s</td></tr>`, name, dep.Status, dep.Status, ping)
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>VoltMarket · API Status</title>
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <style>
    body { font-family: system-ui, sans-serif; background: #0b1120; color: #e2e8f0; margin: 0; display: flex; justify-content: center; padding: 60px 20px; }
    .card { background: #111a2e; border-radius: 16px; padding: 36px 44px; max-width: 640px; width: 100%%; box-shadow: 0 20px 60px rgba(0,0,0,0.4); }
    h1 { font-size: 26px; margin: 0 0 4px; }
    .sub { color: #94a3b8; font-size: 14px; margin-bottom: 28px; }
    table { width: 100%%; border-collapse: collapse; font-size: 14px; }
    td { padding: 10px 4px; border-bottom: 1px solid #1e293b; }
    td.connected, td.reachable { color: #4ade80; }
    td.disconnected, td.error, td.unreachable { color: #f87171; }
    .meta { margin-top: 24px; color: #64748b; font-size: 12px; }
  </style>
</head>
<body>
  <div class="card">
    <h1>%s</h1>
    <div class="sub">voltmarket-api · uptime %ds · %d requests · %s%% success</div>
    <table>%s</table>
    <div class="meta">%s · %s</div>
  </div>
</body>
</html>`, headline, result.Runtime.UptimeSeconds, result.Traffic.TotalRequests, result.Traffic.SuccessRate, rows, result.Runtime.Platform, result.Runtime.GoVersion)
}
