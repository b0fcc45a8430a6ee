package admin

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/config"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	"github.com/PancyStudios/AnimeBotGo/pkg/telegram"
	tele "gopkg.in/telebot.v3"
)

// createCheckDBCommand creates /check_db
func createCheckDBCommand(s *app.Services) *telegram.Command {
	return telegram.NewCommand("check_db", "Bazani tekshirish", "admin", func(c tele.Context) error {
		latency, err := s.Database.Ping()
		if err != nil {
			logger.Error(fmt.Sprintf("Ping a la base de datos falló: %v", err), "Admin")
			return c.Send(fmt.Sprintf("❌ <b>Baza bilan aloqa yo'q</b>\n\nDriver: <code>%s</code>", s.Database.Driver()))
		}
		status, _ := s.Database.GetStatus()
		return c.Send(fmt.Sprintf("✅ <b>Baza ishlayapti</b>\n\n▸ Driver: <code>%s</code>\n▸ Holat: %s\n▸ Ping: %dms",
			s.Database.Driver(), status, latency.Milliseconds()))
	})
}

// createSysInfoCommand creates /sys_info
func createSysInfoCommand(s *app.Services) *telegram.Command {
	return telegram.NewCommand("sys_info", "Tizim ma'lumotlari", "admin", func(c tele.Context) error {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		return c.Send(SysInfoText(config.Version, s.Client.Uptime(), m.Alloc, runtime.NumGoroutine()))
	})
}

// SysInfoText renders version, uptime and memory use
func SysInfoText(version string, uptime time.Duration, alloc uint64, goroutines int) string {
	return fmt.Sprintf("<b>🖥 Tizim ma'lumotlari</b>\n%s\n\n▸ Versiya: <code>%s</code>\n▸ Go: %s\n▸ Ishlash vaqti: %s\n▸ RAM: %.2f MB\n▸ Goroutines: %d / %d CPU",
		app.Separator, version, strings.TrimPrefix(runtime.Version(), "go"), formatUptime(uptime),
		float64(alloc)/1024/1024, goroutines, runtime.NumCPU())
}

func formatUptime(d time.Duration) string {
	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d kun", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d soat", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d daqiqa", minutes))
	}
	if seconds > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%d soniya", seconds))
	}
	return strings.Join(parts, ", ")
}
