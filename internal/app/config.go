package app

import (
	"strings"

	"github.com/mathforge/curriculum-backend/internal/pkg/logger"
	"github.com/mathforge/curriculum-backend/internal/utils"
)

type Config struct {
	Port        string
	CORSOrigins []string
	LogMode     string
	SystemActor string
}

func LoadConfig(log *logger.Logger) Config {
	port := utils.GetEnv("PORT", "8080", log)
	logMode := utils.GetEnv("LOG_MODE", "development", log)
	systemActor := utils.GetEnv("SYSTEM_ACTOR", "system", log)

	var origins []string
	if raw := utils.GetEnv("CORS_ORIGINS", "", log); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return Config{
		Port:        port,
		CORSOrigins: origins,
		LogMode:     logMode,
		SystemActor: systemActor,
	}
}
