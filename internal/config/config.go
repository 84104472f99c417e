package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config agrupa la configuración necesaria para correr la aplicación.
type Config struct {
	Port           string
	DatabaseURL    string
	LogLevel       string
	LogEncoding    string
	Location       *time.Location
	MigrateOnStart bool
}

// Load lee .env (si existe) y variables de entorno, y valida lo mínimo indispensable.
// Se lee una sola vez al arrancar el proceso.
func Load() (Config, error) {
	// .env es opcional; nunca pisa variables ya definidas en el entorno.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "3333")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_ENCODING", "json")
	v.SetDefault("TZ_NAME", "")
	v.SetDefault("MIGRATE_ON_START", true)

	// Normalizamos por si alguien manda ":3333"
	port := strings.TrimPrefix(strings.TrimSpace(v.GetString("PORT")), ":")
	if port == "" {
		port = "3333"
	}

	databaseURL := strings.TrimSpace(v.GetString("DATABASE_URL"))
	if databaseURL == "" {
		return Config{}, fmt.Errorf("missing required env var: DATABASE_URL")
	}

	encoding := strings.ToLower(strings.TrimSpace(v.GetString("LOG_ENCODING")))
	if encoding != "json" && encoding != "console" {
		return Config{}, fmt.Errorf("invalid LOG_ENCODING %q: must be json or console", encoding)
	}

	location, err := loadLocation(v.GetString("TZ_NAME"))
	if err != nil {
		return Config{}, err
	}

	return Config{
		Port:           port,
		DatabaseURL:    databaseURL,
		LogLevel:       strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),
		LogEncoding:    encoding,
		Location:       location,
		MigrateOnStart: v.GetBool("MIGRATE_ON_START"),
	}, nil
}

// loadLocation resuelve la zona horaria usada para rangos de mes.
// Vacío significa la hora local del servidor.
func loadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.Local, nil
	}
	location, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid TZ_NAME %q: %w", name, err)
	}
	return location, nil
}
