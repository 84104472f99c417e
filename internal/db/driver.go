package db

import (
	"fmt"
	"strings"
)

// Drivers soportados. Se eligen a partir del esquema de DATABASE_URL.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DriverFor decide qué store usar según la cadena de conexión.
func DriverFor(databaseURL string) (string, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return DriverPostgres, nil
	case strings.HasPrefix(databaseURL, "sqlite://"),
		strings.HasPrefix(databaseURL, "file:"),
		databaseURL == ":memory:":
		return DriverSQLite, nil
	default:
		return "", fmt.Errorf("unsupported DATABASE_URL scheme: %q", redact(databaseURL))
	}
}

// SQLiteDSN convierte "sqlite://path" en lo que espera modernc.org/sqlite.
// "file:" y ":memory:" se pasan tal cual.
func SQLiteDSN(databaseURL string) string {
	return strings.TrimPrefix(databaseURL, "sqlite://")
}

// redact evita loguear credenciales si la URL vino mal formada.
func redact(databaseURL string) string {
	if at := strings.LastIndex(databaseURL, "@"); at >= 0 {
		return "***" + databaseURL[at:]
	}
	return databaseURL
}
