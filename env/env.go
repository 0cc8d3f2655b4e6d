package env

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

var (
	truthy = []string{"1", "yes", "true", "on"}
	falsy  = []string{"0", "no", "false", "off"}
)

// Val returns the trimmed value of key, or defaultVal if it's unset or blank.
func Val(key string, defaultVal string) string {
	val, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal
	}
	val = strings.TrimSpace(val)
	if len(val) == 0 {
		return defaultVal
	}
	return val
}

func parsed[T any](key string, defaultVal T, parse func(string) (T, error)) T {
	sval := Val(key, "")
	if len(sval) == 0 {
		return defaultVal
	}
	val, err := parse(sval)
	if err != nil {
		return defaultVal
	}
	return val
}

// Bool accepts 1/0, yes/no, true/false and on/off in any case.
func Bool(key string, defaultVal bool) bool {
	sval := strings.ToLower(Val(key, ""))
	for _, t := range truthy {
		if sval == t {
			return true
		}
	}
	for _, f := range falsy {
		if sval == f {
			return false
		}
	}
	return defaultVal
}

func Int(key string, defaultVal int) int {
	return parsed(key, defaultVal, strconv.Atoi)
}

// Level accepts slog level names such as "debug" or "warn+2".
func Level(key string, defaultVal slog.Level) slog.Level {
	return parsed(key, defaultVal, func(s string) (slog.Level, error) {
		var level slog.Level
		err := level.UnmarshalText([]byte(s))
		return level, err
	})
}
