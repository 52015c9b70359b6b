package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// maxPayloadLen bounds request payloads written to the log.
const maxPayloadLen = 2000

var (
	mu      sync.Mutex
	logFile *os.File
)

// Init sends the standard logger to stdout and, when logPath is set, to an
// append-only log file as well.
func Init(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	writers := []io.Writer{os.Stdout}
	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create log dir failed: %w", err)
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file failed: %w", err)
		}
		logFile = file
		writers = append(writers, logFile)
	}

	log.SetOutput(io.MultiWriter(writers...))
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return nil
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	log.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

func LogEvent(format string, args ...any) {
	log.Println(fmt.Sprintf(format, args...))
}

// LogRequest records one outbound model call, e.g.
// [REQUEST] provider=openai model=solar-pro payload=[...].
func LogRequest(direction, provider, model string, payload any) {
	log.Println(buildRequestMessage(direction, provider, model, payload))
}

func buildRequestMessage(direction, provider, model string, payload any) string {
	dir := strings.ToUpper(strings.TrimSpace(direction))
	providerValue := strings.TrimSpace(provider)
	if providerValue == "" {
		providerValue = "unknown"
	}
	modelValue := strings.TrimSpace(model)
	if modelValue == "" {
		modelValue = "unknown"
	}
	return fmt.Sprintf("[%s] provider=%s model=%s payload=%s", dir, providerValue, modelValue, formatPayload(payload))
}

func formatPayload(payload any) string {
	var out string
	switch v := payload.(type) {
	case nil:
		return "null"
	case string:
		if strings.TrimSpace(v) == "" {
			return `""`
		}
		out = v
	case []byte:
		if len(v) == 0 {
			return "[]"
		}
		out = string(v)
	case fmt.Stringer:
		out = v.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			out = fmt.Sprintf("%v", v)
		} else {
			out = string(data)
		}
	}
	return truncate(out, maxPayloadLen)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "...(truncated)"
}
