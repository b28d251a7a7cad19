package utils

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func GenerateTraceId() string {
	return uuid.New().String()
}

// LogEntry logs the message on the given entry at the given level.
func LogEntry(entry *log.Entry, level, message string) {
	switch level {
	case "debug":
		entry.Debug(message)
	case "info":
		entry.Info(message)
	case "warn":
		entry.Warn(message)
	case "error":
		entry.Error(message)
	case "fatal":
		entry.Fatal(message)
	case "panic":
		entry.Panic(message)
	default:
		entry.Info(message)
	}
}

// LogMessage logs a message with the service name attached.
func LogMessage(level, message string) {
	entry := log.WithFields(log.Fields{
		"service": serviceName(),
	})

	LogEntry(entry, level, message)
}

// LogMessageWithFields logs a message with the service name and the trace ID
// of the current request attached.
func LogMessageWithFields(c *gin.Context, level, message string) {
	traceId, _ := c.Value(TraceIdKey.String()).(string)

	entry := log.WithFields(log.Fields{
		"traceId": traceId,
		"service": serviceName(),
	})

	LogEntry(entry, level, message)
}

func serviceName() string {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "lovelog"
	}
	return service
}
