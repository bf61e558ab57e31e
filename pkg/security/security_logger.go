package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType names an audited action.
type EventType string

const (
	EventRoleAssigned         EventType = "role_assigned"
	EventOverrideConsent      EventType = "sanitization_override_consent"
	EventProfileSanitized     EventType = "profile_sanitized"
	EventSyncPolicyUpdated    EventType = "sync_policy_updated"
	EventUploadRejected       EventType = "upload_rejected"
	EventRateLimitTriggered   EventType = "rate_limit_triggered"
	EventUnauthorizedAccess   EventType = "unauthorized_access"
	EventForbiddenAccess      EventType = "forbidden_access"
	EventSyncMessageAbandoned EventType = "sync_message_abandoned"
)

// SecurityEvent is one line of the audit trail.
type SecurityEvent struct {
	Timestamp   time.Time      `json:"timestamp"`
	Service     string         `json:"service"`
	Region      string         `json:"region"`
	Event       EventType      `json:"event"`
	ActorID     string         `json:"actor_id,omitempty"` // hashed
	SubjectType string         `json:"subject_type,omitempty"`
	SubjectID   string         `json:"subject_id,omitempty"`
	IP          string         `json:"ip,omitempty"`
	RequestID   string         `json:"request_id,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
}

// SecurityLogger writes audit events as structured JSON through zap, apart
// from the slog application log.
type SecurityLogger struct {
	zapLogger   *zap.Logger
	serviceName string
	region      string
}

var (
	defaultLogger *SecurityLogger
	defaultMu     sync.Mutex
)

// InitSecurityLogger builds the process-wide audit logger.
func InitSecurityLogger(serviceName, region string) *SecurityLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "message"
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		logger, _ = zap.NewProduction()
	}

	sl := NewSecurityLogger(logger, serviceName, region)
	defaultMu.Lock()
	defaultLogger = sl
	defaultMu.Unlock()
	return sl
}

// NewSecurityLogger wraps an existing zap logger, mainly for tests.
func NewSecurityLogger(logger *zap.Logger, serviceName, region string) *SecurityLogger {
	return &SecurityLogger{zapLogger: logger, serviceName: serviceName, region: region}
}

// DefaultLogger returns the process-wide audit logger, creating one on first use.
func DefaultLogger() *SecurityLogger {
	defaultMu.Lock()
	sl := defaultLogger
	defaultMu.Unlock()
	if sl == nil {
		region := os.Getenv("API_REGION")
		if region == "" {
			region = "EU"
		}
		return InitSecurityLogger("recruiter-platform", region)
	}
	return sl
}

func levelFor(event EventType) zapcore.Level {
	switch event {
	case EventRoleAssigned, EventOverrideConsent, EventProfileSanitized, EventSyncPolicyUpdated:
		return zapcore.InfoLevel
	case EventUnauthorizedAccess, EventForbiddenAccess, EventSyncMessageAbandoned:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

// Log writes the event. Actor ids are hashed so the audit stream carries no
// raw identifiers.
func (sl *SecurityLogger) Log(ctx context.Context, event SecurityEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.Service = sl.serviceName
	event.Region = sl.region

	fields := []zap.Field{
		zap.String("service", event.Service),
		zap.String("region", event.Region),
		zap.String("event", string(event.Event)),
		zap.Time("event_time", event.Timestamp),
	}
	if event.ActorID != "" {
		fields = append(fields, zap.String("actor_id", HashValue(event.ActorID)))
	}
	if event.SubjectType != "" {
		fields = append(fields, zap.String("subject_type", event.SubjectType))
	}
	if event.SubjectID != "" {
		fields = append(fields, zap.String("subject_id", event.SubjectID))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		fields = append(fields, zap.Any("details", event.Details))
	}

	sl.zapLogger.Log(levelFor(event.Event), string(event.Event), fields...)
}

func (sl *SecurityLogger) LogRateLimitTriggered(ctx context.Context, ip, requestID, endpoint string) {
	sl.Log(ctx, SecurityEvent{
		Event:       EventRateLimitTriggered,
		SubjectType: "ip",
		SubjectID:   ip,
		IP:          ip,
		RequestID:   requestID,
		Details:     map[string]any{"endpoint": endpoint},
	})
}

func (sl *SecurityLogger) LogUploadRejected(ctx context.Context, actorID, ip, filename, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:       EventUploadRejected,
		ActorID:     actorID,
		SubjectType: "file",
		SubjectID:   filename,
		IP:          ip,
		Details:     map[string]any{"reason": reason},
	})
}

// Sync flushes buffered entries.
func (sl *SecurityLogger) Sync() error {
	return sl.zapLogger.Sync()
}

// MaskEmail masks an email for logging (e.g., "j***@example.com").
func MaskEmail(email string) string {
	if len(email) < 3 {
		return "***"
	}
	atIndex := -1
	for i, c := range email {
		if c == '@' {
			atIndex = i
			break
		}
	}
	if atIndex <= 1 {
		return "***" + email[1:]
	}
	return string(email[0]) + "***" + email[atIndex:]
}

// HashValue returns the first 16 hex chars of the SHA-256 of value.
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}
