package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with request and domain helpers
type Logger struct {
	*slog.Logger
}

// New creates a logger writing to stdout at the level named by LOG_LEVEL
func New() *Logger {
	return NewWithWriter(os.Stdout, os.Getenv("LOG_LEVEL"))
}

// NewWithWriter creates a logger writing to w. Text output in gin debug mode, JSON otherwise.
func NewWithWriter(w io.Writer, level string) *Logger {
	lvl := getLogLevel(level)

	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	}

	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("request_id", requestID))}
}

func (l *Logger) WithUserID(userID string) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("user_id", userID))}
}

func (l *Logger) WithError(err error) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("error", err.Error()))}
}

// HTTP logging methods

// LogHTTPRequest logs a completed HTTP request
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	attrs := []interface{}{
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.String("user_agent", c.Request.UserAgent()),
		slog.Int("size", c.Writer.Size()),
	}
	l.Logger.InfoContext(c.Request.Context(), "HTTP Request", attrs...)
}

// LogHTTPError logs an HTTP error
func (l *Logger) LogHTTPError(c *gin.Context, err error, statusCode int) {
	l.Logger.ErrorContext(c.Request.Context(),
		"HTTP Error",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", statusCode),
		slog.String("error", err.Error()),
		slog.String("ip", c.ClientIP()),
	)
}

// Business logic logging methods

// LogGroupCreated logs when a savings group is created
func (l *Logger) LogGroupCreated(ctx context.Context, groupID, userID string, cycleDays int) {
	l.Logger.InfoContext(ctx,
		"Group Created",
		slog.String("group_id", groupID),
		slog.String("user_id", userID),
		slog.Int("cycle_duration_days", cycleDays),
	)
}

// LogMemberJoined logs when a user joins a group
func (l *Logger) LogMemberJoined(ctx context.Context, groupID, userID string) {
	l.Logger.InfoContext(ctx,
		"Member Joined",
		slog.String("group_id", groupID),
		slog.String("user_id", userID),
	)
}

// LogContributionRecorded logs a contribution state change
func (l *Logger) LogContributionRecorded(ctx context.Context, contributionID, groupID, status string) {
	l.Logger.InfoContext(ctx,
		"Contribution Recorded",
		slog.String("contribution_id", contributionID),
		slog.String("group_id", groupID),
		slog.String("status", status),
	)
}

// LogEventCreated logs when an event is created
func (l *Logger) LogEventCreated(ctx context.Context, eventID, userID string, ticketTypes int) {
	l.Logger.InfoContext(ctx,
		"Event Created",
		slog.String("event_id", eventID),
		slog.String("user_id", userID),
		slog.Int("ticket_types", ticketTypes),
	)
}

// LogTicketPurchase logs a confirmed ticket purchase
func (l *Logger) LogTicketPurchase(ctx context.Context, purchaseID, ticketTypeID, userID string, quantity int, total string) {
	l.Logger.InfoContext(ctx,
		"Ticket Purchase",
		slog.String("purchase_id", purchaseID),
		slog.String("ticket_type_id", ticketTypeID),
		slog.String("user_id", userID),
		slog.Int("quantity", quantity),
		slog.String("total", total),
	)
}

// LogWizardSubmission logs the outcome of a wizard submission
func (l *Logger) LogWizardSubmission(ctx context.Context, wizard, draftID string, err error) {
	if err != nil {
		l.Logger.WarnContext(ctx,
			"Wizard Submission Failed",
			slog.String("wizard", wizard),
			slog.String("draft_id", draftID),
			slog.String("error", err.Error()),
		)
		return
	}
	l.Logger.InfoContext(ctx,
		"Wizard Submitted",
		slog.String("wizard", wizard),
		slog.String("draft_id", draftID),
	)
}

// LogActivityPublished logs an activity handed to the feed
func (l *Logger) LogActivityPublished(ctx context.Context, activityType, groupID string) {
	l.Logger.DebugContext(ctx,
		"Activity Published",
		slog.String("type", activityType),
		slog.String("group_id", groupID),
	)
}

// Security logging methods

func (l *Logger) LogAuthSuccess(ctx context.Context, userID, method string) {
	l.Logger.InfoContext(ctx,
		"Authentication Success",
		slog.String("user_id", userID),
		slog.String("method", method),
	)
}

func (l *Logger) LogAuthFailure(ctx context.Context, reason, ip string) {
	l.Logger.WarnContext(ctx,
		"Authentication Failure",
		slog.String("reason", reason),
		slog.String("ip", ip),
	)
}

func (l *Logger) LogRateLimitExceeded(ctx context.Context, ip, endpoint string) {
	l.Logger.WarnContext(ctx,
		"Rate Limit Exceeded",
		slog.String("ip", ip),
		slog.String("endpoint", endpoint),
	)
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
