package notifications

import (
	"context"

	"github.com/m04kA/SMC-DetailingService/pkg/mailer"
)

// Mailer отправка писем
type Mailer interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// Metrics бизнес-метрики
type Metrics interface {
	RecordNotificationFailure(kind string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
