package alert

import (
	"context"

	"github.com/primis-labs/primis-backend/pkg/models"
)

// AlertInterface notifies operators about provider state transitions:
//  1. a configured provider turned unavailable
//  2. a previously unavailable provider recovered
type AlertInterface interface {
	ProviderOutageAlert(ctx context.Context, health models.ProviderHealth) error
	ProviderRecoveredAlert(ctx context.Context, health models.ProviderHealth) error
}

// alertHandlerInterface is the delivery channel; SMTP today, chat robots later.
type alertHandlerInterface interface {
	SendMessageTo(ctx context.Context, receiver, subject, body string) error
}
