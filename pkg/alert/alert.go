package alert

import (
	"context"
	"fmt"
	"sync"

	"github.com/primis-labs/primis-backend/pkg/config"
	"github.com/primis-labs/primis-backend/pkg/models"
)

type alertMgr struct {
	handler  alertHandlerInterface
	receiver string
}

var (
	once    sync.Once
	alerter *alertMgr
)

func GetAlertMgr() AlertInterface {
	once.Do(func() {
		alerter = initAlertMgr()
	})
	return alerter
}

func initAlertMgr() *alertMgr {
	// SMTP is the only delivery channel for now; later this can be
	// selected from Config.
	smtpHandler, err := newSMTPAlerter()
	if err != nil {
		panic(err)
	}
	return &alertMgr{
		handler:  smtpHandler,
		receiver: config.GetConfig().SMTP.Notify,
	}
}

func (a *alertMgr) ProviderOutageAlert(ctx context.Context, health models.ProviderHealth) error {
	subject := fmt.Sprintf("[primis] provider %s is unavailable", health.Provider)
	body := fmt.Sprintf(
		"Provider %s turned unavailable at %s.\nLast message: %s\nLatency: %dms\n\nOfferings from this provider are excluded from routing until it recovers.",
		health.Provider, health.CheckedAt.Format("2006-01-02 15:04:05"), health.Message, health.LatencyMs)
	return a.handler.SendMessageTo(ctx, a.receiver, subject, body)
}

func (a *alertMgr) ProviderRecoveredAlert(ctx context.Context, health models.ProviderHealth) error {
	subject := fmt.Sprintf("[primis] provider %s recovered", health.Provider)
	body := fmt.Sprintf(
		"Provider %s is %s again as of %s (latency %dms).",
		health.Provider, health.Status, health.CheckedAt.Format("2006-01-02 15:04:05"), health.LatencyMs)
	return a.handler.SendMessageTo(ctx, a.receiver, subject, body)
}
