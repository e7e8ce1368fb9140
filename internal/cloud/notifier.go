package cloud

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mooreli104/farmtwin/internal/domain"
)

// AlertNotifier pushes critical conditions to SNS without blocking the
// ingest path. Publish failures are logged and dropped.
type AlertNotifier struct {
	sns *SNSClient
}

func NewAlertNotifier(sns *SNSClient) *AlertNotifier {
	return &AlertNotifier{sns: sns}
}

func (n *AlertNotifier) NotifyCriticalAlert(alert domain.Alert) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := n.sns.SendCriticalAlert(ctx, alert); err != nil {
			log.Error().Err(err).Str("alert_key", alert.AlertKey).Msg("sns alert publish failed")
		}
	}()
}

func (n *AlertNotifier) NotifyIrrigation(event domain.IrrigationEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := n.sns.SendIrrigationNotice(ctx, event); err != nil {
			log.Error().Err(err).Msg("sns irrigation publish failed")
		}
	}()
}
