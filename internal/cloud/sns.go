package cloud

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/mooreli104/farmtwin/internal/domain"
)

// SNSClient wraps AWS SNS for alert notifications.
type SNSClient struct {
	svc      *sns.Client
	topicArn string
}

func NewSNSClient(region, topicArn string) (*SNSClient, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(), config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return &SNSClient{svc: sns.NewFromConfig(cfg), topicArn: topicArn}, nil
}

func (c *SNSClient) publish(ctx context.Context, subject, message string) error {
	_, err := c.svc.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(c.topicArn),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	})
	if err != nil {
		return fmt.Errorf("failed to publish to SNS: %w", err)
	}
	return nil
}

// SendCriticalAlert notifies operators about a critical threshold violation.
func (c *SNSClient) SendCriticalAlert(ctx context.Context, alert domain.Alert) error {
	subject := fmt.Sprintf("Greenhouse Alert: %s", alert.Sensor)
	message := fmt.Sprintf(
		"Critical Threshold Violation\n\n"+
			"Greenhouse: %s\n"+
			"Sensor: %s\n"+
			"%s\n"+
			"Time: %s\n\n"+
			"Please investigate immediately.",
		alert.GreenhouseID,
		alert.Sensor,
		alert.Message,
		alert.CreatedAt.Format(time.RFC3339),
	)
	return c.publish(ctx, subject, message)
}

// SendIrrigationNotice reports an automatic irrigation event.
func (c *SNSClient) SendIrrigationNotice(ctx context.Context, event domain.IrrigationEvent) error {
	subject := "Greenhouse: Irrigation Triggered"
	message := fmt.Sprintf(
		"Automatic Irrigation Event\n\n"+
			"Greenhouse: %s\n"+
			"Water Amount: %.1f gal\n"+
			"Time: %s\n",
		event.GreenhouseID,
		event.WaterAmount,
		event.Timestamp.Format(time.RFC3339),
	)
	return c.publish(ctx, subject, message)
}
