package webpush

import (
	"context"
	"fmt"
	"net/http"

	webpushgo "github.com/SherClockHolmes/webpush-go"
	"github.com/avisosapp/push-backend/pkg/config"
	"github.com/avisosapp/push-backend/pkg/db/models"
)

// Gateway is the external push capability: send(endpoint, keys, payload) and
// report success or failure. Delivery details stay behind this seam.
type Gateway interface {
	Send(ctx context.Context, sub *models.WebPushSubscription, payload []byte) error
}

type vapidGateway struct {
	publicKey  string
	privateKey string
	subscriber string
}

// NewGateway returns the VAPID-signed web-push gateway.
func NewGateway(cfg config.VAPIDConfig) Gateway {
	return &vapidGateway{
		publicKey:  cfg.PublicKey,
		privateKey: cfg.PrivateKey,
		subscriber: "mailto:" + cfg.Subscriber,
	}
}

func (g *vapidGateway) Send(ctx context.Context, sub *models.WebPushSubscription, payload []byte) error {
	resp, err := webpushgo.SendNotificationWithContext(ctx, payload, &webpushgo.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpushgo.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpushgo.Options{
		VAPIDPublicKey:  g.publicKey,
		VAPIDPrivateKey: g.privateKey,
		Subscriber:      g.subscriber,
		TTL:             86400,
	})
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("push service returned %d", resp.StatusCode)
	}
	return nil
}
