package fcm

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// Client pushes reminder notifications to registered browser/mobile devices.
type Client struct {
	messagingClient *messaging.Client
}

// NewClient creates a new FCM client using the provided credentials file
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	log.Info().Str("component", "fcm").Msg("client initialized")
	return &Client{messagingClient: messagingClient}, nil
}

// Push is a device notification. Link is opened when the notification is clicked.
type Push struct {
	Title string
	Body  string
	Link  string
	Data  map[string]string
}

// Send delivers p to every token and returns the tokens FCM rejected.
func (c *Client) Send(ctx context.Context, tokens []string, p Push) ([]string, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	webpush := &messaging.WebpushConfig{
		Notification: &messaging.WebpushNotification{
			Title: p.Title,
			Body:  p.Body,
			Icon:  "/icon-192.svg",
		},
	}
	if p.Link != "" {
		webpush.FCMOptions = &messaging.WebpushFCMOptions{Link: p.Link}
	}

	response, err := c.messagingClient.SendEachForMulticast(ctx, &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: p.Title,
			Body:  p.Body,
		},
		Data:    p.Data,
		Webpush: webpush,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send FCM multicast message: %w", err)
	}

	var failed []string
	for i, resp := range response.Responses {
		if !resp.Success {
			failed = append(failed, tokens[i])
		}
	}
	log.Debug().
		Str("component", "fcm").
		Int("success", response.SuccessCount).
		Int("failure", response.FailureCount).
		Msg("multicast sent")

	return failed, nil
}
