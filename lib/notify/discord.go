package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"seatwatch-backend/lib/restyutil"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

const DefaultDiscordApiUrl = "https://discord.com/api/v10"

type DiscordOptions struct {
	// ApiUrl defaults to DefaultDiscordApiUrl.
	ApiUrl   string
	BotToken string
	Timeout  time.Duration
}

// DiscordDispatcher posts notifications to a Discord channel through the bot
// REST api, mentioning the subscriber.
type DiscordDispatcher struct {
	http *resty.Client
}

func NewDiscordDispatcher(opts DiscordOptions) DiscordDispatcher {
	if opts.ApiUrl == "" {
		opts.ApiUrl = DefaultDiscordApiUrl
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}

	client := resty.New()
	client.SetBaseURL(opts.ApiUrl)
	client.SetAuthScheme("Bot")
	client.SetAuthToken(opts.BotToken)
	client.SetTimeout(opts.Timeout)
	client.SetRetryCount(2)
	client.SetRetryWaitTime(time.Second)
	client.AddRetryCondition(func(res *resty.Response, err error) bool {
		return err == nil && (res.StatusCode() == http.StatusTooManyRequests || res.StatusCode() >= 500)
	})
	restyutil.InstrumentClient(client, tracer, restyInstrumentOutput)

	return DiscordDispatcher{http: client}
}

type discordAllowedMentions struct {
	Users []string `json:"users"`
}

type discordMessage struct {
	Content         string                 `json:"content"`
	AllowedMentions discordAllowedMentions `json:"allowed_mentions"`
}

func (d DiscordDispatcher) Dispatch(ctx context.Context, n Notification) error {
	ctx, span := tracer.Start(ctx, "discord:Dispatch")
	defer span.End()

	content := n.Message
	if content == "" {
		content = n.Summary()
	}

	res, err := d.http.R().
		SetContext(ctx).
		SetPathParam("channel", n.ChannelID).
		SetBody(discordMessage{
			Content:         fmt.Sprintf("<@%s>\n%s", n.SubscriberID, content),
			AllowedMentions: discordAllowedMentions{Users: []string{n.SubscriberID}},
		}).
		Post("/channels/{channel}/messages")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to post discord message")
		return fmt.Errorf("post discord message: %w", err)
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "discord rejected message")
		return fmt.Errorf("post discord message: status %d: %s", res.StatusCode(), res.String())
	}
	return nil
}
