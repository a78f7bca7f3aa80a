package commands

import (
	"time"

	"seatwatch-backend/lib/configutil"
	"seatwatch-backend/lib/notify"
	"seatwatch-backend/lib/scrapers/globalsearch"
	"seatwatch-backend/services/coursewatch"
)

const (
	discordTokenEnv = "SEATWATCH_DISCORD_TOKEN"
	smtpPasswordEnv = "SEATWATCH_SMTP_PASSWORD"
)

type GlobalSearchConfig struct {
	BaseUrl             string  `json:"base_url"`
	UserAgent           string  `json:"user_agent"`
	TimeoutSeconds      int     `json:"timeout_seconds"`
	RequestsPerSecond   float64 `json:"requests_per_second"`
	RefreshDelaySeconds int     `json:"refresh_delay_seconds"`
	CloudflareBypass    bool    `json:"cloudflare_bypass"`
}

func (c GlobalSearchConfig) ClientOptions() globalsearch.ClientOptions {
	return globalsearch.ClientOptions{
		BaseUrl:           c.BaseUrl,
		UserAgent:         c.UserAgent,
		Timeout:           time.Duration(c.TimeoutSeconds) * time.Second,
		RequestsPerSecond: c.RequestsPerSecond,
		RefreshDelay:      time.Duration(c.RefreshDelaySeconds) * time.Second,
		CloudflareBypass:  c.CloudflareBypass,
	}
}

type PollerConfig struct {
	Concurrency          int  `json:"concurrency"`
	IdleIntervalSeconds  int  `json:"idle_interval_seconds"`
	MinCycleDelaySeconds int  `json:"min_cycle_delay_seconds"`
	MaxCycleDelaySeconds int  `json:"max_cycle_delay_seconds"`
	MaxJitterMillis      int  `json:"max_jitter_millis"`
	NotifyWaitList       bool `json:"notify_wait_list"`
}

func (c PollerConfig) PollerOptions() coursewatch.PollerOptions {
	return coursewatch.PollerOptions{
		Concurrency:   c.Concurrency,
		IdleInterval:  time.Duration(c.IdleIntervalSeconds) * time.Second,
		MinCycleDelay: time.Duration(c.MinCycleDelaySeconds) * time.Second,
		MaxCycleDelay: time.Duration(c.MaxCycleDelaySeconds) * time.Second,
		MaxJitter:     time.Duration(c.MaxJitterMillis) * time.Millisecond,
		Policy: coursewatch.TransitionPolicy{
			NotifyWaitList: c.NotifyWaitList,
		},
	}
}

type DiscordConfig struct {
	Enabled    bool   `json:"enabled"`
	ApiBaseUrl string `json:"api_base_url"`
}

type SmtpConfig struct {
	Enabled      bool   `json:"enabled"`
	Server       string `json:"server"`
	Port         int    `json:"port"`
	EmailAddress string `json:"email_address"`
}

type Config struct {
	Database           string             `json:"database"`
	GlobalSearch       GlobalSearchConfig `json:"global_search"`
	Poller             PollerConfig       `json:"poller"`
	Discord            DiscordConfig      `json:"discord"`
	Smtp               SmtpConfig         `json:"smtp"`
	SessionRefreshCron string             `json:"session_refresh_cron"`
}

func readConfig(path string) (Config, error) {
	cfg, err := configutil.ReadConfig[Config](path)
	if err != nil {
		return Config{}, err
	}
	if cfg.SessionRefreshCron == "" {
		cfg.SessionRefreshCron = "0 4 * * *"
	}
	return cfg, nil
}

// dispatcher builds the notification route for the enabled channels, reading
// their secrets from the environment. Notifications are always logged.
func (c Config) dispatcher() (notify.Dispatcher, error) {
	router := notify.Router{}
	if c.Discord.Enabled {
		secrets, err := configutil.RequireEnv(discordTokenEnv)
		if err != nil {
			return nil, err
		}
		router.Chat = notify.NewDiscordDispatcher(notify.DiscordOptions{
			ApiUrl:   c.Discord.ApiBaseUrl,
			BotToken: secrets[discordTokenEnv],
		})
	}
	if c.Smtp.Enabled {
		secrets, err := configutil.RequireEnv(smtpPasswordEnv)
		if err != nil {
			return nil, err
		}
		router.Email = notify.NewEmailDispatcher(notify.SmtpConfig{
			Server:       c.Smtp.Server,
			Port:         c.Smtp.Port,
			EmailAddress: c.Smtp.EmailAddress,
			Password:     secrets[smtpPasswordEnv],
		})
	}
	return notify.Multi(notify.LogDispatcher{}, router), nil
}
