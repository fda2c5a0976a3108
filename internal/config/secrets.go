package config

const redacted = "***"

// RedactedConfig returns a copy of cfg that is safe to log: API keys,
// database credentials, storage keys and notification secrets are replaced
// with "***". Slices are copied so the result shares no state with cfg.
func RedactedConfig(cfg *Config) Config {
	out := *cfg
	for _, s := range []*string{
		&out.Kalshi.ApiKey,
		&out.OddsAPI.ApiKey,
		&out.Postgres.DSN,
		&out.Postgres.Password,
		&out.Redis.Password,
		&out.S3.AccessKey,
		&out.S3.SecretKey,
		&out.Notify.TelegramToken,
		&out.Notify.DiscordWebhookURL,
		&out.Notify.SlackWebhookURL,
	} {
		if *s != "" {
			*s = redacted
		}
	}
	out.Analysis.Sports = cloneStrings(cfg.Analysis.Sports)
	out.Notify.Events = cloneStrings(cfg.Notify.Events)
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
