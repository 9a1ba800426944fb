package config

import (
	"github.com/spf13/viper"
)

const (
	DBURL = "database.mysql"

	FirebaseProjectID             = "firebase.project_id"
	FirebaseServiceAccountKeyPath = "firebase.service_account_key_path"
	FirebaseStorageBucket         = "firebase.storage_bucket"

	StripeSecretKey     = "stripe.secret_key"
	StripeWebhookSecret = "stripe.webhook_secret"
	StripeCurrency      = "stripe.currency"

	TicketEncryptionKey = "ticket.encryption_key"

	MailerAPIKey      = "mailer.api_key"
	MailerFromName    = "mailer.from_name"
	MailerFromAddress = "mailer.from_address"

	VaultAddress    = "vault.address"
	VaultToken      = "vault.token"
	VaultSecretPath = "vault.secret_path"

	Port               = "server.port"
	PublicBaseURL      = "server.public_base_url"
	JWTOfflineInterval = "server.jwt_offline_interval"

	RedisAddress  = "redis.address"
	RedisPassword = "redis.password"
	RedisDB       = "redis.db"
	EventCacheTTL = "redis.event_cache_ttl"
)

func init() {
	viper.AutomaticEnv()
	viper.SetDefault(Port, "9000")
	viper.SetDefault(JWTOfflineInterval, 120)
	viper.SetDefault(StripeCurrency, "usd")
	viper.SetDefault(EventCacheTTL, 60)
}
