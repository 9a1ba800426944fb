package main

import (
	"context"
	"flag"
	"fmt"
	l "log"

	"sombot-backend/config"
	c "sombot-backend/context"
	"sombot-backend/logger"
	"sombot-backend/router"
	"sombot-backend/vault"

	"github.com/codegangsta/negroni"
	"github.com/spf13/viper"
	"github.com/stripe/stripe-go"
)

var (
	version string
)

const defaultCorrelationID = "00000000.00000000"

var ctx context.Context

func init() {
	ctx = c.SetContextWithValue(context.Background(), c.ContextKeyCorrelationID, defaultCorrelationID)
}

func main() {
	cfgPath := flag.String("CONFIG_PATH", "./config.yaml", "Path to config file")
	flag.Parse()

	viper.SetConfigFile(*cfgPath)

	if err := viper.ReadInConfig(); err != nil {
		l.Fatalln("error reading config")
	}

	loadVaultSecrets()

	stripe.Key = viper.GetString(config.StripeSecretKey)

	muxRouter := router.Router(ctx)

	n := negroni.New()
	n.UseHandler(muxRouter)
	n.Run(fmt.Sprintf("%s", viper.GetString(config.Port)))
}

// loadVaultSecrets overlays viper with secrets from Vault when a vault
// address is configured; otherwise the values stay as configured via
// file or environment.
func loadVaultSecrets() {
	address := viper.GetString(config.VaultAddress)
	if address == "" {
		return
	}

	v, err := vault.New(
		viper.GetString(config.VaultToken),
		address,
		viper.GetString(config.VaultSecretPath),
	)
	if err != nil {
		logger.Fatalf(ctx, "main: error creating vault client: %+v", err)
	}

	keys := map[string]string{
		"stripe_secret_key":     config.StripeSecretKey,
		"stripe_webhook_secret": config.StripeWebhookSecret,
		"ticket_encryption_key": config.TicketEncryptionKey,
		"mailer_api_key":        config.MailerAPIKey,
	}

	for secretKey, viperKey := range keys {
		value, ok, err := v.Read(secretKey)
		if err != nil {
			logger.Fatalf(ctx, "main: error reading secret %s: %+v", secretKey, err)
		}
		if ok {
			viper.Set(viperKey, value)
		}
	}
}
