package vault

import (
	"fmt"

	"github.com/hashicorp/vault/api"
)

// Vault reads service secrets (Stripe keys, the ticket encryption key)
// from a single kv path.
type Vault struct {
	SecretPath string
	*api.Client
}

func New(token, address, secretPath string) (*Vault, error) {
	config := &api.Config{
		Address: address,
	}

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("new: error initializing vault: %w", err)
	}

	client.SetToken(token)

	return &Vault{SecretPath: secretPath, Client: client}, nil
}

// Read returns the value stored under key at the configured secret path.
// The boolean is false when the path or key does not exist.
func (v *Vault) Read(key string) (string, bool, error) {
	secret, err := v.Logical().Read(v.SecretPath)
	if err != nil {
		return "", false, fmt.Errorf("read: error reading secret path: %s: %w", v.SecretPath, err)
	}

	if secret == nil || secret.Data == nil {
		return "", false, nil
	}

	value, ok := secret.Data[key]
	if !ok {
		return "", false, nil
	}

	s, ok := value.(string)
	if !ok {
		return "", false, fmt.Errorf("read: secret %s is not a string", key)
	}

	return s, true, nil
}
