package config

import (
	"fmt"

	"github.com/sirupsen/logrus"
	supa "github.com/supabase-community/supabase-go"
)

// NewSupabaseClient initializes the Supabase client with the service key.
func NewSupabaseClient(cfg *Config, log *logrus.Logger) (*supa.Client, error) {
	client, err := supa.NewClient(cfg.SupabaseURL, cfg.SupabaseKey, nil)
	if err != nil {
		return nil, fmt.Errorf("initialize supabase client: %w", err)
	}

	log.WithField("url", cfg.SupabaseURL).Info("Supabase client initialized successfully.")
	return client, nil
}
