package config

import (
	"errors"
	"fmt"
)

// Validate reports every required setting that is missing.
func (c Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, missing("DATABASE_URL"))
	}
	if len(c.SessionSecret) == 0 {
		errs = append(errs, missing("SESSION_SECRET"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL))
	}
	return errors.Join(errs...)
}

func missing(envName string) error {
	return fmt.Errorf("missing required env %s", envName)
}
