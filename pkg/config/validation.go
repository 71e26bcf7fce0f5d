package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/marmos91/dsomm/pkg/state"
)

var validate = validator.New()

// Validate checks the struct tags and the cross-field rules the tags cannot express.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed '%s' validation", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%s", strings.Join(msgs, "; "))
		}
		return err
	}

	if cfg.Data.Source == SourceS3 {
		if cfg.Data.S3.Bucket == "" {
			return fmt.Errorf("data.s3.bucket is required for the s3 source")
		}
		if cfg.Data.Watch {
			return fmt.Errorf("data.watch is only supported for the fs source")
		}
	}

	if cfg.Database.Type == state.DatabaseTypePostgres && cfg.Database.Postgres.Host == "" {
		return fmt.Errorf("database.postgres.host is required for the postgres state store")
	}

	if cfg.API.JWT.Secret != "" && len(cfg.API.JWT.Secret) < 32 {
		return fmt.Errorf("api.jwt.secret must be at least 32 characters")
	}

	return nil
}
