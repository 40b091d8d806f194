// Package state defines shared program state.
package state

import (
	"context"
	"time"

	"go.uber.org/zap"

	"ribbons/config"
)

type envKey struct{}

// LocalEnv keeps everything the program needs in a single place.
type LocalEnv struct {
	Cfg   *config.Config
	Log   *zap.Logger
	Debug bool

	start time.Time
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, &LocalEnv{Log: zap.NewNop(), start: time.Now()})
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// Config returns the loaded configuration, falling back to the defaults when
// none was loaded yet.
func (e *LocalEnv) Config() (*config.Config, error) {
	if e.Cfg == nil {
		cfg, err := config.LoadConfiguration("")
		if err != nil {
			return nil, err
		}
		e.Cfg = cfg
	}
	return e.Cfg, nil
}

// Relog replaces the logger with one built from logging after syncing the
// previous one.
func (e *LocalEnv) Relog(logging config.LoggingConfig) error {
	if e.Debug {
		logging = logging.Debug()
	}
	log, err := logging.Prepare()
	if err != nil {
		return err
	}
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	e.Log = log
	return nil
}
