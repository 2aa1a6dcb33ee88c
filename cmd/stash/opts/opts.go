package opts

import (
	"github.com/walteh/stash/pkg/config"
	"github.com/walteh/stash/pkg/operation"
	"github.com/walteh/stash/pkg/status"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	Config     *config.Config
	Reporter   *status.Reporter
	UserLogger *status.UserLogger
	Runner     *operation.Runner
}
