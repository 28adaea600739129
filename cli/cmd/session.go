package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"modx/internal/auth"
	"modx/internal/config"
	"modx/internal/tooling"
)

// Requests per second allowed against the org; polling is the main source.
const (
	apiRateLimit = 10
	apiBurst     = 5
)

var (
	tokens = auth.NewTokenStore()

	// workDirs resolves the project and home directories config is read from.
	workDirs = func() (project, home string, err error) {
		project, err = os.Getwd()
		if err != nil {
			return "", "", err
		}
		home, err = os.UserHomeDir()
		return project, home, err
	}

	newClient = func(s *config.Settings) (tooling.Client, error) {
		return tooling.NewRESTClient(s.InstanceURL, s.AccessToken,
			tooling.WithAPIVersion(s.APIVersion),
			tooling.WithRateLimit(apiRateLimit, apiBurst),
		)
	}
)

var flagKeys = map[string]string{
	"target-org":     config.KeyTargetOrg,
	"resourcefolder": config.KeyResourceFolder,
	"cachecontrol":   config.KeyCacheControl,
}

func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	project, home, err := workDirs()
	if err != nil {
		return nil, err
	}
	loader := config.NewLoader(project, home)
	for name, key := range flagKeys {
		if err := loader.BindFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return nil, err
		}
	}
	return loader.Load()
}

// openSession resolves the target org and its token and connects to it.
func openSession(cmd *cobra.Command) (*config.Settings, tooling.Client, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return nil, nil, err
	}
	if err := settings.RequireOrg(); err != nil {
		return nil, nil, err
	}
	if settings.AccessToken == "" {
		if settings.Org == "" {
			return nil, nil, config.ErrNoOrg
		}
		token, err := tokens.Load(settings.Org)
		if err != nil {
			if errors.Is(err, auth.ErrNoCredentials) {
				return nil, nil, fmt.Errorf("%w (run `modx org login -a %s`)", err, settings.Org)
			}
			return nil, nil, err
		}
		settings.AccessToken = token
	}
	CLILogs.Debug("using org %q at %s (api v%s)", settings.Org, settings.InstanceURL, settings.APIVersion)
	client, err := newClient(settings)
	if err != nil {
		return nil, nil, err
	}
	return settings, client, nil
}

func apiVersionNumber(s *config.Settings) (float64, error) {
	v, err := strconv.ParseFloat(s.APIVersion, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid api version %q: %w", s.APIVersion, err)
	}
	return v, nil
}
