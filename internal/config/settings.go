package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "MODX"

// Setting keys. Each is also readable from the environment as MODX_<KEY>.
const (
	KeyTargetOrg      = "target_org"
	KeyInstanceURL    = "instance_url"
	KeyAccessToken    = "access_token"
	KeyAPIVersion     = "api_version"
	KeyPollInterval   = "poll_interval"
	KeyMaxPolls       = "max_polls"
	KeyResourceFolder = "resource_folder"
	KeyCacheControl   = "cache_control"
)

const (
	DefaultAPIVersion     = "60.0"
	DefaultPollInterval   = time.Second
	DefaultResourceFolder = "staticresources"
	DefaultCacheControl   = "private"
)

var (
	ErrNoOrg         = errors.New("no target org: pass --target-org, set MODX_TARGET_ORG or run `modx org login`")
	ErrUnknownOrg    = errors.New("org alias is not logged in")
	ErrBadPollConfig = errors.New("invalid poll interval")
)

// Settings is the resolved configuration for one command run.
type Settings struct {
	Org            string
	InstanceURL    string
	AccessToken    string
	OrgConfig      Org
	APIVersion     string
	PollInterval   time.Duration
	MaxPolls       int
	ResourceFolder string
	CacheControl   string
}

// Loader layers the configuration sources. Lowest to highest: built-in
// defaults, modx.yml, ~/.modx.yaml, the project .env, the process
// environment, and finally any bound command flags.
type Loader struct {
	v          *viper.Viper
	projectDir string
	homeDir    string
}

func NewLoader(projectDir, homeDir string) *Loader {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return &Loader{v: v, projectDir: projectDir, homeDir: homeDir}
}

// BindFlag makes a command flag the top layer for key. Flags only win
// when the user actually set them.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return nil
	}
	return l.v.BindPFlag(key, flag)
}

func (l *Loader) defaults() error {
	l.v.SetDefault(KeyAPIVersion, DefaultAPIVersion)
	l.v.SetDefault(KeyPollInterval, DefaultPollInterval.String())
	l.v.SetDefault(KeyMaxPolls, 0)
	l.v.SetDefault(KeyResourceFolder, DefaultResourceFolder)
	l.v.SetDefault(KeyCacheControl, DefaultCacheControl)

	project, err := LoadProject(l.projectDir)
	if err != nil {
		return err
	}
	for key, val := range map[string]string{
		KeyTargetOrg:      project.DefaultOrg,
		KeyAPIVersion:     project.APIVersion,
		KeyPollInterval:   project.Deploy.PollInterval,
		KeyResourceFolder: project.StaticResources.Folder,
		KeyCacheControl:   project.StaticResources.CacheControl,
	} {
		if val != "" {
			l.v.SetDefault(key, val)
		}
	}
	if project.Deploy.MaxPolls > 0 {
		l.v.SetDefault(KeyMaxPolls, project.Deploy.MaxPolls)
	}
	return nil
}

func (l *Loader) readUser() error {
	if l.homeDir == "" {
		return nil
	}
	path := filepath.Join(l.homeDir, UserFile)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	l.v.SetConfigFile(path)
	l.v.SetConfigType("yaml")
	if err := l.v.ReadInConfig(); err != nil {
		return fmt.Errorf("%s reading %s: %w", EmojiWarning, path, err)
	}
	return nil
}

// mergeDotEnv folds MODX_ entries of the project .env into the config
// layer, so they beat the user file but lose to the real environment.
// The process environment is left untouched.
func (l *Loader) mergeDotEnv() error {
	path := filepath.Join(l.projectDir, ".env")
	vals, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s reading %s: %w", EmojiWarning, path, err)
	}
	merged := map[string]any{}
	for k, val := range vals {
		key, ok := strings.CutPrefix(k, EnvPrefix+"_")
		if !ok {
			continue
		}
		merged[strings.ToLower(key)] = val
	}
	return l.v.MergeConfigMap(merged)
}

func (l *Loader) Load() (*Settings, error) {
	if err := l.defaults(); err != nil {
		return nil, err
	}
	if err := l.readUser(); err != nil {
		return nil, err
	}
	if err := l.mergeDotEnv(); err != nil {
		return nil, err
	}

	interval := l.v.GetDuration(KeyPollInterval)
	if interval <= 0 {
		return nil, fmt.Errorf("%w: %q", ErrBadPollConfig, l.v.GetString(KeyPollInterval))
	}

	s := &Settings{
		Org:            l.v.GetString(KeyTargetOrg),
		InstanceURL:    l.v.GetString(KeyInstanceURL),
		AccessToken:    l.v.GetString(KeyAccessToken),
		APIVersion:     strings.TrimPrefix(l.v.GetString(KeyAPIVersion), "v"),
		PollInterval:   interval,
		MaxPolls:       l.v.GetInt(KeyMaxPolls),
		ResourceFolder: l.v.GetString(KeyResourceFolder),
		CacheControl:   l.v.GetString(KeyCacheControl),
	}
	if s.Org != "" {
		prefix := "orgs." + s.Org + "."
		s.OrgConfig = Org{
			InstanceURL: l.v.GetString(prefix + "instance_url"),
			Username:    l.v.GetString(prefix + "username"),
			LoginURL:    l.v.GetString(prefix + "login_url"),
			ClientID:    l.v.GetString(prefix + "client_id"),
			KeyFile:     l.v.GetString(prefix + "key_file"),
		}
		if s.InstanceURL == "" {
			s.InstanceURL = s.OrgConfig.InstanceURL
		}
	}
	return s, nil
}

// RequireOrg checks that a target org could be resolved to an instance.
func (s *Settings) RequireOrg() error {
	if s.InstanceURL != "" {
		return nil
	}
	if s.Org == "" {
		return ErrNoOrg
	}
	return fmt.Errorf("%w: %s", ErrUnknownOrg, s.Org)
}
