package config

// ProjectConfig is modx.yml, checked into the project root.
type ProjectConfig struct {
	Version         string                `yaml:"version"`
	DefaultOrg      string                `yaml:"defaultOrg,omitempty"`
	APIVersion      string                `yaml:"apiVersion,omitempty"`
	Deploy          DeployConfig          `yaml:"deploy"`
	StaticResources StaticResourcesConfig `yaml:"staticResources"`
}

// DeployConfig tunes the async request poller.
type DeployConfig struct {
	// PollInterval is a Go duration string such as "1s".
	PollInterval string `yaml:"pollInterval,omitempty"`
	// MaxPolls 0 waits until the request leaves Queued.
	MaxPolls int `yaml:"maxPolls,omitempty"`
}

type StaticResourcesConfig struct {
	Folder       string `yaml:"folder,omitempty"`
	CacheControl string `yaml:"cacheControl,omitempty"`
}

// UserConfig is ~/.modx.yaml. Tokens are never written here; they live in
// the OS keyring.
type UserConfig struct {
	DefaultOrg string         `yaml:"target_org,omitempty"`
	Orgs       map[string]Org `yaml:"orgs,omitempty"`
}

// Org is one authorized org, keyed by alias.
type Org struct {
	InstanceURL string `yaml:"instance_url"`
	Username    string `yaml:"username,omitempty"`
	LoginURL    string `yaml:"login_url,omitempty"`
	ClientID    string `yaml:"client_id,omitempty"`
	KeyFile     string `yaml:"key_file,omitempty"`
}
