package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/gatehouse/config"
	ConfigFileName    = "gatehouse.yml"
)

// ValidStrategies is the list of valid authentication strategy names
var ValidStrategies = []string{"token", "apikey", "jwt"}

// StaticUser is a principal provisioned directly from the configuration
// file, served by the in-memory directory when no database is configured.
type StaticUser struct {
	Login      string   `yaml:"login" json:"login"`
	APIKey     string   `yaml:"api_key" json:"api_key"`
	SecretHash string   `yaml:"secret_hash" json:"secret_hash"`
	Roles      []string `yaml:"roles" json:"roles"`
}

// Config holds all Gatehouse configuration settings
type Config struct {
	// BindAddress is the address the server listens on
	BindAddress string `yaml:"bind_address" json:"bind_address"`

	// Port is the server listen port
	Port int `yaml:"port" json:"port"`

	// TokenHeader is the request header carrying API tokens
	TokenHeader string `yaml:"token_header" json:"token_header"`

	// Strategies is the list of enabled authentication strategies
	Strategies []string `yaml:"strategies" json:"strategies"`

	// EntryPoint is the strategy that produces the challenge response
	EntryPoint string `yaml:"entry_point" json:"entry_point"`

	// JWTSigningKey is the HMAC key for the jwt strategy
	JWTSigningKey string `yaml:"jwt_signing_key" json:"jwt_signing_key"`

	// JWTIssuer is the expected issuer claim for the jwt strategy
	JWTIssuer string `yaml:"jwt_issuer" json:"jwt_issuer"`

	// TrustedProxies is a list of CIDR ranges for trusted proxies
	TrustedProxies []string `yaml:"trusted_proxies" json:"trusted_proxies"`

	// Users are statically provisioned principals for the memory directory
	Users []StaticUser `yaml:"users" json:"users"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *Config
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *Config {
	return &Config{
		BindAddress:    "0.0.0.0",
		Port:           8000,
		TokenHeader:    "X-AUTH-TOKEN",
		Strategies:     []string{"token"},
		EntryPoint:     "token",
		TrustedProxies: []string{},
		sources:        make(map[string]string),
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("GATEHOUSE_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig Config
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"bind_address", "port", "token_header", "strategies", "entry_point",
		"jwt_signing_key", "jwt_issuer", "trusted_proxies", "users",
	}
}

func (c *Config) applyFileConfig(file *Config) {
	if file.BindAddress != "" {
		c.BindAddress = file.BindAddress
		c.sources["bind_address"] = "file"
	}
	if file.Port != 0 {
		c.Port = file.Port
		c.sources["port"] = "file"
	}
	if file.TokenHeader != "" {
		c.TokenHeader = file.TokenHeader
		c.sources["token_header"] = "file"
	}
	if len(file.Strategies) > 0 {
		c.Strategies = file.Strategies
		c.sources["strategies"] = "file"
	}
	if file.EntryPoint != "" {
		c.EntryPoint = file.EntryPoint
		c.sources["entry_point"] = "file"
	}
	if file.JWTSigningKey != "" {
		c.JWTSigningKey = file.JWTSigningKey
		c.sources["jwt_signing_key"] = "file"
	}
	if file.JWTIssuer != "" {
		c.JWTIssuer = file.JWTIssuer
		c.sources["jwt_issuer"] = "file"
	}
	if len(file.TrustedProxies) > 0 {
		c.TrustedProxies = file.TrustedProxies
		c.sources["trusted_proxies"] = "file"
	}
	if len(file.Users) > 0 {
		c.Users = file.Users
		c.sources["users"] = "file"
	}
}

func (c *Config) applyEnvConfig() {
	if val := os.Getenv("GATEHOUSE_BIND_ADDRESS"); val != "" {
		c.BindAddress = val
		c.sources["bind_address"] = "environment"
	}
	if val := os.Getenv("GATEHOUSE_PORT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.Port = i
			c.sources["port"] = "environment"
		}
	}
	if val := os.Getenv("GATEHOUSE_TOKEN_HEADER"); val != "" {
		c.TokenHeader = val
		c.sources["token_header"] = "environment"
	}
	if val := os.Getenv("GATEHOUSE_STRATEGIES"); val != "" {
		c.Strategies = splitAndTrim(val)
		c.sources["strategies"] = "environment"
	}
	if val := os.Getenv("GATEHOUSE_ENTRY_POINT"); val != "" {
		c.EntryPoint = val
		c.sources["entry_point"] = "environment"
	}
	if val := os.Getenv("GATEHOUSE_JWT_SIGNING_KEY"); val != "" {
		c.JWTSigningKey = val
		c.sources["jwt_signing_key"] = "environment"
	}
	if val := os.Getenv("GATEHOUSE_JWT_ISSUER"); val != "" {
		c.JWTIssuer = val
		c.sources["jwt_issuer"] = "environment"
	}
	if val := os.Getenv("GATEHOUSE_TRUSTED_PROXIES"); val != "" {
		c.TrustedProxies = splitAndTrim(val)
		c.sources["trusted_proxies"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// IsStrategyEnabled checks if a strategy is enabled
func (c *Config) IsStrategyEnabled(name string) bool {
	for _, s := range c.Strategies {
		if s == name {
			return true
		}
	}
	return false
}

// IsTrustedProxy checks if an IP is from a trusted proxy
func (c *Config) IsTrustedProxy(ip string) bool {
	if len(c.TrustedProxies) == 0 {
		return false
	}

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}

	for _, cidr := range c.TrustedProxies {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			// Try as plain IP
			if net.ParseIP(cidr) != nil && cidr == ip {
				return true
			}
			continue
		}
		if network.Contains(parsedIP) {
			return true
		}
	}
	return false
}

// Validate validates the configuration
func (c *Config) Validate() error {
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			if net.ParseIP(cidr) == nil {
				return fmt.Errorf("invalid trusted_proxies value: %s", cidr)
			}
		}
	}

	validStrategies := make(map[string]bool)
	for _, s := range ValidStrategies {
		validStrategies[s] = true
	}
	for _, s := range c.Strategies {
		if !validStrategies[s] {
			return fmt.Errorf("invalid strategy name: %s", s)
		}
	}
	if c.EntryPoint != "" && !validStrategies[c.EntryPoint] {
		return fmt.Errorf("invalid entry_point: %s", c.EntryPoint)
	}

	if c.IsStrategyEnabled("jwt") && c.JWTSigningKey == "" {
		return fmt.Errorf("jwt strategy requires jwt_signing_key")
	}

	for _, u := range c.Users {
		if u.Login == "" {
			return fmt.Errorf("static user is missing a login")
		}
	}

	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *Config) Attributes() []Attribute {
	return []Attribute{
		{Name: "bind_address", Value: c.BindAddress, Source: c.Source("bind_address")},
		{Name: "port", Value: strconv.Itoa(c.Port), Source: c.Source("port")},
		{Name: "token_header", Value: c.TokenHeader, Source: c.Source("token_header")},
		{Name: "strategies", Value: strings.Join(c.Strategies, ","), Source: c.Source("strategies")},
		{Name: "entry_point", Value: c.EntryPoint, Source: c.Source("entry_point")},
		{Name: "jwt_signing_key", Value: maskSecret(c.JWTSigningKey), Source: c.Source("jwt_signing_key")},
		{Name: "jwt_issuer", Value: c.JWTIssuer, Source: c.Source("jwt_issuer")},
		{Name: "trusted_proxies", Value: strings.Join(c.TrustedProxies, ","), Source: c.Source("trusted_proxies")},
		{Name: "users", Value: strconv.Itoa(len(c.Users)) + " provisioned", Source: c.Source("users")},
	}
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-20s %-40s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-20s %-40s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-20s %-40s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *Config) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// maskSecret hides secret values in attribute listings
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
