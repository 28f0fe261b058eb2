// Package config loads policy declarations from YAML documents.
//
//	expression: expr
//	include:
//	  blog/post: IsPublished
//	  blog/comment: "object.Approved && !object.Spam"
//	  shop/product: ['@moderation', Check]
//	update:
//	  blog/post: "object.Dirty"
//	services:
//	  moderation:
//	    url: http://localhost:9090
//	    token_env: MODERATION_TOKEN
//	    timeout: 2s
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Expression engine names accepted in the expression field.
const (
	EngineExpr  = "expr"
	EngineCedar = "cedar"
	EngineNone  = "none"
)

// KeySeparator joins index and type names into a type key.
const KeySeparator = "/"

// Config is a parsed policy document.
type Config struct {
	Expression string                   `yaml:"expression"`
	Include    map[string]any           `yaml:"include"`
	Update     map[string]any           `yaml:"update"`
	Services   map[string]ServiceConfig `yaml:"services"`
}

// ServiceConfig describes a remote policy service.
type ServiceConfig struct {
	URL      string        `yaml:"url"`
	TokenEnv string        `yaml:"token_env"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Token reads the service token from the configured environment variable.
func (s ServiceConfig) Token() string {
	if s.TokenEnv == "" {
		return ""
	}
	return os.Getenv(s.TokenEnv)
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a policy document. Unknown fields are
// rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Expression == "" {
		cfg.Expression = EngineExpr
	}
	switch cfg.Expression {
	case EngineExpr, EngineCedar, EngineNone:
	default:
		return nil, fmt.Errorf("unknown expression engine %q (want %s, %s or %s)", cfg.Expression, EngineExpr, EngineCedar, EngineNone)
	}

	var err error
	if cfg.Include, err = normalize("include", cfg.Include); err != nil {
		return nil, err
	}
	if cfg.Update, err = normalize("update", cfg.Update); err != nil {
		return nil, err
	}
	for name, svc := range cfg.Services {
		if svc.URL == "" {
			return nil, fmt.Errorf("service %q: url is required", name)
		}
	}
	return &cfg, nil
}

// normalize checks type keys and turns YAML sequences into []string, the
// shape service references are classified from.
func normalize(section string, table map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(table))
	for key, raw := range table {
		if err := checkKey(key); err != nil {
			return nil, fmt.Errorf("%s: %w", section, err)
		}
		switch v := raw.(type) {
		case string:
			out[key] = v
		case []any:
			seq := make([]string, len(v))
			for i, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("%s.%s: element %d must be a string, got %T", section, key, i, item)
				}
				seq[i] = s
			}
			out[key] = seq
		case nil:
		default:
			return nil, fmt.Errorf("%s.%s: policy must be a string or a list, got %T", section, key, raw)
		}
	}
	return out, nil
}

func checkKey(key string) error {
	index, typ, ok := strings.Cut(key, KeySeparator)
	if !ok || index == "" || typ == "" || strings.Contains(typ, KeySeparator) {
		return fmt.Errorf("type key %q must be <index>%s<type>", key, KeySeparator)
	}
	return nil
}
