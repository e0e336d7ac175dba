package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	beego "github.com/astaxie/beego/config"
	"github.com/indigo-web/hostd/http/mime"
)

const (
	ConfigurationFile = "configuration.properties"
	ContentTypesFile  = "content_types.properties"
	HostsFile         = "hosts.properties"

	// beego puts keys outside any [section] into this one
	defaultSection = "default"
)

var ErrMissingProperty = errors.New("configuration property is missing")

// Properties is a flat key/value store read from a properties file. Keys are
// case-insensitive.
type Properties struct {
	source string
	values map[string]string
}

// LoadProperties parses a properties file.
func LoadProperties(path string) (*Properties, error) {
	configer, err := beego.NewConfig("ini", path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	values, err := configer.GetSection(defaultSection)
	if err != nil {
		// the file holds no single key
		values = make(map[string]string)
	}

	return &Properties{
		source: path,
		values: values,
	}, nil
}

// Property returns the value of a mandatory property.
func (p *Properties) Property(name string) (string, error) {
	value, found := p.values[strings.ToLower(name)]
	if !found {
		return "", fmt.Errorf("%w: %s in %s", ErrMissingProperty, name, p.source)
	}

	return value, nil
}

func (p *Properties) Int(name string) (int, error) {
	value, err := p.Property(name)
	if err != nil {
		return 0, err
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("property %s: %w", name, err)
	}

	return n, nil
}

func (p *Properties) Bool(name string) (bool, error) {
	value, err := p.Property(name)
	if err != nil {
		return false, err
	}

	b, err := beego.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("property %s: %w", name, err)
	}

	return b, nil
}

// Duration accepts either Go duration syntax (1m30s) or a plain number of seconds.
func (p *Properties) Duration(name string) (time.Duration, error) {
	value, err := p.Property(name)
	if err != nil {
		return 0, err
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("property %s: %w", name, err)
	}

	return d, nil
}

// Map returns a copy of every key/value pair.
func (p *Properties) Map() map[string]string {
	m := make(map[string]string, len(p.values))
	for key, value := range p.values {
		m[key] = value
	}

	return m
}

// Load reads the configuration directory: the server configuration, the content-types table
// and the host aliases. Keys absent from the configuration file, except those listed as
// mandatory, keep their default values.
func Load(dir string) (*Config, error) {
	props, err := LoadProperties(filepath.Join(dir, ConfigurationFile))
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err = props.apply(cfg); err != nil {
		return nil, err
	}

	types, err := LoadProperties(filepath.Join(dir, ContentTypesFile))
	if err != nil {
		return nil, err
	}

	cfg.ContentTypes = make(mime.Table)
	for ext, contentType := range types.Map() {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}

		cfg.ContentTypes[ext] = contentType
	}

	hosts, err := LoadProperties(filepath.Join(dir, HostsFile))
	if err != nil {
		return nil, err
	}

	cfg.Hosts = hosts.Map()

	return cfg, nil
}

func (p *Properties) apply(cfg *Config) (err error) {
	if cfg.NET.Address, err = p.Property("address"); err != nil {
		return err
	}

	port, err := p.Int("port")
	if err != nil {
		return err
	}

	if port <= 0 || port > 65535 {
		return fmt.Errorf("property port: %d is out of range", port)
	}

	cfg.NET.Port = uint16(port)

	if cfg.NET.Backlog, err = p.Int("countMaxConnections"); err != nil {
		return err
	}

	if cfg.Documents.Root, err = p.Property("rootPathDocuments"); err != nil {
		return err
	}

	if cfg.Documents.TreeURI, err = p.Property("treeDocumentsURI"); err != nil {
		return err
	}

	if cfg.Documents.TreeEnabled, err = p.Bool("treeDocumentsEnable"); err != nil {
		return err
	}

	return p.applyOptional(cfg)
}

func (p *Properties) applyOptional(cfg *Config) (err error) {
	optional := func(name string, apply func() error) {
		if err != nil {
			return
		}

		if _, found := p.values[strings.ToLower(name)]; found {
			err = apply()
		}
	}

	optional("readTimeout", func() (err error) {
		cfg.NET.ReadTimeout, err = p.Duration("readTimeout")
		return err
	})
	optional("maxConnections", func() (err error) {
		cfg.NET.MaxConnections, err = p.Int("maxConnections")
		return err
	})
	optional("authRealm", func() (err error) {
		cfg.Documents.Realm, err = p.Property("authRealm")
		return err
	})
	optional("ssiMaxDepth", func() (err error) {
		cfg.SSI.MaxDepth, err = p.Int("ssiMaxDepth")
		return err
	})
	optional("phpInterpreter", func() (err error) {
		cfg.Exec.Interpreter, err = p.Property("phpInterpreter")
		return err
	})
	optional("execTimeout", func() (err error) {
		cfg.Exec.Timeout, err = p.Duration("execTimeout")
		return err
	})

	return err
}
