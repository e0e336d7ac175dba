package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/indigo-web/hostd/http/mime"
	json "github.com/json-iterator/go"
)

// jsonDocument mirrors the property names of the properties files. Zero values keep
// the defaults.
type jsonDocument struct {
	Address        string            `json:"address"`
	Port           uint16            `json:"port"`
	Backlog        int               `json:"countMaxConnections"`
	ReadTimeout    string            `json:"readTimeout"`
	MaxConnections int               `json:"maxConnections"`
	Root           string            `json:"rootPathDocuments"`
	TreeURI        string            `json:"treeDocumentsURI"`
	TreeEnabled    *bool             `json:"treeDocumentsEnable"`
	Realm          string            `json:"authRealm"`
	SSIMaxDepth    int               `json:"ssiMaxDepth"`
	Interpreter    string            `json:"phpInterpreter"`
	ExecTimeout    string            `json:"execTimeout"`
	ContentTypes   map[string]string `json:"contentTypes"`
	Hosts          map[string]string `json:"hosts"`
}

// LoadJSON reads the whole configuration from a single JSON file.
func LoadJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	return ParseJSON(data)
}

// ParseJSON builds a configuration from the JSON document, applied on top of Default().
func ParseJSON(data []byte) (*Config, error) {
	var doc jsonDocument
	if err := json.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse json config: %w", err)
	}

	cfg := Default()
	setString(&cfg.NET.Address, doc.Address)
	setString(&cfg.Documents.Root, doc.Root)
	setString(&cfg.Documents.TreeURI, doc.TreeURI)
	setString(&cfg.Documents.Realm, doc.Realm)
	setString(&cfg.Exec.Interpreter, doc.Interpreter)

	if doc.Port != 0 {
		cfg.NET.Port = doc.Port
	}

	if doc.Backlog > 0 {
		cfg.NET.Backlog = doc.Backlog
	}

	if doc.MaxConnections > 0 {
		cfg.NET.MaxConnections = doc.MaxConnections
	}

	if doc.SSIMaxDepth > 0 {
		cfg.SSI.MaxDepth = doc.SSIMaxDepth
	}

	if doc.TreeEnabled != nil {
		cfg.Documents.TreeEnabled = *doc.TreeEnabled
	}

	var err error
	if cfg.NET.ReadTimeout, err = durationOr(doc.ReadTimeout, cfg.NET.ReadTimeout); err != nil {
		return nil, fmt.Errorf("readTimeout: %w", err)
	}

	if cfg.Exec.Timeout, err = durationOr(doc.ExecTimeout, cfg.Exec.Timeout); err != nil {
		return nil, fmt.Errorf("execTimeout: %w", err)
	}

	if len(doc.ContentTypes) > 0 {
		cfg.ContentTypes = make(mime.Table, len(doc.ContentTypes))
		for ext, contentType := range doc.ContentTypes {
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}

			cfg.ContentTypes[strings.ToLower(ext)] = contentType
		}
	}

	for host, root := range doc.Hosts {
		cfg.Hosts[strings.ToLower(host)] = root
	}

	return cfg, nil
}

func setString(dst *string, value string) {
	if len(value) > 0 {
		*dst = value
	}
}

func durationOr(value string, or time.Duration) (time.Duration, error) {
	if len(value) == 0 {
		return or, nil
	}

	return time.ParseDuration(value)
}
