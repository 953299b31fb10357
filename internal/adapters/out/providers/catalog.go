package providers

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog addresses every provider the service integrates with.
//
// Example providers.yaml:
//
//	silpo:
//	  base_url: http://silpo:8001
//	  timeout: 5s
//	kfc:
//	  base_url: http://kfc:8002
//	uklon:
//	  base_url: http://uklon:8003
//	  timeout: 15s
type Catalog struct {
	Silpo Config `yaml:"silpo"`
	KFC   Config `yaml:"kfc"`
	Uklon Config `yaml:"uklon"`
}

// LoadCatalog reads a yaml catalog. Providers missing from the file keep the
// values of defaults.
func LoadCatalog(path string, defaults Catalog) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read provider catalog: %w", err)
	}

	catalog := defaults
	if err = yaml.Unmarshal(data, &catalog); err != nil {
		return Catalog{}, fmt.Errorf("parse provider catalog %s: %w", path, err)
	}
	return catalog, nil
}

// Validate requires a base URL for every provider.
func (c Catalog) Validate() error {
	for name, cfg := range map[string]Config{"silpo": c.Silpo, "kfc": c.KFC, "uklon": c.Uklon} {
		if cfg.BaseURL == "" {
			return fmt.Errorf("provider %s: base_url is required", name)
		}
	}
	return nil
}
