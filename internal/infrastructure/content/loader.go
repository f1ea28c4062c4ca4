// Package content loads the firm's content catalog from YAML.
package content

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/content"
	"github.com/spf13/viper"
)

// LoadCatalog reads and validates the catalog at path.
// A missing file yields an empty catalog; a malformed one is an error.
func LoadCatalog(path string) (*content.Catalog, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &content.Catalog{}, nil
		}
		return nil, fmt.Errorf("failed to stat content file: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading content file %s: %w", path, err)
	}

	var catalog content.Catalog
	if err := v.Unmarshal(&catalog); err != nil {
		return nil, fmt.Errorf("error decoding content file %s: %w", path, err)
	}
	if err := catalog.Prepare(); err != nil {
		return nil, fmt.Errorf("invalid content file %s: %w", path, err)
	}
	return &catalog, nil
}
