package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// 一覧に並べる講座
type Course struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Author   string `yaml:"author"`
	Price    string `yaml:"price"`
	OldPrice string `yaml:"old_price"`
	Image    string `yaml:"image"`
}

type Catalog struct {
	Courses []Course `yaml:"courses"`
}

// pathが空なら同梱のカタログを使う
func Load(path string) (Catalog, error) {
	data := defaultCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Catalog{}, fmt.Errorf("read catalog %s: %w", path, err)
		}
		data = b
	}
	return Parse(data)
}

func Parse(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.Courses) == 0 {
		return Catalog{}, errors.New("catalog has no courses")
	}
	return c, nil
}
