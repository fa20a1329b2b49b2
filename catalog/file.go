package catalog

import (
	"fmt"
	"strings"

	"order-entry/models"

	"github.com/spf13/viper"
)

type catalogFile struct {
	Accessories []models.Accessory `mapstructure:"accessories"`
}

// LoadFile 从 YAML/JSON/TOML 文件读取配件目录
//
//	accessories:
//	  - name: Floor Mat
//	    partNo: "0801AAF00361N"
func LoadFile(path string) ([]models.Accessory, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var f catalogFile
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}

	out := make([]models.Accessory, 0, len(f.Accessories))
	seen := make(map[string]bool, len(f.Accessories))
	for _, acc := range f.Accessories {
		name := strings.TrimSpace(acc.Name)
		if name == "" || name == CustomSentinel {
			return nil, fmt.Errorf("catalog %s: invalid accessory name %q", path, acc.Name)
		}
		if seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true
		out = append(out, models.Accessory{Name: name, PartNo: strings.TrimSpace(acc.PartNo)})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("catalog %s has no accessories", path)
	}
	return out, nil
}
