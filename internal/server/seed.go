package server

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"labtrack/internal/schema"
)

// seedFile — один YAML-файл каталога: сущность и её записи
type seedFile struct {
	Entity  string          `yaml:"entity"`
	Records []schema.Record `yaml:"records"`
}

// LoadSeed читает все yaml-файлы каталога и сажает записи в хранилище.
// Файлы независимы, порядок загрузки не важен: ссылочную целостность
// сида никто не проверяет, это данные для разработки и тестов.
func LoadSeed(store *Store, reg *schema.Registry, dir string) (int, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, file := range files {
		name := file.Name()
		if file.IsDir() || (!strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml")) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return total, err
		}
		var sf seedFile
		if err := yaml.Unmarshal(data, &sf); err != nil {
			return total, fmt.Errorf("seed %s: %w", name, err)
		}
		entityID := sf.Entity
		if entityID == "" {
			entityID = strings.TrimSuffix(name, filepath.Ext(name))
		}
		if _, err := reg.Lookup(entityID); err != nil {
			return total, fmt.Errorf("seed %s: %w", name, err)
		}
		for _, rec := range sf.Records {
			store.Load(entityID, rec)
			total++
		}
	}
	return total, nil
}
