package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"
)

// LocaleFS — встроенные каталоги, по файлу locales/<язык>.json.
//
//go:embed locales/*.json
var LocaleFS embed.FS

// Load собирает Bundle из всех каталогов LocaleFS.
func Load(logger *slog.Logger) (*Bundle, error) {
	files, err := fs.Glob(LocaleFS, "locales/*.json")
	if err != nil {
		return nil, fmt.Errorf("i18n: %w", err)
	}

	sources := make(map[string][]byte, len(files))
	for _, file := range files {
		data, err := LocaleFS.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("i18n: не удалось прочитать %s: %w", file, err)
		}
		sources[strings.TrimSuffix(path.Base(file), ".json")] = data
	}

	bundle, err := NewBundle(sources)
	if err != nil {
		return nil, err
	}

	logger.Info("i18n каталоги загружены", slog.Any("languages", bundle.Languages()))
	return bundle, nil
}
