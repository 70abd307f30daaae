// Package config resolves the effective settings for one process lifetime.
// Precedence, low to high: built-in defaults < config file (JSON or TOML) <
// environment variables. Each key is resolved independently, so a file can
// set SHEET_ID while an env var overrides only CACHE_FILE.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Settings is the resolved, immutable configuration. It is built once at
// startup and handed to collaborators; nothing mutates it afterwards.
type Settings struct {
	TemplatePath  string
	SheetID       string
	SheetName     string
	CacheFile     string
	DisciplineCol int

	Port              int
	DevMode           bool
	DataDir           string
	SchemaVersion     string
	DefaultDiscipline string
	SummaryProvider   string
	SummaryModel      string
}

// Info records which keys were explicitly present in the file or the
// environment. Command-line flags only apply to keys that were not.
type Info struct {
	Explicit map[string]bool
}

// defaults match the deployed worksheet.
func defaults() *Settings {
	return &Settings{
		TemplatePath:      "Site_Daily_report_Template_Date.docx",
		SheetID:           "1t6Bmm3YN7mAovNM3iT7oMGeXG3giDONSejJ9gUbUeCI",
		SheetName:         "Reports",
		CacheFile:         "offline_cache.json",
		DisciplineCol:     11,
		Port:              8990,
		DevMode:           false,
		DataDir:           "data",
		SchemaVersion:     "current",
		DefaultDiscipline: "Electrical",
		SummaryProvider:   "hf",
		SummaryModel:      "facebook/bart-large-cnn",
	}
}

// Load resolves settings using the real filesystem and environment.
func Load() (*Settings, Info, error) {
	fileVals, err := loadConfigFile()
	if err != nil {
		return nil, Info{}, err
	}
	return resolve(fileVals, os.Getenv)
}

// loadConfigFile locates and parses the config file. Lookup order: the path
// in APP_CONFIG, then config.json and config.toml next to the executable.
// A missing file is not an error; a file that exists but fails to parse is.
func loadConfigFile() (map[string]any, error) {
	var candidates []string
	if p := os.Getenv("APP_CONFIG"); p != "" {
		candidates = append(candidates, p)
	}
	dir, err := exeDir()
	if err != nil {
		dir = "."
	}
	candidates = append(candidates,
		filepath.Join(dir, "config.json"),
		filepath.Join(dir, "config.toml"),
	)

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		return parseConfigFile(path, data)
	}
	return nil, nil
}

func parseConfigFile(path string, data []byte) (map[string]any, error) {
	vals := map[string]any{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		dec := json.NewDecoder(strings.NewReader(string(data)))
		dec.UseNumber()
		if err := dec.Decode(&vals); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml", ".tml":
		if err := toml.Unmarshal(data, &vals); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file type: %s", path)
	}
	return vals, nil
}

// resolve layers defaults, file values and environment variables per key.
func resolve(fileVals map[string]any, getenv func(string) string) (*Settings, Info, error) {
	s := defaults()
	info := Info{Explicit: map[string]bool{}}

	r := resolver{fileVals: fileVals, getenv: getenv, explicit: info.Explicit}

	r.str("TEMPLATE_PATH", &s.TemplatePath)
	r.str("SHEET_ID", &s.SheetID)
	r.str("SHEET_NAME", &s.SheetName)
	r.str("CACHE_FILE", &s.CacheFile)
	r.num("DISCIPLINE_COL", &s.DisciplineCol)
	r.num("PORT", &s.Port)
	r.boolean("DEV_MODE", &s.DevMode)
	r.str("DATA_DIR", &s.DataDir)
	r.str("SCHEMA_VERSION", &s.SchemaVersion)
	r.str("DEFAULT_DISCIPLINE", &s.DefaultDiscipline)
	r.str("SUMMARY_PROVIDER", &s.SummaryProvider)
	r.str("SUMMARY_MODEL", &s.SummaryModel)

	if r.err != nil {
		return nil, Info{}, r.err
	}
	return s, info, nil
}

// resolver applies env-over-file-over-default resolution for one key at a
// time, recording the first coercion error it hits.
type resolver struct {
	fileVals map[string]any
	getenv   func(string) string
	explicit map[string]bool
	err      error
}

func (r *resolver) lookup(key string) (any, bool) {
	if v := r.getenv(key); v != "" {
		return v, true
	}
	if r.fileVals != nil {
		if v, ok := r.fileVals[key]; ok {
			return v, true
		}
	}
	return nil, false
}

func (r *resolver) str(key string, dst *string) {
	v, ok := r.lookup(key)
	if !ok {
		return
	}
	r.explicit[key] = true
	*dst = fmt.Sprintf("%v", v)
}

// num accepts both quoted and bare numbers: env vars are always strings and
// the file may carry either form.
func (r *resolver) num(key string, dst *int) {
	v, ok := r.lookup(key)
	if !ok {
		return
	}
	r.explicit[key] = true
	switch n := v.(type) {
	case int:
		*dst = n
	case int64:
		*dst = int(n)
	case float64:
		*dst = int(n)
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			r.fail(key, v, err)
			return
		}
		*dst = int(i)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			r.fail(key, v, err)
			return
		}
		*dst = i
	default:
		r.fail(key, v, fmt.Errorf("unsupported type %T", v))
	}
}

func (r *resolver) boolean(key string, dst *bool) {
	v, ok := r.lookup(key)
	if !ok {
		return
	}
	r.explicit[key] = true
	switch b := v.(type) {
	case bool:
		*dst = b
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			r.fail(key, v, err)
			return
		}
		*dst = parsed
	default:
		r.fail(key, v, fmt.Errorf("unsupported type %T", v))
	}
}

func (r *resolver) fail(key string, v any, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("config key %s: invalid value %v: %w", key, v, err)
	}
}

// exeDir returns the directory holding the running binary; the config file
// and data directory live next to it.
func exeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// CachePath resolves the cache file location. Absolute paths are used as-is;
// relative paths land in the data directory.
func (s *Settings) CachePath() string {
	if filepath.IsAbs(s.CacheFile) {
		return s.CacheFile
	}
	return filepath.Join(s.DataDir, s.CacheFile)
}

// EnsureDataDir creates the data directory and its subdirectories.
func EnsureDataDir(s *Settings) (string, error) {
	if err := os.MkdirAll(s.DataDir, 0755); err != nil {
		return "", err
	}
	for _, sub := range []string{"exports", "uploads"} {
		if err := os.MkdirAll(filepath.Join(s.DataDir, sub), 0755); err != nil {
			return "", err
		}
	}
	return s.DataDir, nil
}
