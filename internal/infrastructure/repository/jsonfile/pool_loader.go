package jsonfile

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/squad-builder/internal/domain/player"
	"gopkg.in/yaml.v3"
)

var ErrInvalidPoolFile = crerr.New("invalid pool file")

type poolFile struct {
	Countries []countryRecord `json:"countries" yaml:"countries" validate:"required,min=1,dive"`
}

type countryRecord struct {
	Name    string         `json:"name" yaml:"name" validate:"required"`
	Players []playerRecord `json:"players" yaml:"players" validate:"min=1,dive"`
}

type playerRecord struct {
	ID       int64  `json:"id" yaml:"id" validate:"required,gt=0"`
	Name     string `json:"name" yaml:"name" validate:"required"`
	Position string `json:"position" yaml:"position" validate:"required,oneof=Goalkeeper Defender Midfielder Forward"`
}

// Loader reads candidate pools stored as JSON or YAML documents.
type Loader struct {
	validator *validator.Validate
}

func NewLoader() *Loader {
	return &Loader{validator: validator.New()}
}

func (l *Loader) LoadFile(path string) (player.Pool, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return player.Pool{}, crerr.New("pool file path is required")
	}

	f, err := os.Open(path)
	if err != nil {
		return player.Pool{}, crerr.Wrapf(err, "open pool file %q", path)
	}
	defer f.Close()

	load := l.Load
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		load = l.LoadYAML
	}

	pool, err := load(f)
	if err != nil {
		return player.Pool{}, crerr.Wrapf(err, "load pool file %q", path)
	}

	return pool, nil
}

func (l *Loader) Load(r io.Reader) (player.Pool, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return player.Pool{}, crerr.Wrap(err, "read pool payload")
	}

	var doc poolFile
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return player.Pool{}, crerr.Wrapf(ErrInvalidPoolFile, "decode json: %v", err)
	}

	return l.build(doc)
}

func (l *Loader) LoadYAML(r io.Reader) (player.Pool, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc poolFile
	if err := dec.Decode(&doc); err != nil {
		return player.Pool{}, crerr.Wrapf(ErrInvalidPoolFile, "decode yaml: %v", err)
	}

	return l.build(doc)
}

func (l *Loader) build(doc poolFile) (player.Pool, error) {
	if err := l.validator.Struct(doc); err != nil {
		return player.Pool{}, crerr.Wrapf(ErrInvalidPoolFile, "validate records: %v", err)
	}

	pool := toPool(doc)
	if err := pool.Validate(); err != nil {
		return player.Pool{}, crerr.Wrap(err, "validate pool")
	}

	return pool, nil
}

func toPool(doc poolFile) player.Pool {
	pool := player.Pool{Countries: make([]player.Country, 0, len(doc.Countries))}
	for _, c := range doc.Countries {
		country := player.Country{
			Name:    strings.TrimSpace(c.Name),
			Players: make([]player.Player, 0, len(c.Players)),
		}
		for _, p := range c.Players {
			country.Players = append(country.Players, player.Player{
				ID:       p.ID,
				Name:     strings.TrimSpace(p.Name),
				Position: player.Position(p.Position),
			})
		}
		pool.Countries = append(pool.Countries, country)
	}

	return pool
}
