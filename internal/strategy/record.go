package strategy

import (
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/dionysus/internal/types"
	"github.com/rxtech-lab/dionysus/internal/version"
	"github.com/rxtech-lab/dionysus/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Record is the persisted form of an agent: its token and strategy. Capital,
// positions and orders are never persisted.
type Record struct {
	Version  string      `yaml:"version" json:"version" jsonschema:"required,description=Version of dionysus that wrote the record" validate:"required"`
	Token    types.Token `yaml:"token" json:"token" jsonschema:"required"`
	Strategy Strategy    `yaml:"strategy" json:"strategy" jsonschema:"required"`
}

// NewRecord stamps a record with the running version.
func NewRecord(token types.Token, strategy Strategy) Record {
	return Record{Version: version.GetVersion(), Token: token, Strategy: strategy}
}

// Validate checks the record fields and its strategy.
func (r Record) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "invalid record", err)
	}

	return r.Strategy.Validate()
}

// WriteRecords encodes records as a YAML sequence.
func WriteRecords(w io.Writer, records []Record) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(records); err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "failed to encode records", err)
	}

	return encoder.Close()
}

// ReadRecords decodes a YAML sequence of records, rejecting records written by
// an incompatible version.
func ReadRecords(r io.Reader) ([]Record, error) {
	var records []Record
	if err := yaml.NewDecoder(r).Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}

		return nil, errors.Wrap(errors.ErrCodeStrategyConfigError, "failed to decode records", err)
	}

	for _, record := range records {
		if err := version.CheckCompatibility(version.GetVersion(), record.Version); err != nil {
			return nil, err
		}

		if err := record.Validate(); err != nil {
			return nil, err
		}
	}

	return records, nil
}

// SaveRecords writes records to a YAML file.
func SaveRecords(path string, records []Record) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeStrategyConfigError, err, "failed to create %s", path)
	}
	defer file.Close()

	return WriteRecords(file, records)
}

// LoadRecords reads records from a YAML file.
func LoadRecords(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeStrategyConfigError, err, "failed to open %s", path)
	}
	defer file.Close()

	return ReadRecords(file)
}
