package config

import (
	"fmt"
	"strings"
)

type Storage struct {
	Driver     StorageDriver `env:"STORAGE_DRIVER" envDefault:"POSTGRES"`
	SQLitePath string        `env:"STORAGE_SQLITE_PATH" envDefault:"inventory.db"`
	Seed       bool          `env:"STORAGE_SEED" envDefault:"false"`
}

// StorageDriver selects the product store backing the service.
type StorageDriver uint8

const (
	StorageDriverPostgres StorageDriver = iota
	StorageDriverSQLite
	StorageDriverMemory
)

func (d StorageDriver) String() string {
	switch d {
	case StorageDriverPostgres:
		return "POSTGRES"
	case StorageDriverSQLite:
		return "SQLITE"
	case StorageDriverMemory:
		return "MEMORY"
	default:
		return "UNKNOWN"
	}
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *StorageDriver) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "POSTGRES":
		*d = StorageDriverPostgres
	case "SQLITE":
		*d = StorageDriverSQLite
	case "MEMORY":
		*d = StorageDriverMemory
	default:
		return fmt.Errorf("unknown storage driver: %s", text)
	}
	return nil
}

func (d StorageDriver) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
