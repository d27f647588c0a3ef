package config

import "errors"

type StorageConfig struct {
	DBPath string
}

func (sc *StorageConfig) Load() error {
	sc.DBPath = getEnvOrDefault("DB_PATH", "./data/vault-engine.db")
	return sc.Validate()
}

func (sc *StorageConfig) Validate() error {
	if sc.DBPath == "" {
		return errors.New("invalid storage config")
	}
	return nil
}
