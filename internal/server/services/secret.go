package services

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// SecretService exposes the staging environment key/value map. The file is
// read lazily once; callers must pass every request through the access gate
// before touching this service.
type SecretService struct {
	path string

	once    sync.Once
	secrets map[string]string
	err     error
}

func NewSecretService(path string) *SecretService {
	return &SecretService{path: path}
}

func (s *SecretService) StagingEnv() (map[string]string, error) {
	s.once.Do(s.load)
	return s.secrets, s.err
}

func (s *SecretService) load() {
	if s.path == "" {
		s.secrets = map[string]string{}
		return
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		s.err = fmt.Errorf("error reading secrets file: %w", err)
		return
	}

	if err := json.Unmarshal(data, &s.secrets); err != nil {
		s.err = fmt.Errorf("error parsing secrets file: %w", err)
	}
}
