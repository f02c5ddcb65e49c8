package accounts

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"moneyman/internal/core"
)

// DefaultSeeds are inserted when the collection is empty and no seed file
// is configured.
func DefaultSeeds() []core.Credentials {
	return []core.Credentials{
		{Username: "udiboy", Password: "password", Currency: "₹"},
		{Username: "himani", Password: "password", Currency: "$"},
	}
}

type seedFile struct {
	Users []core.Credentials `yaml:"users"`
}

// LoadSeeds reads seed accounts from a YAML file of the form
//
//	users:
//	  - username: udiboy
//	    password: password
//	    currency: "₹"
//
// An empty path returns DefaultSeeds.
func LoadSeeds(path string) ([]core.Credentials, error) {
	if path == "" {
		return DefaultSeeds(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	for i, u := range f.Users {
		if u.Username == "" {
			return nil, fmt.Errorf("seed file %s: user %d has no username", path, i)
		}
	}
	return f.Users, nil
}
