package contest

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/paiv/icfpc2023/pkg/errors"
)

// DefaultCredentialsFile is looked up in the working directory.
const DefaultCredentialsFile = ".env"

type credentialsFile struct {
	Headers map[string]string `toml:"headers"`
}

// LoadCredentials reads request headers from the [headers] table of a TOML
// file. A missing file yields no headers and no error, so anonymous CDN
// fetches keep working.
func LoadCredentials(path string) (map[string]string, error) {
	if path == "" {
		path = DefaultCredentialsFile
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var f credentialsFile
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "credentials %s", path)
	}
	for name := range f.Headers {
		if err := errors.ValidateHeaderName(name); err != nil {
			return nil, fmt.Errorf("credentials %s: %w", path, err)
		}
	}
	return f.Headers, nil
}
