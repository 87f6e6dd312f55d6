package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/tablefactory/pkg/errors"
)

// Load reads the YAML file at filePath into out, substituting environment
// variables first.
func Load(filePath string, out interface{}) error {
	data, err := os.ReadFile(filePath) //nolint:gosec // G304: path comes from the operator
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to read config file").
			WithDetail("file", filePath)
	}
	return Decode(data, out)
}

// Decode substitutes environment variables in data and unmarshals it into out.
func Decode(data []byte, out interface{}) error {
	content := substituteEnvVars(string(data))
	if err := yaml.Unmarshal([]byte(content), out); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to parse YAML")
	}
	return nil
}

// substituteEnvVars replaces ${NAME} and ${NAME:-fallback}. An unterminated
// reference is left as is.
func substituteEnvVars(content string) string {
	var b strings.Builder
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		b.WriteString(content[:start])
		b.WriteString(expand(content[start+2 : end]))
		content = content[end+1:]
	}
	b.WriteString(content)
	return b.String()
}

func expand(ref string) string {
	name, fallback, hasFallback := strings.Cut(ref, ":-")
	value := os.Getenv(name)
	if value == "" && hasFallback {
		return fallback
	}
	return value
}
