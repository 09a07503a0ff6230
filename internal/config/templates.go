package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "service":
		return serviceTemplate, nil
	case "embedded":
		return embeddedTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const serviceTemplate = `[server]
name = "ndefd"
addr = ":9300"
cors_origins = ["http://localhost:3000"]

[limits]
fixed = false

[store]
enabled = true
path = "local/messages"

[log]
level = "info"
`

const embeddedTemplate = `[server]
name = "ndefd-embedded"
addr = "127.0.0.1:9301"

[limits]
fixed = true
max_records = 8
max_message_bytes = 256
max_payload_bytes = 256

[store]
enabled = false

[log]
level = "warn"
`
