package schema

import _ "embed"

//go:embed pattoo-config.schema.json
var ConfigSchema []byte
