package config

import (
	"github.com/invopop/jsonschema"
)

// Every key is optional in a config file, so required-ness only comes from
// explicit jsonschema tags.
var reflector = jsonschema.Reflector{
	AllowAdditionalProperties:  false,
	DoNotReference:             true,
	RequiredFromJSONSchemaTags: true,
}

// Schema describes the config file format as a JSON schema.
func Schema() *jsonschema.Schema {
	s := reflector.Reflect(&Config{})
	s.Title = "trancepoint client configuration"
	return s
}
