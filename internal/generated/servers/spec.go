package servers

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/swaggo/swag"
)

//go:embed openapi.yml
var openapiYAML []byte

var (
	swaggerOnce sync.Once
	swaggerDoc  *openapi3.T
	swaggerErr  error
)

// GetSwagger returns the embedded OpenAPI document. Callers may modify the
// returned value; every call loads a fresh copy.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openapiYAML)
	if err != nil {
		return nil, fmt.Errorf("error loading Swagger: %w", err)
	}
	return doc, nil
}

// swaggerJSON serves the document to swag-based UIs such as echo-swagger.
type swaggerJSON struct{}

func (swaggerJSON) ReadDoc() string {
	swaggerOnce.Do(func() {
		swaggerDoc, swaggerErr = GetSwagger()
	})
	if swaggerErr != nil {
		return "{}"
	}
	data, err := json.Marshal(swaggerDoc)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func init() {
	swag.Register(swag.Name, swaggerJSON{})
}
