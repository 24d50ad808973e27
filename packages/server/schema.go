package server

import (
	_ "embed"
	"fmt"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gin-gonic/gin"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed request.schema.json
var requestSchemaJSON []byte

//go:embed openapi.yaml
var openAPIYAML []byte

var requestSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(requestSchemaJSON))
})

// ValidateDescription checks a raw POST /execute body and returns one message
// per violation. A nil result means the body is valid.
func ValidateDescription(body []byte) []string {
	schema, err := requestSchema()
	if err != nil {
		return []string{fmt.Sprintf("request schema: %v", err)}
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return []string{fmt.Sprintf("invalid JSON: %v", err)}
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	return problems
}

// LoadOpenAPI parses and validates the embedded API document.
func LoadOpenAPI() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openAPIYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return doc, nil
}

var openAPIDoc = sync.OnceValues(LoadOpenAPI)

func (s *Server) openAPIDocument(c *gin.Context) {
	doc, err := openAPIDoc()
	if err != nil {
		s.logger.WithError(err).Error("Error loading API document")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, doc)
}
