package assessment

import (
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Issue is an advisory finding about the raw payload. Issues never block
// scoring; the offending value is treated as not reported by FromMap.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Field, i.Message)
}

const schemaJSON = `{
  "type": "object",
  "definitions": {
    "text": {"type": "string", "maxLength": 20000},
    "amount": {"type": "number", "minimum": 0},
    "textList": {"type": "array", "items": {"type": "string"}}
  },
  "properties": {
    "problemStory":         {"$ref": "#/definitions/text"},
    "advantages":           {"$ref": "#/definitions/textList"},
    "advantageExplanation": {"$ref": "#/definitions/text"},
    "hardshipStory":        {"$ref": "#/definitions/text"},
    "customerQuote":        {"$ref": "#/definitions/text"},
    "customerSurprise":     {"$ref": "#/definitions/text"},
    "customerCommitment":   {"$ref": "#/definitions/text"},
    "conversationCount":    {"$ref": "#/definitions/amount"},
    "customerList":         {"$ref": "#/definitions/textList"},
    "failedBelief":         {"$ref": "#/definitions/text"},
    "failedReasoning":      {"$ref": "#/definitions/text"},
    "failedDiscovery":      {"$ref": "#/definitions/text"},
    "failedChange":         {"$ref": "#/definitions/text"},
    "tested":               {"$ref": "#/definitions/text"},
    "buildTime":            {"$ref": "#/definitions/amount"},
    "measurement":          {"$ref": "#/definitions/text"},
    "results":              {"$ref": "#/definitions/text"},
    "learned":              {"$ref": "#/definitions/text"},
    "changed":              {"$ref": "#/definitions/text"},
    "targetCustomers":      {"$ref": "#/definitions/amount"},
    "conversionRate":       {"type": "number", "minimum": 0, "maximum": 100},
    "dailyActivity":        {"$ref": "#/definitions/amount"},
    "lifetimeValue":        {"$ref": "#/definitions/amount"},
    "costPerAcquisition":   {"$ref": "#/definitions/amount"},
    "gtm": {
      "type": "object",
      "properties": {
        "icpDescription":   {"$ref": "#/definitions/text"},
        "channelsTried":    {"$ref": "#/definitions/textList"},
        "channelResults": {
          "type": "array",
          "items": {
            "type": "object",
            "properties": {
              "channel":     {"type": "string"},
              "spend":       {"$ref": "#/definitions/amount"},
              "conversions": {"$ref": "#/definitions/amount"},
              "cac":         {"$ref": "#/definitions/amount"}
            }
          }
        },
        "currentCAC":       {"$ref": "#/definitions/amount"},
        "targetCAC":        {"$ref": "#/definitions/amount"},
        "messagingTested":  {"type": "boolean"},
        "messagingResults": {"$ref": "#/definitions/text"}
      }
    },
    "financial": {
      "type": "object",
      "properties": {
        "mrr":                  {"$ref": "#/definitions/amount"},
        "arr":                  {"$ref": "#/definitions/amount"},
        "monthlyBurn":          {"$ref": "#/definitions/amount"},
        "runway":               {"$ref": "#/definitions/amount"},
        "cogs":                 {"$ref": "#/definitions/amount"},
        "averageDealSize":      {"$ref": "#/definitions/amount"},
        "projectedRevenue12mo": {"$ref": "#/definitions/amount"},
        "revenueAssumptions":   {"$ref": "#/definitions/text"}
      }
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	})
	return schema, schemaErr
}

// Validate checks raw job variables against the assessment schema.
// A nil map is an empty assessment and yields no issues.
func Validate(raw map[string]interface{}) ([]Issue, error) {
	if raw == nil {
		return nil, nil
	}

	s, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile assessment schema: %w", err)
	}

	result, err := s.Validate(gojsonschema.NewGoLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("validate assessment: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	issues := make([]Issue, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		issues = append(issues, Issue{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    desc.Type(),
		})
	}
	return issues, nil
}
