package file

import (
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Decimals are stored as JSON strings but hand-edited files may use plain numbers.
const settingsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["cash", "property", "super_balance", "holdings"],
  "definitions": {
    "decimal": {
      "anyOf": [
        {"type": "number"},
        {"type": "string", "pattern": "^-?[0-9]+(\\.[0-9]+)?$"}
      ]
    },
    "track": {
      "type": "object",
      "properties": {
        "annual_growth_rate": {"$ref": "#/definitions/decimal"},
        "contribution_per_period": {"$ref": "#/definitions/decimal"}
      }
    }
  },
  "properties": {
    "cash": {"$ref": "#/definitions/decimal"},
    "super_balance": {"$ref": "#/definitions/decimal"},
    "goal": {"$ref": "#/definitions/decimal"},
    "home_currency": {"type": "string"},
    "foreign_currency": {"type": "string"},
    "fx_symbol": {"type": "string"},
    "property": {
      "type": "object",
      "required": ["market_value", "loan_balance"],
      "properties": {
        "market_value": {"$ref": "#/definitions/decimal"},
        "loan_balance": {"$ref": "#/definitions/decimal"},
        "ownership_fraction": {"$ref": "#/definitions/decimal"}
      }
    },
    "holdings": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["symbol", "quantity", "quote_currency"],
        "properties": {
          "symbol": {"type": "string", "minLength": 1},
          "name": {"type": "string"},
          "quantity": {"$ref": "#/definitions/decimal"},
          "quote_currency": {"enum": ["HOME", "FOREIGN"]},
          "fractional": {"type": "boolean"}
        }
      }
    },
    "forecast": {
      "type": "object",
      "properties": {
        "property": {"$ref": "#/definitions/track"},
        "portfolio": {"$ref": "#/definitions/track"},
        "super": {"$ref": "#/definitions/track"},
        "contribution_frequency": {"type": "string"},
        "horizon_years": {"type": "integer"},
        "annual_loan_repayment": {"$ref": "#/definitions/decimal"}
      }
    }
  }
}`

func compileSettingsSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("settings.json", strings.NewReader(settingsSchema)); err != nil {
		return nil, err
	}
	return compiler.Compile("settings.json")
}
