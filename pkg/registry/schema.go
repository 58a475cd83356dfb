// pkg/registry/schema.go
package registry

// Activity is a named extracurricular offering with a capacity and a roster.
// The name is the registry key and is not repeated in the record.
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// Seed is the startup contents of a Registry, keyed by activity name.
type Seed map[string]Activity

// Receipt describes a successful roster mutation.
type Receipt struct {
	Activity     string `json:"activity"`
	Email        string `json:"email"`
	Message      string `json:"message"`
	Participants int    `json:"participants"`
}

// seedSchema is the JSON schema every seed file must satisfy.
var seedSchema = map[string]interface{}{
	"type":          "object",
	"minProperties": 1,
	"additionalProperties": map[string]interface{}{
		"type":                 "object",
		"required":             []interface{}{"description", "schedule", "max_participants"},
		"additionalProperties": false,
		"properties": map[string]interface{}{
			"description":      map[string]interface{}{"type": "string"},
			"schedule":         map[string]interface{}{"type": "string"},
			"max_participants": map[string]interface{}{"type": "integer", "minimum": 1},
			"participants": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string", "minLength": 1},
			},
		},
	},
}
