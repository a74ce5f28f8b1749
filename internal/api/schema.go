package api

// Response schemas for the payloads the exercise cannot run without.
// Optional fields are left out of "required" so older service builds pass.

var documentDef = map[string]any{
	"type":     "object",
	"required": []any{"title", "content"},
	"properties": map[string]any{
		"title":   map[string]any{"type": "string"},
		"content": map[string]any{"type": "string"},
	},
}

var startSchema = map[string]any{
	"type":     "object",
	"required": []any{"session_id", "background", "request", "config"},
	"properties": map[string]any{
		"session_id": map[string]any{"type": "string", "minLength": 1},
		"background": documentDef,
		"request": map[string]any{
			"type":     "object",
			"required": []any{"subject", "body"},
			"properties": map[string]any{
				"from":    map[string]any{"type": "string"},
				"subject": map[string]any{"type": "string"},
				"body":    map[string]any{"type": "string"},
			},
		},
		"config": map[string]any{
			"type": "object",
			"required": []any{
				"timer_request", "timer_document", "timer_predictions", "timer_data", "timer_background",
			},
			"properties": map[string]any{
				"timer_request":     positiveInt,
				"timer_document":    positiveInt,
				"timer_predictions": positiveInt,
				"timer_data":        positiveInt,
				"timer_background":  positiveInt,
			},
		},
		"cost_so_far": map[string]any{"type": "number"},
	},
}

var positiveInt = map[string]any{"type": "integer", "minimum": 1}

var scoredDef = map[string]any{
	"type":     "object",
	"required": []any{"score"},
	"properties": map[string]any{
		"score":    map[string]any{"type": "number"},
		"feedback": map[string]any{"type": "string"},
	},
}

var reviewSchema = map[string]any{
	"type":     "object",
	"required": []any{"feedback"},
	"properties": map[string]any{
		"feedback": map[string]any{
			"type":     "object",
			"required": []any{"overall"},
			"properties": map[string]any{
				"deliverable_understanding": scoredDef,
				"note_quality":              scoredDef,
				"note_efficiency":           scoredDef,
				"formatting":                scoredDef,
				"overall": map[string]any{
					"type":     "object",
					"required": []any{"score", "summary"},
					"properties": map[string]any{
						"score":           map[string]any{"type": "number"},
						"summary":         map[string]any{"type": "string"},
						"top_improvement": map[string]any{"type": "string"},
					},
				},
			},
		},
		"improvement": map[string]any{"type": []any{"object", "null"}},
		"token_usage": map[string]any{"type": "object"},
	},
}

var quickStartSchema = map[string]any{
	"type":     "object",
	"required": []any{"session_id", "question", "documents", "timer_seconds"},
	"properties": map[string]any{
		"session_id":    map[string]any{"type": "string", "minLength": 1},
		"question":      map[string]any{"type": "string"},
		"timer_seconds": positiveInt,
		"documents": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"title", "bullets"},
				"properties": map[string]any{
					"title":   map[string]any{"type": "string"},
					"bullets": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				},
			},
		},
	},
}
