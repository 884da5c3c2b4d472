package actions

// Helpers for building JSON Schema objects.

func prop(typ, desc string) map[string]any {
	return map[string]any{"type": typ, "description": desc}
}

func obj(properties map[string]any) map[string]any {
	if properties == nil {
		properties = map[string]any{}
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
	}
}

func objReq(properties map[string]any, required ...string) map[string]any {
	s := obj(properties)
	s["required"] = required
	return s
}
