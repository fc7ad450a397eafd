package schema

import (
	"encoding/json"
	"testing"
)

func levelSchema() json.RawMessage {
	return json.RawMessage(`{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"properties": {
			"kind": {"type": "string", "enum": ["level"]},
			"state": {"type": "integer", "minimum": 0, "maximum": 30}
		},
		"additionalProperties": false
	}`)
}

const tvRecord = `{
	"device_id": "tv",
	"profile": "generic",
	"controls": {
		"power": {
			"kind": "binary",
			"state": false,
			"possible_states": [true, false],
			"commands": {
				"on": {"name": "power.on", "pulses": [9000, 4500, 560]},
				"off": {"name": "power.off", "pulses": [9000, 4500, 1690]}
			}
		},
		"volume": {
			"kind": "level",
			"state": 3,
			"possible_states": {"min": 0, "max": 10},
			"commands": {}
		}
	}
}`

func TestValidate_ValidPayload(t *testing.T) {
	v := NewValidator()

	err := v.Validate(levelSchema(), map[string]any{
		"kind":  "level",
		"state": float64(12),
	})
	if err != nil {
		t.Errorf("expected valid payload, got: %v", err)
	}
}

func TestValidate_InvalidEnum(t *testing.T) {
	v := NewValidator()

	err := v.Validate(levelSchema(), map[string]any{
		"kind": "dimmer",
	})
	if err == nil {
		t.Error("expected validation error for invalid enum value")
	}
}

func TestValidate_OutOfRange(t *testing.T) {
	v := NewValidator()

	err := v.Validate(levelSchema(), map[string]any{
		"state": float64(31),
	})
	if err == nil {
		t.Error("expected validation error for out-of-range state")
	}
}

func TestValidate_UnknownProperty(t *testing.T) {
	v := NewValidator()

	err := v.Validate(levelSchema(), map[string]any{
		"kind":    "level",
		"unknown": "value",
	})
	if err == nil {
		t.Error("expected validation error for unknown property")
	}
}

func TestValidate_EmptySchema(t *testing.T) {
	v := NewValidator()

	// Empty schema means no validation
	err := v.Validate(json.RawMessage(`{}`), map[string]any{
		"anything": "goes",
	})
	if err != nil {
		t.Errorf("empty schema should skip validation, got: %v", err)
	}
}

func TestValidate_NilSchema(t *testing.T) {
	v := NewValidator()

	err := v.Validate(nil, map[string]any{
		"anything": "goes",
	})
	if err != nil {
		t.Errorf("nil schema should skip validation, got: %v", err)
	}
}

func TestValidate_CachesSchema(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(levelSchema(), map[string]any{"state": float64(1)}); err != nil {
		t.Fatal(err)
	}
	if err := v.Validate(levelSchema(), map[string]any{"state": float64(2)}); err != nil {
		t.Fatal(err)
	}

	v.mu.RLock()
	cacheSize := len(v.cache)
	v.mu.RUnlock()
	if cacheSize != 1 {
		t.Errorf("expected 1 cached schema, got %d", cacheSize)
	}
}

func TestValidateDevice_Valid(t *testing.T) {
	v := NewValidator()

	if err := v.ValidateDevice([]byte(tvRecord)); err != nil {
		t.Errorf("expected valid record, got: %v", err)
	}
}

func TestValidateDevice_MissingPower(t *testing.T) {
	v := NewValidator()

	err := v.ValidateDevice([]byte(`{"device_id": "lamp", "controls": {"brightness": {"kind": "level"}}}`))
	if err == nil {
		t.Error("expected validation error for missing power control")
	}
}

func TestValidateDevice_NegativePulse(t *testing.T) {
	v := NewValidator()

	doc := `{"device_id": "fan", "controls": {"power": {"kind": "toggle",
		"commands": {"on": {"pulses": [100, -5]}}}}}`
	if err := v.ValidateDevice([]byte(doc)); err == nil {
		t.Error("expected validation error for negative pulse")
	}
}

func TestValidateDevice_UnknownKind(t *testing.T) {
	v := NewValidator()

	doc := `{"device_id": "fan", "controls": {"power": {"kind": "dial"}}}`
	if err := v.ValidateDevice([]byte(doc)); err == nil {
		t.Error("expected validation error for unknown kind")
	}
}

func TestValidateDevice_MalformedJSON(t *testing.T) {
	v := NewValidator()

	if err := v.ValidateDevice([]byte(`{"device_id":`)); err == nil {
		t.Error("expected error for malformed json")
	}
}

func TestDeviceSchema_Embedded(t *testing.T) {
	var doc map[string]any
	if err := json.Unmarshal(DeviceSchema(), &doc); err != nil {
		t.Fatalf("embedded schema is not json: %v", err)
	}
	if doc["title"] != "IR device record" {
		t.Errorf("unexpected schema title %v", doc["title"])
	}
}
