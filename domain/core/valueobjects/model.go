package valueobjects

import (
	pkgerrors "nodular/pkg/errors"
)

// ModelID identifies the language model a system bubble targets.
// Invocation stays stubbed; the catalogue exists so system bubbles can
// validate their configuration.
type ModelID string

const (
	ModelGPTOSS120B     ModelID = "gpt-oss-120b"
	ModelGPTOSS20B      ModelID = "gpt-oss-20b"
	ModelQwen332B       ModelID = "qwen-3-32b"
	ModelLlama4Scout    ModelID = "llama-4-scout"
	ModelKimiK2         ModelID = "kimi-k2"
	ModelLlama3370B     ModelID = "llama-3.3-70b"
	ModelLlama4Maverick ModelID = "llama-4-maverick"
	ModelWhisperLargeV3 ModelID = "whisper-large-v3"
)

// DefaultModelID is used when a system bubble does not pick a model
const DefaultModelID = ModelGPTOSS120B

var knownModels = map[ModelID]struct{}{
	ModelGPTOSS120B:     {},
	ModelGPTOSS20B:      {},
	ModelQwen332B:       {},
	ModelLlama4Scout:    {},
	ModelKimiK2:         {},
	ModelLlama3370B:     {},
	ModelLlama4Maverick: {},
	ModelWhisperLargeV3: {},
}

// ParseModelID validates a model identifier against the catalogue
func ParseModelID(s string) (ModelID, error) {
	id := ModelID(s)
	if _, ok := knownModels[id]; !ok {
		return "", pkgerrors.NewValidationError("unknown model id").WithDetail("model_id", s)
	}
	return id, nil
}

// String returns the string representation
func (m ModelID) String() string {
	return string(m)
}
