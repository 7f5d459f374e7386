package plugin

import "encoding/json"

// DecodeConfig maps an opaque config map onto a plugin's typed config
// struct through a JSON round trip. Unknown keys are dropped, matching how
// runtime configs are merged from loosely typed sources.
func DecodeConfig(config map[string]any, out any) error {
	raw, err := json.Marshal(config)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
