package cli

import (
	"encoding/json/v2"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by --format.
const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// render writes v in the requested format. YAML keys follow the JSON field
// names so both formats describe the same document.
func render(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		if err := json.MarshalWrite(w, v); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	case formatYAML:
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (must be json or yaml)", format)
	}
}
