// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package annotation

import (
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/textlab/corpus-engine/pkg/types"
)

// ParseExport reads a Label Studio JSON export into flat annotations.
// Exports nest the judgment inside annotations[].result[] with the
// control name in from_name; gjson probing keeps this tolerant of the
// extra fields Label Studio adds between versions.
func ParseExport(data []byte) ([]types.Annotation, error) {
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("export is not a task array")
	}

	var annotations []types.Annotation
	for _, task := range root.Array() {
		taskID := task.Get("data.id").Str
		if taskID == "" {
			taskID = task.Get("id").String()
		}
		text := task.Get("data.text").Str

		for _, ann := range task.Get("annotations").Array() {
			annotator := ann.Get("created_by.username").Str
			if annotator == "" {
				annotator = "unknown"
			}

			a := types.Annotation{TaskID: taskID, Text: text, Annotator: annotator}
			for _, item := range ann.Get("result").Array() {
				fromName := item.Get("from_name").Str
				value := item.Get("value")

				switch {
				case value.Get("choices").Exists():
					choices := value.Get("choices").Array()
					if len(choices) == 0 {
						continue
					}
					switch {
					case strings.Contains(fromName, "toxic_types"):
						for _, c := range choices {
							a.Subtypes = append(a.Subtypes, c.Str)
						}
					case strings.Contains(strings.ToLower(fromName), "confidence"):
						a.Confidence = choices[0].Str
					default:
						for _, c := range choices {
							switch c.Str {
							case "toxic":
								a.Label = types.IntPtr(1)
							case "non-toxic":
								a.Label = types.IntPtr(0)
							}
						}
					}
				case value.Get("text").Exists():
					parts := value.Get("text").Array()
					if len(parts) > 0 {
						a.Notes = parts[0].Str
					}
				}
			}
			annotations = append(annotations, a)
		}
	}
	return annotations, nil
}

// ReadExport loads and parses a Label Studio export file.
func ReadExport(path string) ([]types.Annotation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseExport(data)
}
