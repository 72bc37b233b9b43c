package main

import (
	"encoding/json"
	"fmt"
	"io"
)

// Print obj as indented json
func printJson(w io.Writer, obj interface{}) error {
	rawjson, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return fmt.Errorf("couldn't serialize json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(rawjson))
	return err
}
