// Package schemas holds the JSON Schema documents shipped with the binary.
package schemas

import "embed"

// DraftSchema is the file name of the CV draft schema.
const DraftSchema = "cv_draft.schema.json"

//go:embed *.schema.json
var FS embed.FS
