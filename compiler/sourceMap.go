package compiler

// SourceMap is a version 3 source map.
type SourceMap struct {
	Version        int      `json:"version"`
	File           string   `json:"file,omitempty"`
	SourceRoot     string   `json:"sourceRoot,omitempty"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// OriginalSource returns the first embedded source, the text that positions in
// diagnostics refer to when the template came out of an earlier transform.
func (m *SourceMap) OriginalSource() (string, bool) {
	if m == nil || len(m.SourcesContent) == 0 {
		return "", false
	}
	return m.SourcesContent[0], true
}
