package domain

import "path/filepath"

// Language of a source file holding annotated functions
type Language string

const (
	LanguagePython Language = "python"
	LanguageC      Language = "c"
	LanguageCPP    Language = "cpp"
)

// LanguageForPath derives the language from a file extension. The empty
// language means the file is not supported
func LanguageForPath(path string) Language {
	switch filepath.Ext(path) {
	case ".py":
		return LanguagePython
	case ".c", ".h":
		return LanguageC
	case ".cpp", ".hpp", ".cc", ".hh", ".cxx":
		return LanguageCPP
	}
	return ""
}

// Function is an annotated function found in a source file
type Function struct {
	File       string   `json:"file"`
	Language   Language `json:"language"`
	Scope      string   `json:"scope,omitempty"` // enclosing class or namespace
	Name       string   `json:"name"`
	Parameters []string `json:"parameters"`
	Doc        string   `json:"-"`
	Line       int      `json:"line"`
}

// ScopedName returns Scope.Name, or Name when the function is not scoped
func (f Function) ScopedName() string {
	if f.Scope == "" {
		return f.Name
	}
	return f.Scope + "." + f.Name
}

// QualifiedName identifies the function across the whole project
func (f Function) QualifiedName() string {
	return f.File + ":" + f.ScopedName()
}
