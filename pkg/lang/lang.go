// Package lang maps filenames to semantic language tags and provides the
// per-language starter templates and executor table used across the workspace.
// Everything here is a pure lookup: unknown input always yields the plain-text
// default, never an error.
package lang

import (
	"path/filepath"
	"strings"
)

// Language tags. Tags are plain strings so they travel freely through documents,
// requests, and logs.
const (
	JavaScript = "javascript"
	TypeScript = "typescript"
	Python     = "python"
	Java       = "java"
	CPP        = "cpp"
	CSharp     = "csharp"
	PHP        = "php"
	Go         = "go"
	Rust       = "rust"
	Ruby       = "ruby"
	Kotlin     = "kotlin"
	Swift      = "swift"
	Scala      = "scala"
	Dart       = "dart"
	R          = "r"
	Perl       = "perl"
	Lua        = "lua"
	HTML       = "html"
	CSS        = "css"
	SCSS       = "scss"
	Sass       = "sass"
	Less       = "less"
	JSON       = "json"
	XML        = "xml"
	YAML       = "yaml"
	TOML       = "toml"
	INI        = "ini"
	SQL        = "sql"
	Markdown   = "markdown"
	Shell      = "shell"
	Batch      = "bat"
	PowerShell = "powershell"
	Dockerfile = "dockerfile"
	Vim        = "vim"
	Plaintext  = "plaintext"
)

// extensionTags is the static extension-to-tag table. Lookups are case-insensitive
// on the final extension; behavior never depends on iteration order.
var extensionTags = map[string]string{
	"js": JavaScript, "jsx": JavaScript, "mjs": JavaScript,
	"ts": TypeScript, "tsx": TypeScript,
	"py": Python, "pyw": Python,
	"java": Java,
	"cpp":  CPP, "c": CPP, "cc": CPP, "cxx": CPP, "h": CPP, "hpp": CPP,
	"cs":  CSharp,
	"php": PHP, "phtml": PHP,
	"go":    Go,
	"rs":    Rust,
	"rb":    Ruby,
	"kt":    Kotlin,
	"swift": Swift,
	"scala": Scala,
	"dart":  Dart,
	"r":     R,
	"pl":    Perl,
	"lua":   Lua,
	"html":  HTML, "htm": HTML,
	"css":  CSS,
	"scss": SCSS, "sass": Sass, "less": Less,
	"json": JSON, "jsonc": JSON,
	"xml": XML, "xhtml": XML, "xsl": XML,
	"yml": YAML, "yaml": YAML,
	"toml": TOML,
	"ini":  INI, "cfg": INI, "conf": INI,
	"sql": SQL,
	"md":  Markdown, "markdown": Markdown,
	"sh": Shell, "bash": Shell, "zsh": Shell, "fish": Shell,
	"bat": Batch, "cmd": Batch,
	"ps1":        PowerShell,
	"dockerfile": Dockerfile,
	"vim":        Vim,
	"txt":        Plaintext, "log": Plaintext, "env": Plaintext,
}

// Classify maps a filename or path to its language tag. Unknown or missing
// extensions yield Plaintext.
func Classify(filenameOrPath string) string {
	base := filepath.Base(filenameOrPath)
	dot := strings.LastIndexByte(base, '.')
	if dot < 0 || dot == len(base)-1 {
		return Plaintext
	}
	ext := strings.ToLower(base[dot+1:])
	if tag, ok := extensionTags[ext]; ok {
		return tag
	}
	return Plaintext
}

// preferredExtensions maps tags back to the extension used when renaming an
// untitled document after a language switch.
var preferredExtensions = map[string]string{
	Python:     ".py",
	JavaScript: ".js",
	TypeScript: ".ts",
	Java:       ".java",
	CPP:        ".cpp",
	CSharp:     ".cs",
	Go:         ".go",
	Rust:       ".rs",
	Ruby:       ".rb",
	PHP:        ".php",
	HTML:       ".html",
	CSS:        ".css",
	JSON:       ".json",
	Markdown:   ".md",
	SQL:        ".sql",
	Shell:      ".sh",
	YAML:       ".yml",
}

// ExtensionFor returns the preferred file extension for a language tag,
// defaulting to ".txt".
func ExtensionFor(tag string) string {
	if ext, ok := preferredExtensions[tag]; ok {
		return ext
	}
	return ".txt"
}

// executors maps file extensions to the executor command that runs them.
var executors = map[string]string{
	"py":   "python",
	"js":   "node",
	"java": "java",
	"cpp":  "g++",
	"c":    "gcc",
}

// ExecutorFor resolves the executor for a filename. The second return is false
// when the extension has no registered executor.
func ExecutorFor(filename string) (string, bool) {
	base := filepath.Base(filename)
	dot := strings.LastIndexByte(base, '.')
	if dot < 0 || dot == len(base)-1 {
		return "", false
	}
	exec, ok := executors[strings.ToLower(base[dot+1:])]
	return exec, ok
}

// ExecutableExtensions lists the extensions the run command supports, for user
// hints. The order is fixed.
func ExecutableExtensions() []string {
	return []string{".py", ".js", ".java", ".cpp", ".c"}
}

var displayNames = map[string]string{
	JavaScript: "JavaScript",
	TypeScript: "TypeScript",
	Python:     "Python",
	Java:       "Java",
	CPP:        "C++",
	CSharp:     "C#",
	PHP:        "PHP",
	Go:         "Go",
	Rust:       "Rust",
	Ruby:       "Ruby",
	HTML:       "HTML",
	CSS:        "CSS",
	JSON:       "JSON",
	Markdown:   "Markdown",
	SQL:        "SQL",
	Shell:      "Shell",
	YAML:       "YAML",
	Plaintext:  "Plain Text",
}

// DisplayName returns a human-readable label for a tag, falling back to the tag
// itself.
func DisplayName(tag string) string {
	if name, ok := displayNames[tag]; ok {
		return name
	}
	return tag
}
