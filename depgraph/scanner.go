package depgraph

import (
	"errors"
	"path"
	"regexp"
	"slices"
	"strings"
)

// ErrUnsupported is returned when no scanner handles a file.
var ErrUnsupported = errors.New("unsupported file type")

// Scanner extracts the dependencies a source file names.
type Scanner interface {
	// CanScan reports whether the scanner understands the file at path.
	CanScan(path string) bool

	// Scan returns the referenced file names in order of appearance.
	Scan(content string) []string

	// Name returns the human-readable name of the language.
	Name() string
}

// PatternScanner matches one regular expression per line. The first submatch is the
// referenced file.
type PatternScanner struct {
	name       string
	extensions []string
	pattern    *regexp.Regexp
}

// NewPatternScanner creates a scanner for files with the given extensions.
func NewPatternScanner(name string, extensions []string, pattern string) *PatternScanner {
	return &PatternScanner{
		name:       name,
		extensions: extensions,
		pattern:    regexp.MustCompile(pattern),
	}
}

func (s *PatternScanner) CanScan(p string) bool {
	return slices.Contains(s.extensions, strings.ToLower(path.Ext(p)))
}

func (s *PatternScanner) Scan(content string) []string {
	var deps []string
	for _, line := range strings.Split(content, "\n") {
		m := s.pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if dep := strings.TrimSpace(m[1]); dep != "" && !slices.Contains(deps, dep) {
			deps = append(deps, dep)
		}
	}
	return deps
}

func (s *PatternScanner) Name() string {
	return s.name
}

// Stock scanners.
var (
	CInclude       = NewPatternScanner("C", []string{".c", ".h", ".cc", ".cpp", ".hpp"}, `^\s*#\s*include\s+"([^"]+)"`)
	VerilogInclude = NewPatternScanner("Verilog", []string{".v", ".sv", ".vh", ".svh"}, "^\\s*`include\\s+\"([^\"]+)\"")
	VHDLUse        = NewPatternScanner("VHDL", []string{".vhd", ".vhdl"}, `(?i)^\s*use\s+work\.(\w+)`)
)

// FileScanner returns the dependencies named by a file. Registry is the stock
// implementation.
type FileScanner interface {
	Scan(path, content string) ([]string, error)
}

// Registry picks a scanner by file name.
type Registry struct {
	scanners []Scanner
}

// NewRegistry creates a registry with the stock scanners.
func NewRegistry() *Registry {
	return &Registry{scanners: []Scanner{CInclude, VerilogInclude, VHDLUse}}
}

// Register adds s. Later registrations take precedence.
func (r *Registry) Register(s Scanner) {
	r.scanners = append([]Scanner{s}, r.scanners...)
}

// Scan returns the dependencies named by the file at p.
func (r *Registry) Scan(p, content string) ([]string, error) {
	for _, s := range r.scanners {
		if s.CanScan(p) {
			return s.Scan(content), nil
		}
	}
	return nil, ErrUnsupported
}
