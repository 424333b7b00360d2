// Package config provides configuration loading and defaults for gitmetrics.
package config

// DefaultScanPaths are the default directories scanned for git repositories.
var DefaultScanPaths = []string{"~/code"}

// DefaultConfigDir is the default location for gitmetrics configuration.
const DefaultConfigDir = "~/.config/gitmetrics"

// DefaultDBName is the filename for the SQLite cache database.
const DefaultDBName = "gitmetrics.db"

// DefaultWorkers is the size of the repository worker pool.
const DefaultWorkers = 8

// DefaultExcludeDirs are directory names excluded from line counting in
// every repository, regardless of project type.
var DefaultExcludeDirs = []string{
	".git",
	".idea",
	".vscode",
	"node_modules",
	"vendor",
	"dist",
	"build",
	"__pycache__",
	".venv",
	"venv",
}

// DefaultExcludeExtensions are filename suffixes excluded from line
// counting. Multi-part suffixes such as ".g.dart" match against the end of
// the filename, not just the final extension.
var DefaultExcludeExtensions = []string{
	".md",
	".lock",
	".svg",
	".png",
	".jpg",
	".jpeg",
	".gif",
	".ico",
	".pdf",
	".csv",
	".min.js",
	".min.css",
	".map",
}

// DefaultExcludeFilenames are exact filenames excluded from line counting.
var DefaultExcludeFilenames = []string{
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	"go.sum",
	"Cargo.lock",
	"poetry.lock",
	"composer.lock",
	"Gemfile.lock",
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{Color: true}
