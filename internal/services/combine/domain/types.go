// Package domain holds the shapes and ports of the combine run
package domain

// Source is one discovered input file
type Source struct {
	// Path is the file location on disk
	Path string
	// Name is the path relative to the input dir, used for routing and logs
	Name string
}

// FileReport is the outcome of one source
type FileReport struct {
	Name    string
	Format  string
	Records int
	Err     error
}

// Skipped reports whether the file contributed nothing because it failed
func (r FileReport) Skipped() bool { return r.Err != nil }

// Summary is the outcome of a whole run
type Summary struct {
	Output       string
	Found        int
	Processed    int
	Skipped      int
	Records      int
	DuplicateIDs int
	Files        []FileReport
}
