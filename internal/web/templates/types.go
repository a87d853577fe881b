// Package templates holds the templ views of the splitter UI.
//
// Edit the .templ sources and run `templ generate`; the *_templ.go files are
// generated.
package templates

// FileView is one downloadable part.
type FileView struct {
	Name     string
	URL      string
	DataRows int
	Size     string
}

// ResultView is a finished split as shown on the page.
type ResultView struct {
	ID           string
	SourceName   string
	PartCount    int
	DataRowCount int
	ArchiveName  string
	ArchiveURL   string
	Files        []FileView
}

// ErrorView is a user-facing error shown above the form.
type ErrorView struct {
	Message string
	Action  string
	Code    string
}

// SplitPageParams are the inputs of the main page.
type SplitPageParams struct {
	DefaultParts int
	MaxParts     int
	MaxFileSize  string
	Result       *ResultView
	Error        *ErrorView
}
