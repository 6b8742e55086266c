package manifest

// Manifest is a parsed manifest document.
type Manifest struct {
	// Name is shown in status output. Optional.
	Name string `yaml:"name,omitempty"`

	// Before lists files fetched ahead of Files.
	Before Section `yaml:"before,omitempty"`

	// Files lists the main files to fetch.
	Files []FileEntry `yaml:"files,omitempty"`

	// After lists files fetched once Files are done.
	After Section `yaml:"after,omitempty"`

	// Includes lists other manifests evaluated after this one.
	Includes []FileEntry `yaml:"includes,omitempty"`
}

// Section groups the files of a before/after phase.
type Section struct {
	Files []FileEntry `yaml:"files,omitempty"`
}

// FileEntry describes one file to retrieve. Include entries and digest
// files use the same shape but are never written to disk.
type FileEntry struct {
	// URL is an http, https or file locator. Required.
	URL string `yaml:"url"`

	// Destination is the path the file is written to. Required for files.
	Destination string `yaml:"destination,omitempty"`

	// Headers are sent with HTTP requests.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Verify holds the checks applied after the file is written.
	Verify *Verify `yaml:"verify,omitempty"`
}

// Verify is a verification spec.
type Verify struct {
	Digest  *Digest  `yaml:"digest,omitempty"`
	Archive *Archive `yaml:"archive,omitempty"`
}

// Digest compares the file digest against Text or against the first
// whitespace-delimited token of File.
type Digest struct {
	// Algorithm is one of none, md5, sha256. Empty disables the check.
	Algorithm string `yaml:"algorithm,omitempty"`

	// Text is the expected hex digest.
	Text string `yaml:"text,omitempty"`

	// File points at a document whose first token is the expected digest.
	File *FileEntry `yaml:"file,omitempty"`
}

// Archive asserts entries of a zip archive.
type Archive struct {
	Contains []string `yaml:"contains,omitempty"`
}

// sections returns the file sections in evaluation order.
func (m *Manifest) sections() [][]FileEntry {
	return [][]FileEntry{m.Before.Files, m.Files, m.After.Files}
}

// FileCount returns the number of file entries across all sections.
func (m *Manifest) FileCount() int {
	return len(m.Before.Files) + len(m.Files) + len(m.After.Files)
}

// SyntheticName is the name of the manifest built by NewSynthetic.
const SyntheticName = "Auto-generated top-level manifest"

// NewSynthetic builds a manifest that includes each of urls in order.
func NewSynthetic(urls []string) *Manifest {
	m := &Manifest{Name: SyntheticName}
	for _, u := range urls {
		m.Includes = append(m.Includes, FileEntry{URL: u})
	}
	return m
}
