package spdx

// Checksum algorithms accepted in FileChecksum tags. Matching is case-sensitive.
const (
	ChecksumSHA1   = "SHA1"
	ChecksumMD5    = "MD5"
	ChecksumSHA256 = "SHA256"
)

// Record is the per-file result of parsing one FileName entry.
//
// Path and License are exactly what the document declared. FinalPath and
// FinalLicense start out equal to them and are only changed by the importer
// (prefix stripping and license conversion). Empty checksum fields mean the
// document did not declare that checksum.
type Record struct {
	Path         string
	FinalPath    string
	License      string
	FinalLicense string
	SHA1         string
	MD5          string
	SHA256       string
}

// NewRecord creates a record for the file at path.
func NewRecord(path string) *Record {
	return &Record{Path: path, FinalPath: path}
}

// SetLicense records the concluded license and resets the final license to it.
func (r *Record) SetLicense(license string) {
	r.License = license
	r.FinalLicense = license
}

// setChecksum stores value under the given algorithm.
// Returns false if the algorithm is not one of SHA1, MD5 or SHA256.
func (r *Record) setChecksum(algorithm, value string) bool {
	switch algorithm {
	case ChecksumSHA1:
		r.SHA1 = value
	case ChecksumMD5:
		r.MD5 = value
	case ChecksumSHA256:
		r.SHA256 = value
	default:
		return false
	}
	return true
}
