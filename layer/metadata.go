package layer

import "github.com/heroku/buildpacks-deb-packages/debian"

// ReleaseMetadata is the cache-key payload for a release layer.
type ReleaseMetadata struct {
	ETag string `json:"etag"`
}

// IndexMetadata is the cache-key payload for an index layer.
type IndexMetadata struct {
	Hash string `json:"hash"`
}

// PackagesMetadata is the cache-key payload for the packages layer.
type PackagesMetadata struct {
	Distro           debian.Distro     `json:"distro"`
	PackageChecksums map[string]string `json:"package_checksums"`
}

// EvaluateRelease decides whether a release layer's cached body can be
// reused: the new metadata must carry the same ETag as the stored one.
func EvaluateRelease(oldJSON []byte, current ReleaseMetadata) Decision {
	return Evaluate(oldJSON, current, "stored ETag did not match")
}

// EvaluateIndex decides whether an index layer's decompressed body can be
// reused: the new metadata must carry the same content hash.
func EvaluateIndex(oldJSON []byte, current IndexMetadata) Decision {
	return Evaluate(oldJSON, current, "stored hash did not match")
}

// EvaluatePackages decides whether the packages layer's extracted tree can
// be reused: the distro and every package's checksum must match exactly.
func EvaluatePackages(oldJSON []byte, current PackagesMetadata) Decision {
	return Evaluate(oldJSON, current, "stored package set did not match")
}
