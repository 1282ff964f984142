package config

import (
	"fmt"

	"github.com/heroku/buildpacks-deb-packages/debian"
)

// ParseRequestedPackageError reports why one `install` array entry in
// project.toml could not become a debian.RequestedPackage.
type ParseRequestedPackageError struct {
	Value any
	Err   error
}

func (e *ParseRequestedPackageError) Error() string {
	return fmt.Sprintf("%v is not a valid install entry: %s", e.Value, e.Err)
}

func (e *ParseRequestedPackageError) Unwrap() error { return e.Err }

// decodeRequestedPackage accepts either a bare package name string or an
// inline table {name, skip_dependencies, force}, the two forms a TOML
// decoder hands back as string or map[string]any once the document has
// been unmarshalled into `any`.
func decodeRequestedPackage(value any) (debian.RequestedPackage, error) {
	switch v := value.(type) {
	case string:
		name, err := debian.ParsePackageName(v)
		if err != nil {
			return debian.RequestedPackage{}, &ParseRequestedPackageError{Value: value, Err: err}
		}
		return debian.RequestedPackage{Name: name}, nil
	case map[string]any:
		rawName, _ := v["name"].(string)
		name, err := debian.ParsePackageName(rawName)
		if err != nil {
			return debian.RequestedPackage{}, &ParseRequestedPackageError{Value: value, Err: err}
		}
		skipDependencies, _ := v["skip_dependencies"].(bool)
		force, _ := v["force"].(bool)
		return debian.RequestedPackage{
			Name:             name,
			SkipDependencies: skipDependencies,
			Force:            force,
		}, nil
	default:
		return debian.RequestedPackage{}, &ParseRequestedPackageError{
			Value: value,
			Err:   fmt.Errorf("expected a string or a table, got %T", value),
		}
	}
}
