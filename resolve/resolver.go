// Package resolve walks a set of requested packages to the full set of
// packages that must be installed, using a read-only PackageIndex and the
// host's already-installed SystemPackage set.
package resolve

import (
	"fmt"

	"github.com/heroku/buildpacks-deb-packages/control"
	"github.com/heroku/buildpacks-deb-packages/debian"
	"github.com/heroku/buildpacks-deb-packages/reporter"
)

// MarkedPackage is one package the resolver decided must be installed,
// together with the top-level requested package that pulled it in.
type MarkedPackage struct {
	Package     control.RepositoryPackage
	RequestedBy string
}

// PackageNotFoundError is returned when a name resolves to neither a real
// package nor any virtual provider.
type PackageNotFoundError struct {
	Name string
}

func (e *PackageNotFoundError) Error() string {
	return fmt.Sprintf("package %q was not found in any configured repository", e.Name)
}

// VirtualAmbiguousError is returned when a name resolves to more than one
// virtual-package provider, with no way to prefer one over another.
type VirtualAmbiguousError struct {
	Name      string
	Providers []string
}

func (e *VirtualAmbiguousError) Error() string {
	return fmt.Sprintf("%q is provided by more than one package: %v", e.Name, e.Providers)
}

// Resolver walks RequestedPackage entries to their full installation set.
type Resolver struct {
	Index    *control.PackageIndex
	System   map[debian.PackageName]struct{}
	Listener reporter.Listener
}

// New returns a Resolver. A nil listener discards notifications.
func New(index *control.PackageIndex, system map[debian.PackageName]struct{}, listener reporter.Listener) *Resolver {
	if listener == nil {
		listener = reporter.Discard
	}
	return &Resolver{Index: index, System: system, Listener: listener}
}

// Resolve walks every requested package (in order) to the full set of
// MarkedPackage values, in the order the traversal first marks them.
func (r *Resolver) Resolve(requested []debian.RequestedPackage) ([]MarkedPackage, error) {
	marked := make(map[string]MarkedPackage)
	var order []string
	var stack []string

	for _, req := range requested {
		if err := r.visit(string(req.Name), req.SkipDependencies, &stack, marked, &order); err != nil {
			return nil, err
		}
	}

	result := make([]MarkedPackage, 0, len(order))
	for _, name := range order {
		result = append(result, marked[name])
	}
	return result, nil
}

func (r *Resolver) visit(name string, skipDeps bool, stack *[]string, marked map[string]MarkedPackage, order *[]string) error {
	if _, onSystem := r.System[debian.PackageName(name)]; onSystem {
		r.Listener(&reporter.EventPackageSkippedOnSystem{Name: name})
		return nil
	}
	if _, already := marked[name]; already {
		r.Listener(&reporter.EventPackageAlreadyMarked{Name: name})
		return nil
	}

	if p, ok := r.Index.HighestVersion(name); ok {
		return r.visitReal(p, skipDeps, stack, marked, order)
	}

	providers := r.Index.Providers(name)
	switch len(providers) {
	case 1:
		r.Listener(&reporter.EventVirtualPackageResolved{VirtualName: name, Provider: providers[0]})
		*stack = append(*stack, name)
		err := r.visit(providers[0], skipDeps, stack, marked, order)
		*stack = (*stack)[:len(*stack)-1]
		return err
	case 0:
		return &PackageNotFoundError{Name: name}
	default:
		return &VirtualAmbiguousError{Name: name, Providers: providers}
	}
}

func (r *Resolver) visitReal(p control.RepositoryPackage, skipDeps bool, stack *[]string, marked map[string]MarkedPackage, order *[]string) error {
	requestedBy := p.Name
	if len(*stack) > 0 {
		requestedBy = (*stack)[0]
	}

	marked[p.Name] = MarkedPackage{Package: p, RequestedBy: requestedBy}
	*order = append(*order, p.Name)

	path := append([]string{}, (*stack)...)
	r.Listener(&reporter.EventPackageAdded{Name: p.Name, Version: p.Version, RequestedBy: requestedBy, Path: path})

	*stack = append(*stack, p.Name)
	defer func() { *stack = (*stack)[:len(*stack)-1] }()

	if skipDeps {
		return nil
	}
	for _, d := range p.Dependencies() {
		if _, onSystem := r.System[debian.PackageName(d)]; onSystem {
			continue
		}
		if _, already := marked[d]; already {
			continue
		}
		if err := r.visit(d, skipDeps, stack, marked, order); err != nil {
			return err
		}
	}
	return nil
}
