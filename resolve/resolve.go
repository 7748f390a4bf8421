// Package resolve computes, once per generation run, which Java package each
// component's crate lands in, and hands every component a configuration
// whose external package map knows about all the others.
//
// Resolution must finish for all components before any of them renders.
// The returned Table and configurations are never mutated afterwards, so
// renders may read them concurrently.
package resolve

import (
	"sort"

	"github.com/teranos/javabind/config"
	"github.com/teranos/javabind/errors"
	"github.com/teranos/javabind/ir"
	"github.com/teranos/javabind/logger"
)

// Component is one interface description with its configuration.
type Component struct {
	CI     *ir.ComponentInterface
	Config config.JavaConfig
}

// Namespace returns the component namespace.
func (c Component) Namespace() string { return c.CI.Namespace }

// Table maps crate identity to Java package.
type Table struct {
	packages map[string]string
}

// Package returns the package for crate.
func (t *Table) Package(crate string) (string, bool) {
	pkg, ok := t.packages[crate]
	return pkg, ok
}

// Crates returns the resolved crates in sorted order.
func (t *Table) Crates() []string {
	crates := make([]string, 0, len(t.packages))
	for crate := range t.packages {
		crates = append(crates, crate)
	}
	sort.Strings(crates)
	return crates
}

// Len returns the number of resolved crates.
func (t *Table) Len() int { return len(t.packages) }

// DefaultPackage is the package of a component with no package_name.
func DefaultPackage(namespace string) string {
	return config.DefaultPackageName + "." + namespace
}

// DefaultCdylib is the native library name of a component with no cdylib_name.
func DefaultCdylib(namespace string) string {
	return "uniffi_" + namespace
}

// Resolve builds the crate to package table and returns a copy of each
// component whose configuration has its package, library name and external
// packages filled in. Explicit external_packages entries are kept as they
// are. The inputs are not modified.
func Resolve(components []Component) (*Table, []Component, error) {
	table := &Table{packages: make(map[string]string, len(components))}
	owner := make(map[string]string, len(components)) // package -> namespace

	resolved := make([]Component, len(components))
	for i, c := range components {
		if c.CI == nil {
			return nil, nil, errors.MarkInvalidDescription(errors.New("nil component"), "resolve")
		}
		cfg := c.Config.Merge(config.JavaConfig{})
		if cfg.Package == "" {
			cfg.Package = DefaultPackage(c.CI.Namespace)
		}
		if cfg.Cdylib == "" {
			cfg.Cdylib = DefaultCdylib(c.CI.Namespace)
		}

		crate := c.CI.Crate()
		if prev, dup := table.packages[crate]; dup {
			return nil, nil, errors.MarkInvalidConfig("crate %s is described twice (package %s and %s)", crate, prev, cfg.Package)
		}
		if ns, dup := owner[cfg.Package]; dup {
			err := errors.MarkInvalidConfig("components %s and %s both resolve to package %s", ns, c.CI.Namespace, cfg.Package)
			return nil, nil, errors.WithHint(err, "set a distinct package_name under [components.<namespace>]")
		}
		table.packages[crate] = cfg.Package
		owner[cfg.Package] = c.CI.Namespace

		resolved[i] = Component{CI: c.CI, Config: cfg}
	}

	for i := range resolved {
		cfg := &resolved[i].Config
		own := resolved[i].CI.Crate()
		for crate, pkg := range table.packages {
			if crate == own {
				continue
			}
			if _, explicit := cfg.ExternalPackages[crate]; explicit {
				continue
			}
			cfg.ExternalPackages[crate] = pkg
		}
		logger.Debugw("Resolved component package",
			logger.FieldNamespace, resolved[i].CI.Namespace,
			logger.FieldCrate, own,
			logger.FieldPackage, cfg.Package,
			logger.FieldCount, len(cfg.ExternalPackages))
	}

	return table, resolved, nil
}
